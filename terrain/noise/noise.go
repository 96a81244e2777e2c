// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

import (
	"github.com/SoftbearStudios/terrastream/terrain"
	"github.com/aquilax/go-perlin"
)

// Generator generates a height profile using fractal perlin noise.
// It holds no state besides the seeded gradient table, so it is safe to share.
type Generator struct {
	perlin *perlin.Perlin

	octaves     int
	frequency   float64
	persistence float64
	lacunarity  float64
	amplitude float64
	baseline  float64
	// weight is the sum of octave weights, used to keep output within amplitude.
	weight float64
}

func NewDefault() *Generator {
	return New(terrain.DefaultConfig())
}

// New creates a new Generator from the noise fields of config.
func New(config terrain.Config) *Generator {
	return &Generator{
		// Octaves are summed in Height, so perlin only evaluates one.
		perlin:      perlin.NewPerlin(1/config.Persistence, config.Lacunarity, 1, config.Seed),
		octaves:     config.Octaves,
		frequency:   config.Frequency,
		persistence: config.Persistence,
		lacunarity:  config.Lacunarity,
		amplitude:   config.Amplitude,
		baseline:    config.Baseline,
		weight:      octaveWeight(config.Octaves, config.Persistence),
	}
}

// Height implements terrain.Source.Height.
func (g *Generator) Height(x float64) float32 {
	if g.octaves == 0 {
		return float32(g.baseline)
	}

	// Octave i is weighted persistence^i and sampled at lacunarity^i.
	var sum float64
	weight := 1.0
	px := x * g.frequency
	for i := 0; i < g.octaves; i++ {
		sum += weight * g.perlin.Noise1D(wrap(px))
		weight *= g.persistence
		px *= g.lacunarity
	}
	return float32(g.baseline + sum/g.weight*g.amplitude)
}

// Generate implements terrain.Source.Generate.
func (g *Generator) Generate(x, spacing float64, n int) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		// Multiply instead of accumulating so edges shared by two chunks are bit-identical.
		buf[i] = g.Height(x + float64(i)*spacing)
	}
	return buf
}
