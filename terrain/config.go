// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/*
	List of curated seeds:
		1337 (default, rolling hills)
		777
		42
*/

// Seed default seed.
const Seed = int64(1337)

// Config is the immutable configuration of the noise, the chunk store and the scheduler.
// It is built once at startup and passed by value to every constructor.
type Config struct {
	Seed int64 `yaml:"seed" json:"seed"`

	// Chunk geometry in world units. ChunkWidth must be a multiple of PointSpacing.
	ChunkWidth   int `yaml:"chunk_width" json:"chunkWidth"`
	PointSpacing int `yaml:"point_spacing" json:"pointSpacing"`

	// Fractal noise.
	Octaves     int     `yaml:"octaves" json:"octaves"`
	Amplitude   float64 `yaml:"amplitude" json:"amplitude"`
	Frequency   float64 `yaml:"frequency" json:"frequency"`
	Persistence float64 `yaml:"persistence" json:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity" json:"lacunarity"`
	Baseline    float64 `yaml:"baseline" json:"baseline"`

	// Streaming, in chunks.
	PrefetchAhead     int  `yaml:"prefetch_ahead" json:"prefetchAhead"`
	PrefetchBehind    int  `yaml:"prefetch_behind" json:"prefetchBehind"`
	FrameBudget       int  `yaml:"frame_budget" json:"frameBudget"`
	SpawnBudget       int  `yaml:"spawn_budget" json:"spawnBudget"` // 0 is unbounded
	AllowNegative     bool `yaml:"allow_negative" json:"allowNegative"`
	InitialLeftChunks int  `yaml:"initial_left_chunks" json:"initialLeftChunks"`

	// Ridge smoothing.
	Smoothing       bool    `yaml:"smoothing" json:"smoothing"`
	Subdivisions    int     `yaml:"subdivisions" json:"subdivisions"`
	MinSmoothPoints int     `yaml:"min_smooth_points" json:"minSmoothPoints"`
	SpikeThreshold  float32 `yaml:"spike_threshold" json:"spikeThreshold"`
	VerticalClamp   float32 `yaml:"vertical_clamp" json:"verticalClamp"`

	// Relaxes isolated peaks left over after smoothing.
	SpikeFilter          bool    `yaml:"spike_filter" json:"spikeFilter"`
	SpikeFilterThreshold float32 `yaml:"spike_filter_threshold" json:"spikeFilterThreshold"`
	SpikeRelax           float32 `yaml:"spike_relax" json:"spikeRelax"`
	SpikeFilterPasses    int     `yaml:"spike_filter_passes" json:"spikeFilterPasses"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	const amplitude = 140
	return Config{
		Seed:         Seed,
		ChunkWidth:   256,
		PointSpacing: 16,

		Octaves:     4,
		Amplitude:   amplitude,
		Frequency:   0.005,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Baseline:    297,

		PrefetchAhead:     12,
		PrefetchBehind:    2,
		FrameBudget:       3,
		AllowNegative:     true,
		InitialLeftChunks: 3,

		Smoothing:       true,
		Subdivisions:    4,
		MinSmoothPoints: 8,
		SpikeThreshold:  amplitude * 1.2,
		VerticalClamp:   220,

		SpikeFilter:          true,
		SpikeFilterThreshold: 18,
		SpikeRelax:           0.55,
		SpikeFilterPasses:    1,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, c.Validate()
}

// Samples is the number of raw samples per chunk, both edges included.
func (c Config) Samples() int {
	return c.ChunkWidth/c.PointSpacing + 1
}

// Validate fails fast on configurations that could never reach a steady state.
func (c Config) Validate() error {
	switch {
	case c.ChunkWidth <= 0:
		return invalid("chunk_width", c.ChunkWidth)
	case c.PointSpacing <= 0:
		return invalid("point_spacing", c.PointSpacing)
	case c.ChunkWidth%c.PointSpacing != 0:
		return fmt.Errorf("%w: chunk_width %d is not a multiple of point_spacing %d", ErrInvalidConfig, c.ChunkWidth, c.PointSpacing)
	case c.PrefetchAhead <= 0:
		return invalid("prefetch_ahead", c.PrefetchAhead)
	case c.PrefetchBehind <= 0:
		return invalid("prefetch_behind", c.PrefetchBehind)
	case c.FrameBudget <= 0:
		// The window always holds the viewer chunk, so it is never empty.
		return invalid("frame_budget", c.FrameBudget)
	case c.SpawnBudget < 0:
		return negative("spawn_budget", c.SpawnBudget)
	case c.InitialLeftChunks < 0:
		return negative("initial_left_chunks", c.InitialLeftChunks)
	case c.Octaves < 0:
		return negative("octaves", c.Octaves)
	case c.Persistence <= 0:
		return invalid("persistence", c.Persistence)
	case c.Lacunarity <= 0:
		return invalid("lacunarity", c.Lacunarity)
	}

	if !c.Smoothing {
		return nil
	}

	switch {
	case c.Subdivisions < 1:
		return invalid("subdivisions", c.Subdivisions)
	case c.SpikeThreshold <= 0:
		return invalid("spike_threshold", c.SpikeThreshold)
	case c.VerticalClamp <= 0:
		return invalid("vertical_clamp", c.VerticalClamp)
	case c.SpikeFilter && c.SpikeFilterPasses < 0:
		return negative("spike_filter_passes", c.SpikeFilterPasses)
	}
	return nil
}

func invalid(field string, value interface{}) error {
	return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, field, value)
}

func negative(field string, value interface{}) error {
	return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidConfig, field, value)
}
