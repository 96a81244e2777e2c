// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

import (
	"math"
	"sort"

	"github.com/SoftbearStudios/terrastream/terrain"
)

// Sample is a point on the smoothed ridge line.
type Sample struct {
	X      float32 `json:"x"`
	Height float32 `json:"h"`
}

// Chunk stores a fixed width span of the height profile.
// It is never modified after generateChunk returns.
type Chunk struct {
	index int
	start float64 // world x of raw[0]
	// spacing between raw samples in world units.
	spacing float64

	raw      []float32
	smoothed []Sample // nil if smoothing is disabled
}

// generateChunk samples a chunk, stitching its edges to any resident neighbours.
// left and right may be nil.
func generateChunk(source terrain.Source, config *terrain.Config, index int, left, right *Chunk) *Chunk {
	c := &Chunk{
		index:   index,
		start:   float64(index * config.ChunkWidth),
		spacing: float64(config.PointSpacing),
	}

	c.raw = source.Generate(c.start, c.spacing, config.Samples())

	// Early bounds check
	last := len(c.raw) - 1
	_ = c.raw[last]

	// Copy seam samples instead of trusting two evaluations to agree.
	if left != nil {
		c.raw[0] = left.raw[len(left.raw)-1]
	}
	if right != nil {
		c.raw[last] = right.raw[0]
	}

	if config.Smoothing {
		ghostLeft := source.Height(c.start - c.spacing)
		ghostRight := source.Height(c.start + float64(config.ChunkWidth) + c.spacing)
		c.smoothed = smooth(c.raw, c.start, c.spacing, ghostLeft, ghostRight, config)
	}

	return c
}

// Index returns the chunk index.
func (c *Chunk) Index() int {
	return c.index
}

// Start returns the world x of the left edge.
func (c *Chunk) Start() float32 {
	return float32(c.start)
}

// End returns the world x of the right edge.
func (c *Chunk) End() float32 {
	return float32(c.start + float64(len(c.raw)-1)*c.spacing)
}

// Left returns the left seam height.
func (c *Chunk) Left() float32 {
	return c.raw[0]
}

// Right returns the right seam height.
func (c *Chunk) Right() float32 {
	return c.raw[len(c.raw)-1]
}

// Raw returns a copy of the raw samples, both edges included.
func (c *Chunk) Raw() []float32 {
	return append([]float32(nil), c.raw...)
}

// Smoothed returns a copy of the smoothed ridge, or nil if smoothing is disabled.
func (c *Chunk) Smoothed() []Sample {
	if c.smoothed == nil {
		return nil
	}
	return append([]Sample(nil), c.smoothed...)
}

// segment returns the two samples enclosing world x, which must lie inside the chunk.
func (c *Chunk) segment(x float32) (a, b Sample) {
	if c.smoothed != nil {
		n := len(c.smoothed)
		i := sort.Search(n, func(i int) bool {
			return c.smoothed[i].X > x
		})
		i = clampInt(i, 1, n-1)
		return c.smoothed[i-1], c.smoothed[i]
	}

	n := len(c.raw)
	k := clampInt(int(math.Floor((float64(x)-c.start)/c.spacing)), 0, n-2)
	a = Sample{X: float32(c.start + float64(k)*c.spacing), Height: c.raw[k]}
	b = Sample{X: float32(c.start + float64(k+1)*c.spacing), Height: c.raw[k+1]}
	return
}
