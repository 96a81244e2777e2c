// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

import (
	"fmt"
	"math"
	"sort"

	"github.com/SoftbearStudios/terrastream/terrain"
	"github.com/go-gl/mathgl/mgl32"
)

// Store maps chunk indices to generated chunks.
// It has a single writer (the scheduler) and is not safe for concurrent use.
type Store struct {
	source terrain.Source
	config terrain.Config
	chunks map[int]*Chunk

	// Lifetime counters for Debug.
	generated int
	evicted   int
}

// New creates an empty store. config must already be validated.
func New(source terrain.Source, config terrain.Config) *Store {
	return &Store{
		source: source,
		config: config,
		chunks: make(map[int]*Chunk),
	}
}

// Ensure returns the chunk at index, generating it the first time.
func (s *Store) Ensure(index int) *Chunk {
	if c, ok := s.chunks[index]; ok {
		return c
	}

	c := generateChunk(s.source, &s.config, index, s.chunks[index-1], s.chunks[index+1])
	s.chunks[index] = c
	s.generated++
	return c
}

// Get returns the chunk at index without generating it.
func (s *Store) Get(index int) (*Chunk, error) {
	c, ok := s.chunks[index]
	if !ok {
		return nil, fmt.Errorf("chunk %d: %w", index, terrain.ErrChunkNotResident)
	}
	return c, nil
}

// Has reports whether index is resident.
func (s *Store) Has(index int) bool {
	_, ok := s.chunks[index]
	return ok
}

// Len returns the number of resident chunks.
func (s *Store) Len() int {
	return len(s.chunks)
}

// Indices returns the resident indices in ascending order.
func (s *Store) Indices() []int {
	indices := make([]int, 0, len(s.chunks))
	for index := range s.chunks {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

// Evict removes the chunk at index and reports whether it was resident.
// Neighbours keep their seam samples.
func (s *Store) Evict(index int) bool {
	if _, ok := s.chunks[index]; !ok {
		return false
	}
	delete(s.chunks, index)
	s.evicted++
	return true
}

// Generated returns how many chunks were ever generated.
func (s *Store) Generated() int {
	return s.generated
}

// Evicted returns how many chunks were ever evicted.
func (s *Store) Evicted() int {
	return s.evicted
}

// ChunkIndex returns the index of the chunk containing world x.
func (s *Store) ChunkIndex(x float32) int {
	return int(math.Floor(float64(x) / float64(s.config.ChunkWidth)))
}

// ChunkStart returns the world x of the left edge of chunk index.
func (s *Store) ChunkStart(index int) float32 {
	return float32(index * s.config.ChunkWidth)
}

// HeightAt returns the height at world x, interpolated between samples.
func (s *Store) HeightAt(x float32) (float32, error) {
	c, err := s.chunkAt(x)
	if err != nil {
		return 0, err
	}

	a, b := c.segment(x)
	if b.X <= a.X {
		return a.Height, nil
	}
	t := clampFloat((x-a.X)/(b.X-a.X), 0, 1)
	return terrain.Lerp(a.Height, b.Height, t), nil
}

// SlopeAt returns dh/dx of the sample segment containing world x.
func (s *Store) SlopeAt(x float32) (float32, error) {
	c, err := s.chunkAt(x)
	if err != nil {
		return 0, err
	}

	a, b := c.segment(x)
	if b.X <= a.X {
		return 0, nil
	}
	return (b.Height - a.Height) / (b.X - a.X), nil
}

// NormalAt returns the unit surface normal at world x, pointing up.
func (s *Store) NormalAt(x float32) (mgl32.Vec2, error) {
	slope, err := s.SlopeAt(x)
	if err != nil {
		return mgl32.Vec2{}, err
	}
	return mgl32.Vec2{-slope, 1}.Normalize(), nil
}

// Debug prints debug info to os.Stdout.
func (s *Store) Debug() {
	fmt.Println("chunked terrain: chunks:", len(s.chunks), "generated:", s.generated, "evicted:", s.evicted)
}

func (s *Store) chunkAt(x float32) (*Chunk, error) {
	index := s.ChunkIndex(x)
	c, ok := s.chunks[index]
	if !ok {
		return nil, fmt.Errorf("x %g: chunk %d: %w", x, index, terrain.ErrChunkNotResident)
	}
	return c, nil
}
