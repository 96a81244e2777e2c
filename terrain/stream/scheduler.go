// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"fmt"
	"sort"
	"time"

	"github.com/SoftbearStudios/terrastream/terrain"
	"github.com/SoftbearStudios/terrastream/terrain/chunked"
)

// Scheduler keeps the chunks around the viewer resident, generating at most
// FrameBudget chunks per Update so generation cost is spread across frames.
// It is the only writer of its Store.
type Scheduler struct {
	store  *chunked.Store
	config terrain.Config

	viewer int
	primed bool

	// missing is scratch space reused between passes.
	missing []int
}

// Stats describes one scheduling pass.
type Stats struct {
	Viewer    int           `json:"viewer"`
	Lo        int           `json:"lo"`
	Hi        int           `json:"hi"`
	Generated int           `json:"generated"`
	Evicted   int           `json:"evicted"`
	Deferred  int           `json:"deferred"`
	Elapsed   time.Duration `json:"elapsed"`
}

func (stats Stats) String() string {
	return fmt.Sprintf("viewer: %d, window: [%d, %d], generated: %d, evicted: %d, deferred: %d, elapsed: %s",
		stats.Viewer, stats.Lo, stats.Hi, stats.Generated, stats.Evicted, stats.Deferred, stats.Elapsed)
}

// New creates a Scheduler. config must already be validated.
func New(store *chunked.Store, config terrain.Config) *Scheduler {
	return &Scheduler{
		store:  store,
		config: config,
	}
}

// ViewerIndex returns the viewer chunk index of the last pass.
func (s *Scheduler) ViewerIndex() int {
	return s.viewer
}

// Primed reports whether Prime has run.
func (s *Scheduler) Primed() bool {
	return s.primed
}

// Window returns the inclusive range of chunk indices required around viewer.
func (s *Scheduler) Window(viewer int) (lo, hi int) {
	viewer = s.clampIndex(viewer)
	return s.clampIndex(viewer - s.config.PrefetchBehind), viewer + s.config.PrefetchAhead
}

// Prime generates the spawn window before the first frame. Unlike Update it is
// bounded by SpawnBudget (0 for unbounded) instead of FrameBudget, and it reaches
// InitialLeftChunks chunks left of the viewer when negative chunks are allowed.
func (s *Scheduler) Prime(viewerX float32) Stats {
	start := time.Now()

	s.viewer = s.viewerIndex(viewerX)
	lo, hi := s.Window(s.viewer)
	if s.config.AllowNegative && s.config.InitialLeftChunks > 0 {
		lo = minInt(lo, s.viewer-s.config.InitialLeftChunks)
	}

	stats := Stats{Viewer: s.viewer, Lo: lo, Hi: hi}
	stats.Generated, stats.Deferred = s.generate(s.viewer, lo, hi, s.config.SpawnBudget)
	stats.Elapsed = time.Since(start)

	s.primed = true
	return stats
}

// Update runs one scheduling pass for a viewer at world x: evicts chunks outside the
// window, then generates missing ones nearest to the viewer first.
func (s *Scheduler) Update(viewerX float32) Stats {
	start := time.Now()

	s.viewer = s.viewerIndex(viewerX)
	lo, hi := s.Window(s.viewer)

	stats := Stats{Viewer: s.viewer, Lo: lo, Hi: hi}
	for _, index := range s.store.Indices() {
		if index < lo || index > hi {
			s.store.Evict(index)
			stats.Evicted++
		}
	}

	stats.Generated, stats.Deferred = s.generate(s.viewer, lo, hi, s.config.FrameBudget)
	stats.Elapsed = time.Since(start)
	return stats
}

// Missing returns the indices of the current window that are not resident, in the
// order they will be generated.
func (s *Scheduler) Missing() []int {
	lo, hi := s.Window(s.viewer)
	return append([]int(nil), s.collectMissing(s.viewer, lo, hi)...)
}

// Bounds returns the world x range covered by the contiguous resident chunks
// around the viewer. Any x in [left, right) can be queried.
func (s *Scheduler) Bounds() (left, right float32, err error) {
	if !s.store.Has(s.viewer) {
		return 0, 0, fmt.Errorf("viewer chunk %d: %w", s.viewer, terrain.ErrChunkNotResident)
	}

	lo, hi := s.Window(s.viewer)
	first, last := s.viewer, s.viewer
	for first > lo && s.store.Has(first-1) {
		first--
	}
	for last < hi && s.store.Has(last+1) {
		last++
	}
	return s.store.ChunkStart(first), s.store.ChunkStart(last + 1), nil
}

// generate builds up to budget missing chunks of [lo, hi]; budget <= 0 is unbounded.
func (s *Scheduler) generate(viewer, lo, hi, budget int) (generated, deferred int) {
	missing := s.collectMissing(viewer, lo, hi)
	for _, index := range missing {
		if budget > 0 && generated >= budget {
			break
		}
		s.store.Ensure(index)
		generated++
	}
	return generated, len(missing) - generated
}

// collectMissing orders missing indices by distance to viewer, then ascending index,
// so the viewer chunk always comes first and behind wins ties with ahead.
func (s *Scheduler) collectMissing(viewer, lo, hi int) []int {
	missing := s.missing[:0]
	for index := lo; index <= hi; index++ {
		if !s.store.Has(index) {
			missing = append(missing, index)
		}
	}

	sort.Slice(missing, func(i, j int) bool {
		a, b := missing[i], missing[j]
		da, db := absInt(a-viewer), absInt(b-viewer)
		if da != db {
			return da < db
		}
		return a < b
	})

	s.missing = missing
	return missing
}

func (s *Scheduler) viewerIndex(x float32) int {
	return s.clampIndex(s.store.ChunkIndex(x))
}

func (s *Scheduler) clampIndex(index int) int {
	if !s.config.AllowNegative && index < 0 {
		return 0
	}
	return index
}
