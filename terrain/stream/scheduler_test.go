// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"errors"
	"testing"

	"github.com/SoftbearStudios/terrastream/terrain"
	"github.com/SoftbearStudios/terrastream/terrain/chunked"
	"github.com/SoftbearStudios/terrastream/terrain/noise"
)

func testConfig() terrain.Config {
	config := terrain.DefaultConfig()
	config.ChunkWidth = 32
	config.PointSpacing = 4
	config.PrefetchAhead = 5
	config.PrefetchBehind = 2
	config.FrameBudget = 100
	return config
}

func newTestScheduler(config terrain.Config) (*Scheduler, *chunked.Store) {
	store := chunked.New(noise.New(config), config)
	return New(store, config), store
}

// chunkX returns a world x inside chunk index.
func chunkX(config terrain.Config, index int) float32 {
	return float32(index*config.ChunkWidth) + 5
}

func expectResident(t *testing.T, store *chunked.Store, lo, hi int) {
	t.Helper()

	indices := store.Indices()
	if len(indices) != hi-lo+1 {
		t.Fatalf("expected resident [%d, %d], got %v", lo, hi, indices)
	}
	for i, index := range indices {
		if index != lo+i {
			t.Fatalf("expected resident [%d, %d], got %v", lo, hi, indices)
		}
	}
}

func TestScheduler_Window(t *testing.T) {
	config := testConfig()
	s, store := newTestScheduler(config)

	stats := s.Update(chunkX(config, 10))

	expectResident(t, store, 8, 15)
	if stats.Viewer != 10 || stats.Lo != 8 || stats.Hi != 15 {
		t.Errorf("unexpected window in stats: %s", stats)
	}
	if stats.Generated != 8 || stats.Deferred != 0 || stats.Evicted != 0 {
		t.Errorf("unexpected counts in stats: %s", stats)
	}
	if missing := s.Missing(); len(missing) != 0 {
		t.Error("expected nothing missing, got", missing)
	}
}

// The budget is never exceeded, so the 8 chunk window takes 4 passes rather than
// being full after the second pass as in the worked example with budget 2.
func TestScheduler_Budget(t *testing.T) {
	config := testConfig()
	config.FrameBudget = 2
	s, store := newTestScheduler(config)
	x := chunkX(config, 10)

	stats := s.Update(x)
	if stats.Generated != 2 || stats.Deferred != 6 {
		t.Errorf("first pass expected 2 generated and 6 deferred, got %s", stats)
	}
	expectResident(t, store, 9, 10)

	expectedMissing := []int{11, 8, 12, 13, 14, 15}
	missing := s.Missing()
	if len(missing) != len(expectedMissing) {
		t.Fatalf("Missing expected %v, got %v", expectedMissing, missing)
	}
	for i := range missing {
		if missing[i] != expectedMissing[i] {
			t.Fatalf("Missing expected %v, got %v", expectedMissing, missing)
		}
	}

	passes := 1
	for len(s.Missing()) > 0 {
		stats = s.Update(x)
		passes++
		if stats.Generated > config.FrameBudget {
			t.Fatalf("pass %d generated %d chunks over budget", passes, stats.Generated)
		}
		for _, index := range store.Indices() {
			if index < 8 || index > 15 {
				t.Fatalf("pass %d: chunk %d outside window", passes, index)
			}
		}
		if passes > 10 {
			t.Fatal("window never filled")
		}
	}

	if passes != 4 {
		t.Error("expected window to fill in 4 passes, got", passes)
	}
	expectResident(t, store, 8, 15)
}

func TestScheduler_Prune(t *testing.T) {
	config := testConfig()
	s, store := newTestScheduler(config)

	s.Update(chunkX(config, 10))
	stats := s.Update(chunkX(config, 11))

	if stats.Evicted != 1 || stats.Generated != 1 {
		t.Errorf("moving one chunk right expected 1 evicted and 1 generated, got %s", stats)
	}
	if store.Has(8) {
		t.Error("chunk 8 expected evicted")
	}
	expectResident(t, store, 9, 16)
}

func TestScheduler_Teleport(t *testing.T) {
	config := testConfig()
	config.FrameBudget = 3
	s, store := newTestScheduler(config)

	for len(s.Missing()) > 0 || store.Len() == 0 {
		s.Update(chunkX(config, 10))
	}

	stats := s.Update(chunkX(config, 100))
	if stats.Evicted != 8 {
		t.Error("teleport expected all 8 old chunks evicted, got", stats.Evicted)
	}
	expectResident(t, store, 99, 101)

	for i := 0; i < 10 && len(s.Missing()) > 0; i++ {
		s.Update(chunkX(config, 100))
	}
	expectResident(t, store, 98, 105)
}

func TestScheduler_NoNegative(t *testing.T) {
	config := testConfig()
	config.AllowNegative = false
	s, store := newTestScheduler(config)

	if lo, hi := s.Window(-4); lo != 0 || hi != 5 {
		t.Errorf("Window(-4) expected [0, 5], got [%d, %d]", lo, hi)
	}

	stats := s.Update(-100)
	if stats.Viewer != 0 {
		t.Error("viewer expected clamped to 0, got", stats.Viewer)
	}
	expectResident(t, store, 0, 5)
}

func TestScheduler_Prime(t *testing.T) {
	config := testConfig()
	config.FrameBudget = 1
	config.SpawnBudget = 0
	config.InitialLeftChunks = 3
	s, store := newTestScheduler(config)

	if s.Primed() {
		t.Error("Primed expected false before Prime")
	}

	stats := s.Prime(chunkX(config, 0))
	if !s.Primed() {
		t.Error("Primed expected true after Prime")
	}
	if stats.Deferred != 0 || stats.Lo != -3 {
		t.Errorf("unbounded Prime expected nothing deferred from -3, got %s", stats)
	}
	expectResident(t, store, -3, 5)

	config.SpawnBudget = 4
	s, store = newTestScheduler(config)
	stats = s.Prime(chunkX(config, 0))
	if stats.Generated != 4 || store.Len() != 4 {
		t.Errorf("Prime with spawn budget 4 generated %d", stats.Generated)
	}
}

func TestScheduler_Bounds(t *testing.T) {
	config := testConfig()
	config.FrameBudget = 2
	s, _ := newTestScheduler(config)

	if _, _, err := s.Bounds(); !errors.Is(err, terrain.ErrChunkNotResident) {
		t.Error("Bounds before any pass expected ErrChunkNotResident, got", err)
	}

	s.Update(chunkX(config, 10))
	left, right, err := s.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	if left != 9*32 || right != 11*32 {
		t.Errorf("Bounds expected [288, 352), got [%f, %f)", left, right)
	}
	if s.ViewerIndex() != 10 {
		t.Error("ViewerIndex expected 10, got", s.ViewerIndex())
	}
}

func BenchmarkScheduler_Update(b *testing.B) {
	config := terrain.DefaultConfig()
	s, _ := newTestScheduler(config)
	for i := 0; i < b.N; i++ {
		s.Update(float32(i * 16))
	}
}
