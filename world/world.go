// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"time"

	"github.com/SoftbearStudios/terrastream/terrain"
	"github.com/SoftbearStudios/terrastream/terrain/chunked"
	"github.com/SoftbearStudios/terrastream/terrain/noise"
	"github.com/SoftbearStudios/terrastream/terrain/stream"
	"github.com/go-gl/mathgl/mgl32"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.Config{
	MarshalFloatWith6Digits:       true,
	EscapeHTML:                    false,
	SortMapKeys:                   true,
	ObjectFieldMustBeSimpleString: true,
	CaseSensitive:                 true,
}.Froze()

// World is one terrain session: it owns the config, the noise generator, the chunk
// store and the scheduler. Sessions are independent; nothing is process wide.
type World struct {
	config    terrain.Config
	generator *noise.Generator
	store     *chunked.Store
	scheduler *stream.Scheduler

	frames int
	last   stream.Stats
	// Totals over all passes, including Spawn.
	elapsed  time.Duration
	deferred int
}

// Stats summarizes a World for logging and debugging.
type Stats struct {
	Seed      int64         `json:"seed"`
	Frames    int           `json:"frames"`
	Resident  int           `json:"resident"`
	Generated int           `json:"generated"`
	Evicted   int           `json:"evicted"`
	Deferred  int           `json:"deferred"`
	Elapsed   time.Duration `json:"elapsed"`
	Last      stream.Stats  `json:"last"`
}

// New validates config and builds a World. An invalid config fails immediately with
// an error wrapping terrain.ErrInvalidConfig.
func New(config terrain.Config) (*World, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	generator := noise.New(config)
	store := chunked.New(generator, config)
	return &World{
		config:    config,
		generator: generator,
		store:     store,
		scheduler: stream.New(store, config),
	}, nil
}

// Config returns the config the World was built with.
func (w *World) Config() terrain.Config {
	return w.config
}

// Spawn primes the chunks around a viewer at world x before the first frame.
func (w *World) Spawn(viewerX float32) stream.Stats {
	return w.record(w.scheduler.Prime(viewerX))
}

// Update runs the per-frame scheduling pass. It primes first if Spawn was never called.
func (w *World) Update(viewerX float32) stream.Stats {
	if !w.scheduler.Primed() {
		w.Spawn(viewerX)
	}
	w.frames++
	return w.record(w.scheduler.Update(viewerX))
}

func (w *World) record(stats stream.Stats) stream.Stats {
	w.last = stats
	w.elapsed += stats.Elapsed
	w.deferred += stats.Deferred
	return stats
}

func (w *World) HeightAt(x float32) (float32, error) {
	return w.store.HeightAt(x)
}

func (w *World) SlopeAt(x float32) (float32, error) {
	return w.store.SlopeAt(x)
}

func (w *World) NormalAt(x float32) (mgl32.Vec2, error) {
	return w.store.NormalAt(x)
}

func (w *World) Bounds() (left, right float32, err error) {
	return w.scheduler.Bounds()
}

// Terrain returns the read-only view handed to rendering and physics.
func (w *World) Terrain() terrain.Terrain {
	return view{w: w}
}

// Missing returns the chunks of the current window still waiting for generation.
func (w *World) Missing() []int {
	return w.scheduler.Missing()
}

// Profile samples len(dst) heights evenly over [from, to) into dst. Columns outside
// Bounds are left untouched, so a caller can fill a long profile by walking the viewer
// and calling Profile after each stop.
// It returns how many columns were written.
func (w *World) Profile(dst []float32, from, to float32) int {
	left, right, err := w.Bounds()
	if err != nil || len(dst) == 0 {
		return 0
	}

	step := (to - from) / float32(len(dst))
	written := 0
	for i := range dst {
		x := from + float32(i)*step
		if x < left || x >= right {
			continue
		}
		if h, err := w.HeightAt(x); err == nil {
			dst[i] = h
			written++
		}
	}
	return written
}

// NewProfile returns a profile buffer of n columns, all NaN (unsampled).
func NewProfile(n int) []float32 {
	profile := make([]float32, n)
	nan := float32(math.NaN())
	for i := range profile {
		profile[i] = nan
	}
	return profile
}

// Export writes the resident chunks as JSON.
func (w *World) Export(out io.Writer) error {
	return w.store.Export(out)
}

func (w *World) Stats() Stats {
	return Stats{
		Seed:      w.config.Seed,
		Frames:    w.frames,
		Resident:  w.store.Len(),
		Generated: w.store.Generated(),
		Evicted:   w.store.Evicted(),
		Deferred:  w.deferred,
		Elapsed:   w.elapsed,
		Last:      w.last,
	}
}

// StatsJSON returns Stats encoded as JSON.
func (w *World) StatsJSON() ([]byte, error) {
	return json.Marshal(w.Stats())
}

// Debug prints debug info to os.Stdout.
func (w *World) Debug() {
	fmt.Printf("Debug [%v] seed: %d\n", time.Now().Format(time.UnixDate), w.config.Seed)
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	fmt.Printf(" - memstats: %dM/%dM\n", mem.HeapInuse/1e6, mem.NextGC/1e6)

	stats := w.Stats()
	fmt.Printf(" - frames: %d, viewer: %d, missing: %d\n", stats.Frames, w.scheduler.ViewerIndex(), len(w.Missing()))
	if left, right, err := w.Bounds(); err == nil {
		fmt.Printf(" - bounds: [%.02f, %.02f)\n", left, right)
	}
	fmt.Printf(" - last pass: %s\n", stats.Last)
	fmt.Print(" - ")
	w.store.Debug()
}

// view hides the mutating methods of World.
type view struct {
	w *World
}

func (v view) HeightAt(x float32) (float32, error) {
	return v.w.HeightAt(x)
}

func (v view) SlopeAt(x float32) (float32, error) {
	return v.w.SlopeAt(x)
}

func (v view) NormalAt(x float32) (mgl32.Vec2, error) {
	return v.w.NormalAt(x)
}

func (v view) Bounds() (left, right float32, err error) {
	return v.w.Bounds()
}
