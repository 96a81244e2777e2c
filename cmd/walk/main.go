// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"log"
	"math"
	"time"

	"github.com/SoftbearStudios/terrastream/terrain"
	"github.com/SoftbearStudios/terrastream/world"
)

// Simulates a viewer walking right, turning back, then teleporting, and logs every
// scheduling pass that did any work.
func main() {
	var (
		configPath string
		seed       int64
		frames     int
		speed      float64
		teleport   float64
		debugEvery int
		fps        int
		verbose    bool
	)

	flag.StringVar(&configPath, "config", "", "terrain config `file` (yaml)")
	flag.Int64Var(&seed, "seed", 0, "override seed (0 keeps the config seed)")
	flag.IntVar(&frames, "frames", 1200, "frames to simulate")
	flag.Float64Var(&speed, "speed", 240, "viewer speed in world units per second")
	flag.Float64Var(&teleport, "teleport", 100000, "world x to teleport to two thirds of the way through")
	flag.IntVar(&debugEvery, "debug", 300, "print debug info every n frames (0 disables)")
	flag.IntVar(&fps, "fps", 60, "simulated frames per second")
	flag.BoolVar(&verbose, "v", false, "log idle passes too")
	flag.Parse()

	if frames <= 0 || fps <= 0 {
		log.Fatal("invalid argument frames/fps: ", frames, "/", fps)
	}

	config := terrain.DefaultConfig()
	if configPath != "" {
		var err error
		if config, err = terrain.LoadConfig(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if seed != 0 {
		config.Seed = seed
	}

	w, err := world.New(config)
	if err != nil {
		log.Fatal(err)
	}

	dt := 1 / float64(fps)
	x := 0.0

	log.Println("spawn:", w.Spawn(float32(x)))

	var worst time.Duration
	for frame := 0; frame < frames; frame++ {
		switch {
		case frame == frames*2/3:
			x = teleport
			log.Printf("frame %d: teleport to %.0f", frame, x)
		case frame < frames/3:
			x += speed * dt
		default:
			x -= speed * dt
		}

		stats := w.Update(float32(x))
		if stats.Elapsed > worst {
			worst = stats.Elapsed
		}
		if verbose || stats.Generated > 0 || stats.Evicted > 0 {
			log.Printf("frame %d: %s", frame, stats)
		}

		if h, err := w.HeightAt(float32(x)); err != nil {
			// The viewer chunk is generated first, so this never happens.
			log.Fatalf("frame %d: %v", frame, err)
		} else if math.IsNaN(float64(h)) {
			log.Fatalf("frame %d: NaN height at %.2f", frame, x)
		}

		if debugEvery > 0 && frame%debugEvery == 0 {
			w.Debug()
		}
	}

	summary, err := w.StatsJSON()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("worst pass: %s, stats: %s", worst, summary)
}
