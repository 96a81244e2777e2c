// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"runtime/pprof"

	"github.com/SoftbearStudios/terrastream/cloud/fs"
	"github.com/SoftbearStudios/terrastream/terrain"
	"github.com/SoftbearStudios/terrastream/world"
	"github.com/klauspost/compress/zstd"
)

type options struct {
	config     string
	seed       int64
	from, to   float64
	width      int
	height     int
	out        string
	dump       string
	bucket     string
	region     string
	snapshots  string
	cpuProfile string
}

func main() {
	var o options
	flag.StringVar(&o.config, "config", "", "terrain config `file` (yaml)")
	flag.Int64Var(&o.seed, "seed", 0, "override seed (0 keeps the config seed)")
	flag.Float64Var(&o.from, "from", -1024, "left world x")
	flag.Float64Var(&o.to, "to", 8192, "right world x")
	flag.IntVar(&o.width, "width", 2048, "image width in pixels")
	flag.IntVar(&o.height, "height", 512, "image height in pixels")
	flag.StringVar(&o.out, "out", "out.png", "png output `file`")
	flag.StringVar(&o.dump, "dump", "", "write resident chunks as zstd compressed json to `file`")
	flag.StringVar(&o.bucket, "bucket", "", "upload the png (and dump) to this S3 bucket")
	flag.StringVar(&o.region, "region", "us-east-1", "S3 region")
	flag.StringVar(&o.snapshots, "snapshots", "", "copy the png (and dump) to this directory")
	flag.StringVar(&o.cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	flag.Parse()

	if o.to <= o.from {
		log.Fatal("invalid argument to: ", o.to)
	}
	if o.width <= 0 || o.height <= 0 {
		log.Fatalf("invalid image size: %dx%d", o.width, o.height)
	}

	if o.cpuProfile != "" {
		f, err := os.Create(o.cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(o); err != nil {
		log.Fatal(err)
	}
}

func run(o options) error {
	config := terrain.DefaultConfig()
	if o.config != "" {
		var err error
		if config, err = terrain.LoadConfig(o.config); err != nil {
			return err
		}
	}
	if o.seed != 0 {
		config.Seed = o.seed
	}

	w, err := world.New(config)
	if err != nil {
		return err
	}

	from, to := float32(o.from), float32(o.to)
	profile := world.NewProfile(o.width)

	// Walk the viewer across the range one chunk at a time, draining the scheduler at
	// each stop, and sample whatever is resident.
	w.Spawn(from)
	for x := from; x < to+float32(config.ChunkWidth); x += float32(config.ChunkWidth) {
		w.Update(x)
		for len(w.Missing()) > 0 {
			w.Update(x)
		}
		w.Profile(profile, from, to)
	}

	stats := w.Stats()
	log.Printf("seed %d: generated %d chunks (%d evicted) in %s", config.Seed, stats.Generated, stats.Evicted, stats.Elapsed)

	var img bytes.Buffer
	if err := png.Encode(&img, terrain.Render(profile, o.height)); err != nil {
		return err
	}
	if err := os.WriteFile(o.out, img.Bytes(), 0o644); err != nil {
		return err
	}

	var dump []byte
	if o.dump != "" {
		if dump, err = compressDump(w); err != nil {
			return err
		}
		if err := os.WriteFile(o.dump, dump, 0o644); err != nil {
			return err
		}
	}

	filesystems, err := snapshotFilesystems(o)
	if err != nil {
		return err
	}

	prefix := fmt.Sprintf("seed-%d/", config.Seed)
	for _, filesystem := range filesystems {
		if err := filesystem.UploadSnapshot(prefix+"profile.png", 3600, img.Bytes()); err != nil {
			return err
		}
		if dump != nil {
			if err := filesystem.UploadSnapshot(prefix+"chunks.json.zst", 3600, dump); err != nil {
				return err
			}
		}
	}
	return nil
}

// compressDump exports the resident chunks through a zstd encoder.
func compressDump(w *world.World) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	if err := w.Export(enc); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func snapshotFilesystems(o options) ([]fs.Filesystem, error) {
	var filesystems []fs.Filesystem

	if o.snapshots != "" {
		local, err := fs.NewLocalFilesystem(o.snapshots)
		if err != nil {
			return nil, err
		}
		filesystems = append(filesystems, local)
	}

	if o.bucket != "" {
		session, err := fs.NewAWSSession(o.region)
		if err != nil {
			return nil, err
		}
		s3, err := fs.NewS3Filesystem(session, o.bucket, "")
		if err != nil {
			return nil, err
		}
		filesystems = append(filesystems, s3)
	}

	return filesystems, nil
}
