// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal("default config invalid:", err)
	}

	invalid := map[string]func(c *Config){
		"zero width":         func(c *Config) { c.ChunkWidth = 0 },
		"zero spacing":       func(c *Config) { c.PointSpacing = 0 },
		"width not multiple": func(c *Config) { c.PointSpacing = 7 },
		"zero ahead":         func(c *Config) { c.PrefetchAhead = 0 },
		"zero behind":        func(c *Config) { c.PrefetchBehind = 0 },
		"zero budget":        func(c *Config) { c.FrameBudget = 0 },
		"negative spawn":     func(c *Config) { c.SpawnBudget = -1 },
		"negative octaves":   func(c *Config) { c.Octaves = -1 },
		"zero persistence":   func(c *Config) { c.Persistence = 0 },
		"zero subdivisions":  func(c *Config) { c.Subdivisions = 0 },
		"zero clamp":         func(c *Config) { c.VerticalClamp = 0 },
	}
	for name, mutate := range invalid {
		c := DefaultConfig()
		mutate(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}

	// Smoothing fields are ignored while smoothing is off.
	c := DefaultConfig()
	c.Smoothing = false
	c.Subdivisions = 0
	if err := c.Validate(); err != nil {
		t.Error("unexpected error with smoothing off:", err)
	}

	c = DefaultConfig()
	c.Octaves = 0
	if err := c.Validate(); err != nil {
		t.Error("zero octaves should be valid, got", err)
	}
}

func TestConfig_Samples(t *testing.T) {
	if n := DefaultConfig().Samples(); n != 17 {
		t.Error("expected 17 samples per default chunk, got", n)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrain.yaml")
	yaml := []byte("seed: 42\nchunk_width: 128\nframe_budget: 5\nsmoothing: false\n")
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Seed != 42 || c.ChunkWidth != 128 || c.FrameBudget != 5 || c.Smoothing {
		t.Errorf("unexpected config %+v", c)
	}
	if c.PointSpacing != DefaultConfig().PointSpacing {
		t.Error("unset fields expected to keep defaults, got point spacing", c.PointSpacing)
	}

	if err := os.WriteFile(path, []byte("point_spacing: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
		t.Error("expected ErrInvalidConfig, got", err)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRender(t *testing.T) {
	heights := []float32{100, 120, float32(math.NaN()), 80}
	img := Render(heights, 64)

	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 64 {
		t.Fatal("expected 4x64 image, got", b)
	}

	// The unsampled column is sky all the way down.
	sky := colors[1].Color()
	if c := color.RGBAModel.Convert(img.At(2, 63)).(color.RGBA); c.B < c.G || c == (color.RGBA{}) {
		t.Errorf("NaN column expected sky, got %v (horizon %v)", c, sky)
	}
	// Every sampled column reaches the ground at the bottom.
	for _, i := range []int{0, 1, 3} {
		if c := color.RGBAModel.Convert(img.At(i, 63)).(color.RGBA); c.B > c.G {
			t.Errorf("column %d expected ground at the bottom, got %v", i, c)
		}
	}
}

func TestColorVec(t *testing.T) {
	black, white := RGB(0, 0, 0), RGB(255, 255, 255)

	if c := black.Color(); c != (color.RGBA{A: 255}) {
		t.Error("black expected opaque zeros, got", c)
	}
	if c := white.Color(); c.R < 254 || c.A != 255 {
		t.Error("white expected opaque near 255, got", c)
	}
	if c := black.Lerp(white, 0.5).Color(); c.R < 126 || c.R > 128 || c.R != c.G || c.G != c.B {
		t.Error("halfway lerp expected mid gray, got", c)
	}
}
