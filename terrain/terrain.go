// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrChunkNotResident is returned when a query falls outside the resident chunks.
	ErrChunkNotResident = errors.New("chunk not resident")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid terrain config")
)

// Source generates height samples along the scroll axis.
// Implementations must be pure: the same x always yields the same height.
type Source interface {
	// Height returns the height at world x.
	Height(x float64) float32
	// Generate returns n heights sampled at x, x+spacing, ... x+(n-1)*spacing.
	Generate(x, spacing float64, n int) []float32
}

// Terrain is the read-only view of the streamed terrain handed to rendering and physics.
// It never generates chunks; only the scheduler does.
type Terrain interface {
	// HeightAt returns the height at world x.
	HeightAt(x float32) (float32, error)
	// SlopeAt returns dh/dx at world x.
	SlopeAt(x float32) (float32, error)
	// NormalAt returns the unit, upward facing surface normal at world x.
	NormalAt(x float32) (mgl32.Vec2, error)
	// Bounds returns the world x range that is safe to query.
	Bounds() (left, right float32, err error)
}
