// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

import "math"

// period is the length of the perlin gradient lattice, which repeats every 256 cells.
const period = 256

// wrap maps x into [0, period). perlin truncates toward zero, which misplaces
// lattice cells for arguments below -4096, so it is only ever given wrapped input.
func wrap(x float64) float64 {
	x -= period * math.Floor(x/period)
	if x >= period {
		// -tiny + period rounds up to period.
		x = 0
	}
	return x
}

func octaveWeight(octaves int, persistence float64) float64 {
	weight := 0.0
	amplitude := 1.0
	for i := 0; i < octaves; i++ {
		weight += amplitude
		amplitude *= persistence
	}
	return weight
}
