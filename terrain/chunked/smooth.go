// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

import (
	"math"

	"github.com/SoftbearStudios/terrastream/terrain"
	"github.com/chewxy/math32"
)

// run is an inclusive range of raw sample indices with no spike between them.
type run struct {
	first, last int
}

func (r run) len() int {
	return r.last - r.first + 1
}

// segment splits raw into runs wherever neighbouring samples differ by more than threshold.
func segment(raw []float32, threshold float32) []run {
	runs := make([]run, 0, 2)
	first := 0
	for k := 1; k < len(raw); k++ {
		if math32.Abs(raw[k]-raw[k-1]) > threshold {
			runs = append(runs, run{first: first, last: k - 1})
			first = k
		}
	}
	return append(runs, run{first: first, last: len(raw) - 1})
}

// smooth refines raw into a Catmull-Rom ridge, one run at a time, so cliffs stay sharp.
// ghostLeft and ghostRight are the source heights one spacing beyond each edge; they
// only steer the tangents at the chunk edges and are never emitted.
func smooth(raw []float32, start, spacing float64, ghostLeft, ghostRight float32, config *terrain.Config) []Sample {
	n := len(raw)
	subdivisions := config.Subdivisions
	threshold := config.SpikeThreshold

	xAt := func(k int, t float32) float32 {
		return float32(start + (float64(k)+float64(t))*spacing)
	}

	out := make([]Sample, 0, (n-1)*subdivisions+1)

	for _, r := range segment(raw, threshold) {
		begin := len(out)

		if r.len() < config.MinSmoothPoints || subdivisions <= 1 {
			for k := r.first; k <= r.last; k++ {
				out = append(out, Sample{X: xAt(k, 0), Height: raw[k]})
			}
		} else {
			// Control point lookup that never reads across a spike.
			at := func(k int) float32 {
				switch {
				case k < r.first:
					if r.first == 0 && math32.Abs(ghostLeft-raw[0]) <= threshold {
						return ghostLeft
					}
					return raw[r.first]
				case k > r.last:
					if r.last == n-1 && math32.Abs(ghostRight-raw[n-1]) <= threshold {
						return ghostRight
					}
					return raw[r.last]
				}
				return raw[k]
			}

			for k := r.first; k < r.last; k++ {
				p0, p1, p2, p3 := at(k-1), raw[k], raw[k+1], at(k+2)
				for s := 0; s < subdivisions; s++ {
					t := float32(s) / float32(subdivisions)
					out = append(out, Sample{X: xAt(k, t), Height: catmullRom(p0, p1, p2, p3, t)})
				}
			}
			out = append(out, Sample{X: xAt(r.last, 0), Height: raw[r.last]})
		}

		ridge := out[begin:]
		if config.SpikeFilter {
			relax(ridge, config.SpikeFilterThreshold, config.SpikeRelax, config.SpikeFilterPasses)
		}
		clampToRaw(ridge, raw, start, spacing, config.VerticalClamp)
	}

	return out
}

// catmullRom evaluates the uniform Catmull-Rom spline between p1 and p2.
func catmullRom(p0, p1, p2, p3, t float32) float32 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// relax pulls isolated peaks toward the average of their two neighbours on each side.
// The two points at each end are left alone so run ends (and seams) keep their height.
func relax(ridge []Sample, threshold, factor float32, passes int) {
	if len(ridge) < 5 {
		return
	}

	prev := make([]float32, len(ridge))
	for pass := 0; pass < passes; pass++ {
		for i := range ridge {
			prev[i] = ridge[i].Height
		}

		changed := false
		for i := 2; i < len(ridge)-2; i++ {
			before := (prev[i-1] + prev[i-2]) * 0.5
			after := (prev[i+1] + prev[i+2]) * 0.5
			diff := prev[i] - (before+after)*0.5
			if diff > threshold {
				ridge[i].Height = prev[i] - diff*factor
				changed = true
			}
		}

		if !changed {
			break
		}
	}
}

// clampToRaw limits every point to within limit of its nearest raw control point,
// removing the overshoot Catmull-Rom produces next to steep raw transitions.
func clampToRaw(ridge []Sample, raw []float32, start, spacing float64, limit float32) {
	for i := range ridge {
		k := clampInt(int(math.Round((float64(ridge[i].X)-start)/spacing)), 0, len(raw)-1)
		ridge[i].Height = clampFloat(ridge[i].Height, raw[k]-limit, raw[k]+limit)
	}
}
