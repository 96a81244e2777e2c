// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

type ColorVec [3]float32

var colors = [...]ColorVec{
	RGB(90, 150, 210),  // sky top
	RGB(170, 200, 240), // sky horizon
	RGB(30, 90, 70),    // valley
	RGB(60, 150, 80),   // hills
	RGB(180, 225, 170), // ridge highlight
	RGB(25, 60, 40),    // deep ground
}

// ridgeThickness is the highlight band under the ridge line in pixels.
const ridgeThickness = 2

// Render draws a side profile of heights, one column per sample, height pixels tall.
// NaN samples (not streamed) are left as sky.
func Render(heights []float32, height int) image.Image {
	width := len(heights)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return img
	}

	lo, hi := math32.Inf(1), math32.Inf(-1)
	for _, h := range heights {
		if math32.IsNaN(h) {
			continue
		}
		lo = math32.Min(lo, h)
		hi = math32.Max(hi, h)
	}
	if lo > hi {
		lo, hi = 0, 1
	}

	// Sky margin above the highest peak.
	span := math32.Max(hi-lo, 1)
	top := hi + span*0.33
	bottom := lo - span*0.1
	scale := float32(height) / (top - bottom)

	for i, h := range heights {
		ridge := height
		if !math32.IsNaN(h) {
			ridge = int((top - h) * scale)
		}
		elevation := clamp((h - lo) / span)

		for j := 0; j < height; j++ {
			var c ColorVec

			switch {
			case j < ridge:
				c = colors[0].Lerp(colors[1], clamp(float32(j)/float32(height)))
			case j < ridge+ridgeThickness:
				c = colors[4]
			default:
				surface := colors[2].Lerp(colors[3], elevation)
				c = surface.Lerp(colors[5], clamp(float32(j-ridge)/float32(height-ridge+1)))
			}

			img.Set(i, j, c.Color())
		}
	}

	return img
}

func RGB(r, g, b byte) ColorVec {
	const factor = 1.0 / 255
	return ColorVec{float32(r) * factor, float32(g) * factor, float32(b) * factor}
}

func (vec ColorVec) Lerp(other ColorVec, factor float32) ColorVec {
	for i := range vec {
		vec[i] = Lerp(vec[i], other[i], factor)
	}
	return vec
}

func (vec ColorVec) Color() color.RGBA {
	return color.RGBA{R: floatToByte(vec[0]), G: floatToByte(vec[1]), B: floatToByte(vec[2]), A: 255}
}
