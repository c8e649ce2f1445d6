package raster

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/olivierh59500/particle-field/internal/render"
)

// RadialGradient renders a w by h image of a radial gradient centred on
// (cx, cy) in the image's own pixels. Distances below r0 take the first
// stop and beyond r1 the last.
func RadialGradient(w, h int, cx, cy, r0, r1 float64, stops []render.Stop) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if len(stops) == 0 {
		return img
	}
	stops = slices.Clone(stops)
	slices.SortStableFunc(stops, func(a, b render.Stop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})

	span := r1 - r0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			t := 1.0
			if span > 0 {
				t = (d - r0) / span
			} else if d < r0 {
				t = 0
			}
			c := colorAt(stops, t)
			i := x * 4
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}

func colorAt(stops []render.Stop, t float64) color.NRGBA {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		f := 0.0
		if b.Offset > a.Offset {
			f = (t - a.Offset) / (b.Offset - a.Offset)
		}
		return color.NRGBA{
			R: lerp8(a.Color.R, b.Color.R, f),
			G: lerp8(a.Color.G, b.Color.G, f),
			B: lerp8(a.Color.B, b.Color.B, f),
			A: lerp8(a.Color.A, b.Color.A, f),
		}
	}
	return last.Color
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}
