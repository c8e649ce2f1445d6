// Package render defines the drawing surface the particle field paints on.
//
// All coordinates are logical pixels; implementations map them to their
// backing resolution.
package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Composite is the colour-blend mode of a layer.
type Composite int

const (
	// CompositeSourceOver is ordinary alpha blending.
	CompositeSourceOver Composite = iota
	// CompositeLighter adds source colour to the destination, so overlapping
	// shapes brighten rather than occlude.
	CompositeLighter
)

func (c Composite) String() string {
	if c == CompositeLighter {
		return "lighter"
	}
	return "source-over"
}

// Stop is one colour stop of a gradient. Offset is in [0, 1].
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Canvas is a 2D drawing surface.
type Canvas interface {
	// Size returns the logical size of the surface.
	Size() (w, h float64)

	FillRect(x, y, w, h float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)

	// FillRadialGradient covers the whole surface with a gradient centred
	// on (cx, cy) running from r0 to r1.
	FillRadialGradient(cx, cy, r0, r1 float64, stops []Stop)

	// BeginLayer redirects drawing to a transparent layer that EndLayer
	// composites back with the given mode. Layers do not nest.
	BeginLayer(mode Composite)
	EndLayer()
}

// HSLA converts hue (degrees), saturation, lightness and alpha (all [0, 1])
// to a non-premultiplied colour.
func HSLA(h, s, l, a float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(a) * 255))}
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(clamp01(a) * 255))
	return c
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
