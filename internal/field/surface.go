package field

import "math"

// DPR bounds applied by Configure.
const (
	MinDPR = 1.0
	MaxDPR = 2.0
)

// Surface is the drawing surface geometry. Width and Height are logical
// pixels; the backing store is DPR times larger.
type Surface struct {
	Width, Height float64
	DPR           float64

	BackingWidth, BackingHeight int
}

// Configure computes the surface for a viewport. The device pixel ratio is
// clamped to [MinDPR, MaxDPR] and sizes below one pixel become one pixel.
// Equal inputs always give equal surfaces.
func Configure(viewportWidth, viewportHeight, devicePixelRatio float64) Surface {
	w := atLeastOne(viewportWidth)
	h := atLeastOne(viewportHeight)

	dpr := devicePixelRatio
	if !isFinite(dpr) || dpr < MinDPR {
		dpr = MinDPR
	} else if dpr > MaxDPR {
		dpr = MaxDPR
	}

	return Surface{
		Width:         w,
		Height:        h,
		DPR:           dpr,
		BackingWidth:  int(math.Ceil(w * dpr)),
		BackingHeight: int(math.Ceil(h * dpr)),
	}
}

func atLeastOne(v float64) float64 {
	if !isFinite(v) || v < 1 {
		return 1
	}
	return math.Floor(v)
}

// Center returns the surface centre in logical pixels.
func (s Surface) Center() (float64, float64) {
	return s.Width / 2, s.Height / 2
}

// Scale returns the factors mapping logical pixels to backing pixels.
func (s Surface) Scale() (float64, float64) {
	if s.Width == 0 || s.Height == 0 {
		return 1, 1
	}
	return float64(s.BackingWidth) / s.Width, float64(s.BackingHeight) / s.Height
}

// Pointer is the last known pointer position in surface coordinates.
// Seen is false until the host reports a real pointer move.
type Pointer struct {
	X, Y float64
	Seen bool
}
