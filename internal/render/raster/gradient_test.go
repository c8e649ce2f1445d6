package raster

import (
	"image/color"
	"testing"

	"github.com/olivierh59500/particle-field/internal/render"
)

func TestRadialGradientStops(t *testing.T) {
	stops := []render.Stop{
		{Offset: 1, Color: color.NRGBA{A: 200}},
		{Offset: 0, Color: color.NRGBA{}},
		{Offset: 0.5, Color: color.NRGBA{}},
	}
	img := RadialGradient(101, 1, 0, 0.5, 0, 100, stops)

	tests := []struct {
		x     int
		wantA int
	}{
		{0, 0},
		{49, 0},
		{75, 100},
		{100, 200},
	}
	for _, tt := range tests {
		if a := int(img.NRGBAAt(tt.x, 0).A); a < tt.wantA-2 || a > tt.wantA+2 {
			t.Errorf("alpha at %d = %d, want ~%d", tt.x, a, tt.wantA)
		}
	}
}

func TestRadialGradientNoStops(t *testing.T) {
	img := RadialGradient(4, 4, 2, 2, 0, 2, nil)
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("empty gradient painted alpha %d", a)
	}
}
