package ebitencanvas

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/particle-field/internal/render"
)

func TestTintPremultiplies(t *testing.T) {
	vs := make([]ebiten.Vertex, 3)
	vs[1].SrcX = 7
	tint(vs, color.NRGBA{R: 255, B: 255, A: 128})

	for i, v := range vs {
		if v.SrcX != 1 || v.SrcY != 1 {
			t.Errorf("vertex %d samples (%v, %v), want the white texel", i, v.SrcX, v.SrcY)
		}
		if v.ColorR != v.ColorA || v.ColorB != v.ColorA || v.ColorG != 0 {
			t.Errorf("vertex %d colour = %v %v %v %v", i, v.ColorR, v.ColorG, v.ColorB, v.ColorA)
		}
		if v.ColorA < 0.49 || v.ColorA > 0.51 {
			t.Errorf("vertex %d alpha = %v", i, v.ColorA)
		}
	}
}

func TestLayerModeSelection(t *testing.T) {
	c := New()
	c.BeginLayer(render.CompositeLighter)
	if c.lighter() {
		t.Fatal("unbound canvas entered a layer")
	}

	c.target = whiteImage
	c.BeginLayer(render.CompositeLighter)
	c.BeginLayer(render.CompositeSourceOver) // ignored, layers do not nest
	if !c.lighter() {
		t.Error("lighter layer not active")
	}
	c.EndLayer()
	if c.lighter() {
		t.Error("layer still active after EndLayer")
	}
}

func TestVignetteKeyTracksScale(t *testing.T) {
	a := vignetteKey{w: 10, h: 10, cx: 5, cy: 5, r1: 5, sx: 1, sy: 1}
	b := a
	if a != b {
		t.Fatal("equal keys compare unequal")
	}
	b.sx = 2
	if a == b {
		t.Error("scale change not reflected in key")
	}
}
