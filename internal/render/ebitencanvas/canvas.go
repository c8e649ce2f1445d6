// Package ebitencanvas implements render.Canvas on an ebiten image.
package ebitencanvas

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/particle-field/internal/render"
	"github.com/olivierh59500/particle-field/internal/render/raster"
)

var _ render.Canvas = (*Canvas)(nil)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// lighterOp sums premultiplied vertex colours into the target.
var lighterOp = ebiten.DrawTrianglesOptions{
	ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
	Blend:          ebiten.BlendLighter,
	AntiAlias:      true,
}

// Canvas draws in logical pixels onto a device-resolution target. Bind it
// to the frame's target before painting.
type Canvas struct {
	target *ebiten.Image
	w, h   float64
	sx, sy float32

	mode    render.Composite
	inLayer bool
	vs      []ebiten.Vertex
	is      []uint16

	vignette      *ebiten.Image
	vignetteKey   vignetteKey
	vignetteStops []render.Stop
}

type vignetteKey struct {
	w, h                   int
	cx, cy, r0, r1, sx, sy float64
}

// New returns an unbound canvas.
func New() *Canvas {
	return &Canvas{sx: 1, sy: 1}
}

// Bind makes target the drawing surface for a logical w by h area. The
// scale is derived from the target's bounds.
func (c *Canvas) Bind(target *ebiten.Image, w, h float64) {
	c.target = target
	c.w, c.h = w, h
	b := target.Bounds()
	c.sx, c.sy = 1, 1
	if w > 0 && h > 0 {
		c.sx = float32(float64(b.Dx()) / w)
		c.sy = float32(float64(b.Dy()) / h)
	}
	c.inLayer = false
}

func (c *Canvas) Size() (float64, float64) { return c.w, c.h }

func (c *Canvas) lighter() bool {
	return c.inLayer && c.mode == render.CompositeLighter
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	x0, y0 := float32(x)*c.sx, float32(y)*c.sy
	x1, y1 := float32(x+w)*c.sx, float32(y+h)*c.sy
	if !c.lighter() {
		vector.DrawFilledRect(c.target, x0, y0, x1-x0, y1-y0, col, false)
		return
	}
	var p vector.Path
	p.MoveTo(x0, y0)
	p.LineTo(x1, y0)
	p.LineTo(x1, y1)
	p.LineTo(x0, y1)
	p.Close()
	c.vs, c.is = p.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	c.drawLighter(col)
}

func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	x, y, rr := float32(cx)*c.sx, float32(cy)*c.sy, float32(r)*c.sx
	if !c.lighter() {
		vector.DrawFilledCircle(c.target, x, y, rr, col, true)
		return
	}
	var p vector.Path
	p.Arc(x, y, rr, 0, 2*math.Pi, vector.Clockwise)
	p.Close()
	c.vs, c.is = p.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	c.drawLighter(col)
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) {
	ax, ay := float32(x0)*c.sx, float32(y0)*c.sy
	bx, by := float32(x1)*c.sx, float32(y1)*c.sy
	sw := float32(width) * c.sx
	if !c.lighter() {
		vector.StrokeLine(c.target, ax, ay, bx, by, sw, col, true)
		return
	}
	var p vector.Path
	p.MoveTo(ax, ay)
	p.LineTo(bx, by)
	c.vs, c.is = p.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], &vector.StrokeOptions{Width: sw})
	c.drawLighter(col)
}

// drawLighter adds the pending triangles, tinted with col, to the target.
func (c *Canvas) drawLighter(col color.Color) {
	if len(c.is) == 0 {
		return
	}
	tint(c.vs, col)
	c.target.DrawTriangles(c.vs, c.is, whiteSubImage, &lighterOp)
}

// tint samples the white texel and sets every vertex to col premultiplied.
func tint(vs []ebiten.Vertex, col color.Color) {
	r, g, b, a := col.RGBA()
	cr, cg := float32(r)/0xffff, float32(g)/0xffff
	cb, ca := float32(b)/0xffff, float32(a)/0xffff
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = cr, cg, cb, ca
	}
}

// FillRadialGradient draws a cached texture rasterised once per gradient
// and target size.
func (c *Canvas) FillRadialGradient(cx, cy, r0, r1 float64, stops []render.Stop) {
	b := c.target.Bounds()
	sx, sy := float64(c.sx), float64(c.sy)
	key := vignetteKey{w: b.Dx(), h: b.Dy(), cx: cx, cy: cy, r0: r0, r1: r1, sx: sx, sy: sy}
	if c.vignette == nil || c.vignetteKey != key || !slices.Equal(c.vignetteStops, stops) {
		if c.vignette != nil {
			c.vignette.Deallocate()
		}
		img := raster.RadialGradient(b.Dx(), b.Dy(), cx*sx, cy*sy, r0*sx, r1*sx, stops)
		c.vignette = ebiten.NewImageFromImage(img)
		c.vignetteKey = key
		c.vignetteStops = slices.Clone(stops)
	}
	c.target.DrawImage(c.vignette, nil)
}

// BeginLayer selects the composite mode for the shapes that follow. Under
// CompositeLighter each shape is added to the target with
// ebiten.BlendLighter, so overlaps sum.
func (c *Canvas) BeginLayer(mode render.Composite) {
	if c.inLayer || c.target == nil {
		return
	}
	c.mode = mode
	c.inLayer = true
}

func (c *Canvas) EndLayer() {
	c.inLayer = false
}
