// Package raster implements render.Canvas on a gg software context.
//
// The canvas is addressed in logical pixels. The backing context is DPR
// times larger and the scale lives in the gg transform, so callers never
// see device pixels.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"slices"

	"github.com/gogpu/gg"

	"github.com/olivierh59500/particle-field/internal/logging"
	"github.com/olivierh59500/particle-field/internal/render"
)

// Canvas is a gg backed render.Canvas.
type Canvas struct {
	dc   *gg.Context
	w, h float64
	dpr  float64

	// add receives shapes drawn inside a lighter layer; each shape is
	// summed into dc and wiped from add as soon as it is drawn.
	add     *gg.Context
	mode    render.Composite
	inLayer bool
	failed  bool

	grad      *gg.ImageBuf
	gradKey   gradientKey
	gradStops []render.Stop
}

// New returns a canvas of w by h logical pixels at the given pixel ratio.
func New(w, h, dpr float64) (*Canvas, error) {
	bw, bh, err := backing(w, h, dpr)
	if err != nil {
		return nil, err
	}
	c := &Canvas{dc: gg.NewContext(bw, bh), w: w, h: h, dpr: dpr}
	c.resetTransform()
	return c, nil
}

func backing(w, h, dpr float64) (int, int, error) {
	if !(w > 0) || !(h > 0) || !(dpr > 0) {
		return 0, 0, fmt.Errorf("raster: invalid size %vx%v@%v", w, h, dpr)
	}
	return int(math.Ceil(w * dpr)), int(math.Ceil(h * dpr)), nil
}

func (c *Canvas) resetTransform() {
	for _, dc := range []*gg.Context{c.dc, c.add} {
		if dc == nil {
			continue
		}
		dc.Identity()
		dc.Scale(c.dpr, c.dpr)
	}
}

// Resize changes the logical size and pixel ratio. Content is discarded
// when the backing size changes.
func (c *Canvas) Resize(w, h, dpr float64) error {
	bw, bh, err := backing(w, h, dpr)
	if err != nil {
		return err
	}
	if err := c.dc.Resize(bw, bh); err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if c.add != nil {
		if err := c.add.Resize(bw, bh); err != nil {
			return fmt.Errorf("raster: %w", err)
		}
		c.add.Clear()
	}
	c.w, c.h, c.dpr = w, h, dpr
	c.resetTransform()
	return nil
}

func (c *Canvas) Size() (float64, float64) { return c.w, c.h }

// DPR returns the pixel ratio in use.
func (c *Canvas) DPR() float64 { return c.dpr }

// Clear fills the backing store with col, ignoring any layer.
func (c *Canvas) Clear(col color.Color) {
	c.dc.ClearWithColor(gg.FromColor(col))
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	dc := c.target()
	dc.SetColor(c.paint(col))
	dc.DrawRectangle(x, y, w, h)
	c.check("fill", dc.Fill())
	c.accumulate(col, x, y, x+w, y+h)
}

func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	dc := c.target()
	dc.SetColor(c.paint(col))
	dc.DrawCircle(cx, cy, r)
	c.check("fill", dc.Fill())
	c.accumulate(col, cx-r, cy-r, cx+r, cy+r)
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) {
	dc := c.target()
	dc.SetColor(c.paint(col))
	dc.SetLineWidth(width)
	dc.DrawLine(x0, y0, x1, y1)
	c.check("stroke", dc.Stroke())
	m := width/2 + 1
	c.accumulate(col, min(x0, x1)-m, min(y0, y1)-m, max(x0, x1)+m, max(y0, y1)+m)
}

// check logs the first failed draw and drops the rest.
func (c *Canvas) check(op string, err error) {
	if err == nil || c.failed {
		return
	}
	c.failed = true
	logging.Logger().Warn("raster draw failed", "op", op, "err", err)
}

func (c *Canvas) lighter() bool {
	return c.inLayer && c.mode == render.CompositeLighter
}

func (c *Canvas) target() *gg.Context {
	if c.lighter() {
		return c.add
	}
	return c.dc
}

// paint is the colour handed to gg. Lighter shapes are drawn opaque white
// so the scratch alpha is pure coverage.
func (c *Canvas) paint(col color.Color) color.Color {
	if c.lighter() {
		return color.White
	}
	return col
}

// accumulate adds col, weighted by the coverage left in the scratch
// context, to the backing store over the logical box (x0, y0)-(x1, y1).
// Channels saturate at 255.
func (c *Canvas) accumulate(col color.Color, x0, y0, x1, y1 float64) {
	if !c.lighter() {
		return
	}
	bw, bh := c.dc.Width(), c.dc.Height()
	ix0 := clampInt(int(math.Floor(x0*c.dpr))-1, 0, bw)
	iy0 := clampInt(int(math.Floor(y0*c.dpr))-1, 0, bh)
	ix1 := clampInt(int(math.Ceil(x1*c.dpr))+1, 0, bw)
	iy1 := clampInt(int(math.Ceil(y1*c.dpr))+1, 0, bh)
	if ix0 >= ix1 || iy0 >= iy1 {
		return
	}

	r, g, b, a := col.RGBA()
	src := [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8}
	scratch := c.add.ResizeTarget().Data()
	dst := c.dc.ResizeTarget().Data()
	stride := bw * 4
	for y := iy0; y < iy1; y++ {
		row := y * stride
		for i := row + ix0*4; i < row+ix1*4; i += 4 {
			cov := uint32(scratch[i+3])
			if cov == 0 {
				continue
			}
			for k := 0; k < 4; k++ {
				v := uint32(dst[i+k]) + (src[k]*cov+127)/255
				dst[i+k] = uint8(min(v, 255))
			}
			clear(scratch[i : i+4])
		}
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// FillRadialGradient composites a gradient bitmap over the whole surface.
// The bitmap is rebuilt only when the gradient or the backing size changes,
// so a vignette painted every frame costs one image draw.
func (c *Canvas) FillRadialGradient(cx, cy, r0, r1 float64, stops []render.Stop) {
	s := c.dpr
	bw, bh := c.dc.Width(), c.dc.Height()
	key := gradientKey{w: bw, h: bh, cx: cx * s, cy: cy * s, r0: r0 * s, r1: r1 * s}
	if c.grad == nil || c.gradKey != key || !slices.Equal(c.gradStops, stops) {
		c.grad = gg.ImageBufFromImage(RadialGradient(bw, bh, key.cx, key.cy, key.r0, key.r1, stops))
		c.gradKey = key
		c.gradStops = slices.Clone(stops)
	}

	c.dc.Push()
	c.dc.Identity()
	c.dc.DrawImage(c.grad, 0, 0)
	c.dc.Pop()
}

type gradientKey struct {
	w, h           int
	cx, cy, r0, r1 float64
}

// BeginLayer starts a layer. Source-over layers draw straight through;
// CompositeLighter sums every shape into the backing store instead.
func (c *Canvas) BeginLayer(mode render.Composite) {
	if c.inLayer {
		return
	}
	if mode == render.CompositeLighter && c.add == nil {
		c.add = gg.NewContext(c.dc.Width(), c.dc.Height())
		c.resetTransform()
	}
	c.inLayer = true
	c.mode = mode
}

func (c *Canvas) EndLayer() {
	c.inLayer = false
}

// Image returns a copy of the backing pixels.
func (c *Canvas) Image() *image.RGBA {
	src := c.dc.Image()
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// WritePNG encodes the backing store as PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// Close releases the gg contexts.
func (c *Canvas) Close() error {
	if c.add != nil {
		_ = c.add.Close()
	}
	return c.dc.Close()
}
