// Package rendertest provides a render.Canvas that records calls.
package rendertest

import (
	"image/color"

	"github.com/olivierh59500/particle-field/internal/render"
)

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpFillRect OpKind = iota
	OpFillCircle
	OpStrokeLine
	OpRadialGradient
	OpBeginLayer
	OpEndLayer
)

// Op is one recorded call. Unused fields are zero.
type Op struct {
	Kind      OpKind
	X, Y      float64 // rect origin, circle centre, line start, gradient centre
	X1, Y1    float64 // line end
	W, H      float64 // rect size
	R         float64 // circle radius, gradient outer radius, line width
	Color     color.NRGBA
	Composite render.Composite
	Layered   bool // drawn inside a layer
}

// Recorder records every call made on it.
type Recorder struct {
	W, H  float64
	Ops   []Op
	layer bool
}

// NewRecorder returns a recorder reporting the given logical size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.add(Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Color: nrgba(c)})
}

func (r *Recorder) FillCircle(cx, cy, rad float64, c color.Color) {
	r.add(Op{Kind: OpFillCircle, X: cx, Y: cy, R: rad, Color: nrgba(c)})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	r.add(Op{Kind: OpStrokeLine, X: x0, Y: y0, X1: x1, Y1: y1, R: width, Color: nrgba(c)})
}

func (r *Recorder) FillRadialGradient(cx, cy, r0, r1 float64, stops []render.Stop) {
	op := Op{Kind: OpRadialGradient, X: cx, Y: cy, R: r1}
	if len(stops) > 0 {
		op.Color = stops[len(stops)-1].Color
	}
	r.add(op)
}

func (r *Recorder) BeginLayer(mode render.Composite) {
	r.add(Op{Kind: OpBeginLayer, Composite: mode})
	r.layer = true
}

func (r *Recorder) EndLayer() {
	r.layer = false
	r.add(Op{Kind: OpEndLayer})
}

// Reset drops recorded calls.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Count returns how many calls of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Filter returns the calls of kind k in order.
func (r *Recorder) Filter(k OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) add(op Op) {
	op.Layered = r.layer
	r.Ops = append(r.Ops, op)
}

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
