package field

import (
	"math"

	"github.com/olivierh59500/particle-field/internal/render"
)

// PaintStats summarises one painted frame.
type PaintStats struct {
	Visible   int
	Culled    int
	Links     int
	GridLines int
}

// Painter projects particles and paints a frame.
type Painter struct {
	t     *Tuning
	back  *backdrop
	links *linker
	nodes []node // scratch, reused between frames
}

// NewPainter returns a painter for t. The seed drives the backdrop noise.
func NewPainter(t *Tuning, seed int64) *Painter {
	p := &Painter{
		t:    t,
		back: newBackdrop(t, seed),
	}
	if t.Links {
		p.links = newLinker(t.LinkDistance, t.LinkDepth)
	}
	return p
}

// Paint draws one frame of particles onto c. Paint order: trail wash, grid,
// additive particle and link layer, vignette.
func (pt *Painter) Paint(c render.Canvas, particles []Particle, surf Surface, nowMillis float64) PaintStats {
	t := pt.t
	var st PaintStats

	c.FillRect(0, 0, surf.Width, surf.Height, render.WithAlpha(t.Background, t.TrailAlpha))

	if t.Grid {
		st.GridLines = pt.back.grid(c, surf, nowMillis)
	}

	c.BeginLayer(render.CompositeLighter)
	pt.nodes = pt.nodes[:0]
	for i := range particles {
		p := &particles[i]
		sp := Project(*p, surf, t.FOV)
		if !sp.Visible(surf, t.CullMargin) {
			st.Culled++
			continue
		}
		c.FillCircle(sp.X, sp.Y, pt.radius(p, sp), render.HSLA(p.Hue, t.Saturation, t.Lightness, pt.alpha(p, sp, nowMillis)))
		pt.nodes = append(pt.nodes, node{X: sp.X, Y: sp.Y, Z: p.Z, Hue: p.Hue})
		st.Visible++
	}
	if pt.links != nil {
		st.Links = pt.paintLinks(c, surf)
	}
	c.EndLayer()

	if t.Vignette {
		pt.back.vignette(c, surf)
	}
	return st
}

func (pt *Painter) radius(p *Particle, sp ScreenPoint) float64 {
	return math.Max(pt.t.MinRadius, p.Radius*sp.Scale)
}

// alpha blends the particle opacity with a scale-dependent glow term and,
// when enabled, a slow breathing pulse.
func (pt *Painter) alpha(p *Particle, sp ScreenPoint, nowMillis float64) float64 {
	a := p.Opacity * (pt.t.GlowBase + pt.t.GlowGain*sp.Scale)
	if pt.t.Pulse {
		a *= 0.75 + 0.25*math.Sin(p.Phase+2*math.Pi*p.Pulse*nowMillis/1000)
	}
	return math.Min(1, math.Max(0, a))
}

func (pt *Painter) paintLinks(c render.Canvas, surf Surface) int {
	t := pt.t
	n := 0
	draw := func(i, j int, d float64) {
		a, b := &pt.nodes[i], &pt.nodes[j]
		hue := t.LinkHue
		if hue < 0 {
			hue = (a.Hue + b.Hue) / 2
		}
		alpha := t.LinkAlpha * (1 - d/t.LinkDistance)
		c.StrokeLine(a.X, a.Y, b.X, b.Y, t.LinkWidth, render.HSLA(hue, t.Saturation, t.Lightness, alpha))
		n++
	}

	if t.GridThreshold > 0 && len(pt.nodes) > t.GridThreshold {
		pt.links.bucketed(pt.nodes, surf, t.CullMargin, draw)
	} else {
		pt.links.pairs(pt.nodes, draw)
	}
	return n
}
