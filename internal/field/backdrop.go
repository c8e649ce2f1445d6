package field

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/olivierh59500/particle-field/internal/render"
)

// Perlin parameters for the grid drift.
const (
	noiseAlpha = 2.0
	noiseBeta  = 2.0
	noiseN     = 3
	// grid offset advances one noise unit every 20 seconds
	gridDriftRate = 1.0 / 20000
)

// backdrop paints the grid and the vignette behind and over the particles.
type backdrop struct {
	t     *Tuning
	noise *perlin.Perlin
}

func newBackdrop(t *Tuning, seed int64) *backdrop {
	return &backdrop{
		t:     t,
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseN, seed),
	}
}

// gridOffset returns the grid phase in [0, spacing) for time nowMillis.
func (b *backdrop) gridOffset(nowMillis float64) (float64, float64) {
	if !b.t.GridDrift {
		return 0, 0
	}
	s := b.t.GridSpacing
	n := nowMillis * gridDriftRate
	ox := math.Mod(b.noise.Noise1D(n)*4*s, s)
	oy := math.Mod(b.noise.Noise1D(n+100)*4*s, s)
	if ox < 0 {
		ox += s
	}
	if oy < 0 {
		oy += s
	}
	return ox, oy
}

func (b *backdrop) grid(c render.Canvas, surf Surface, nowMillis float64) int {
	s := b.t.GridSpacing
	if s <= 0 {
		return 0
	}
	col := render.HSLA(190, 1, 0.6, b.t.GridAlpha)
	ox, oy := b.gridOffset(nowMillis)

	lines := 0
	for x := ox; x <= surf.Width; x += s {
		c.StrokeLine(x, 0, x, surf.Height, 1, col)
		lines++
	}
	for y := oy; y <= surf.Height; y += s {
		c.StrokeLine(0, y, surf.Width, y, 1, col)
		lines++
	}
	return lines
}

func (b *backdrop) vignette(c render.Canvas, surf Surface) {
	cx, cy := surf.Center()
	r := math.Max(surf.Width, surf.Height) * 0.75
	bg := b.t.Background
	c.FillRadialGradient(cx, cy, 0, r, []render.Stop{
		{Offset: 0, Color: render.WithAlpha(bg, 0)},
		{Offset: 0.55, Color: render.WithAlpha(bg, 0)},
		{Offset: 1, Color: render.WithAlpha(bg, 0.65)},
	})
}
