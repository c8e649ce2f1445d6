package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/olivierh59500/particle-field/internal/field"
	"github.com/olivierh59500/particle-field/internal/loop"
	"github.com/olivierh59500/particle-field/internal/render/ebitencanvas"
)

// Game adapts a field.Field to ebiten's Update/Draw/Layout cycle.
type Game struct {
	field  *field.Field
	canvas *ebitencanvas.Canvas
	clock  loop.Clock
	runner *loop.Runner
	log    *slog.Logger

	// viewport from the last LayoutF, in logical pixels
	width, height float64
	dpr           float64

	cursorX, cursorY int
	cursorSeen       bool
	Paused           bool
}

// NewGame wraps f. The field is sized on the first layout.
func NewGame(f *field.Field, log *slog.Logger) *Game {
	g := &Game{
		field:  f,
		canvas: ebitencanvas.New(),
		clock:  loop.NewMonotonicClock(),
		log:    log,
		dpr:    1,
	}
	g.runner = loop.New(func(now time.Duration) error {
		g.field.Step(now)
		return nil
	}, loop.WithClock(g.clock), loop.WithVisibility(g.visible), loop.WithLogger(log))
	return g
}

// visible pauses the field while the window is minimised or paused by hand.
func (g *Game) visible() bool {
	return !g.Paused && !ebiten.IsWindowMinimized()
}

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if g.width > 0 && g.height > 0 {
		g.field.Resize(g.width, g.height, g.dpr, g.clock.Now())
	}
	g.runner.Step()
	return nil
}

// Draw is called each frame by Ebitengine. The screen is not cleared
// between frames, so the trail wash fades the previous one.
func (g *Game) Draw(screen *ebiten.Image) {
	if !g.visible() {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			g.log.Error("paint failed", "err", fmt.Sprint(v))
		}
	}()
	surf := g.field.Surface()
	g.canvas.Bind(screen, surf.Width, surf.Height)
	g.field.Paint(g.canvas, g.clock.Now())
}

// Layout is required by ebiten.Game; LayoutF takes precedence.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.LayoutF(float64(outsideWidth), float64(outsideHeight))
	return int(w), int(h)
}

// LayoutF records the logical viewport and returns a device-resolution
// screen so particles stay sharp on high density displays.
func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	g.width, g.height = outsideWidth, outsideHeight
	if m := ebiten.Monitor(); m != nil {
		g.dpr = m.DeviceScaleFactor()
	}
	s := field.Configure(outsideWidth, outsideHeight, g.dpr)
	return float64(s.BackingWidth), float64(s.BackingHeight)
}

// handleInput processes keyboard and mouse input
func (g *Game) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.Paused = !g.Paused
	}

	// Only real movement reaches the field, so the pointer stays neutral
	// until the user touches the mouse.
	mx, my := ebiten.CursorPosition()
	if g.cursorSeen && mx == g.cursorX && my == g.cursorY {
		return nil
	}
	if !g.cursorSeen {
		g.cursorX, g.cursorY, g.cursorSeen = mx, my, true
		return nil
	}
	g.cursorX, g.cursorY = mx, my

	sx, sy := g.field.Surface().Scale()
	g.field.PointerMove(float64(mx)/sx, float64(my)/sy)
	return nil
}

// isTermination reports whether err is the clean window close.
func isTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}
