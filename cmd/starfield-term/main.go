// Command starfield-term renders the particle field in a terminal using
// half-block cells. Escape, q or Ctrl-C quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/particle-field/internal/config"
	"github.com/olivierh59500/particle-field/internal/field"
	"github.com/olivierh59500/particle-field/internal/loop"
	"github.com/olivierh59500/particle-field/internal/render/term"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "starfield-term:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("starfield-term", flag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// stderr belongs to the screen; log only to a file.
	log, closer, err := cfg.Logger(io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = Run(ctx, screen, cfg, log)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Run drives the field on screen until ctx is cancelled or the user quits.
func Run(ctx context.Context, screen tcell.Screen, cfg config.Config, log *slog.Logger) error {
	pr, err := term.New(screen)
	if err != nil {
		return err
	}
	// A terminal cell is roughly twice as tall as wide, so one logical
	// pixel per half cell keeps the field's proportions.
	f, err := field.Start(pr.Canvas(), 1, cfg.Tuning(), cfg.FieldOptions(log)...)
	if errors.Is(err, field.ErrNoSurface) {
		log.Info("no drawing surface, nothing to animate")
		return nil
	}
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Input Loop (Non-blocking)
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	clock := loop.NewMonotonicClock()
	paused := false
	runner := loop.New(func(now time.Duration) error {
		if _, err := pr.Sync(); err != nil {
			return err
		}
		w, h := pr.Canvas().Size()
		f.Resize(w, h, 1, now)
		f.Frame(pr.Canvas(), now)
		pr.Present()
		return nil
	}, loop.WithClock(clock), loop.WithLogger(log), loop.WithVisibility(func() bool { return !paused }))

	ticker := loop.NewTicker(cfg.FPS)
	defer ticker.Stop()

	log.Info("terminal renderer started", "preset", string(cfg.Preset), "fps", cfg.FPS)
	defer func() {
		st := f.Stats()
		log.Info("terminal renderer stopped", "frames", st.Frames, "failures", runner.Failures())
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventMouse:
				x, y := ev.Position()
				f.PointerMove(pr.PointerAt(x, y))
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
					return nil
				case ev.Rune() == ' ':
					paused = !paused
				}
			}
		case <-ticker.C():
			runner.Step()
		}
	}
}
