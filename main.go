package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/particle-field/internal/config"
	"github.com/olivierh59500/particle-field/internal/field"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "starfield:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("starfield", flag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	gg.SetLogger(log.With("component", "gg"))

	f, err := field.New(cfg.Tuning(), cfg.FieldOptions(log)...)
	if err != nil {
		return err
	}

	// Set up Ebitengine game
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Starfield")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)
	ebiten.SetScreenClearedEveryFrame(false)

	log.Info("starting window", "preset", string(cfg.Preset), "reduced_motion", cfg.ReducedMotion, "fps", cfg.FPS)
	if err := ebiten.RunGame(NewGame(f, log)); err != nil && !isTermination(err) {
		return err
	}
	st := f.Stats()
	log.Info("window closed", "frames", st.Frames, "respawns", st.Respawns, "repopulations", st.Repopulations)
	return nil
}
