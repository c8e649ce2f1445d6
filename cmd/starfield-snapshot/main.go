// Command starfield-snapshot renders the particle field headlessly and
// writes the last frame as a PNG.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gg"

	"github.com/olivierh59500/particle-field/internal/config"
	"github.com/olivierh59500/particle-field/internal/field"
	"github.com/olivierh59500/particle-field/internal/render/raster"
)

// Options control one snapshot.
type Options struct {
	Frames int
	Step   time.Duration
	DPR    float64
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "starfield-snapshot:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opts := Options{Frames: 120, Step: time.Second / time.Duration(cfg.FPS), DPR: 1}
	out := "starfield.png"

	fs := flag.NewFlagSet("starfield-snapshot", flag.ContinueOnError)
	cfg.BindFlags(fs)
	fs.IntVar(&opts.Frames, "frames", opts.Frames, "frames to simulate before the snapshot")
	fs.Float64Var(&opts.DPR, "dpr", opts.DPR, "device pixel ratio of the image")
	fs.StringVar(&out, "o", out, "output PNG file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	log, closer, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	gg.SetLogger(log.With("component", "gg"))

	var w io.Writer = os.Stdout
	if out != "-" {
		file, err := os.Create(out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	bw := bufio.NewWriter(w)
	if err := Render(bw, cfg, opts, log); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	log.Info("snapshot written", "file", out, "frames", opts.Frames)
	return nil
}

// Render simulates opts.Frames frames on a cfg-sized raster canvas and
// encodes the result as PNG.
func Render(w io.Writer, cfg config.Config, opts Options, log *slog.Logger) error {
	if opts.Frames < 1 {
		return errors.New("at least one frame is required")
	}
	surf := field.Configure(float64(cfg.Width), float64(cfg.Height), opts.DPR)
	c, err := raster.New(surf.Width, surf.Height, surf.DPR)
	if err != nil {
		return err
	}
	defer c.Close()
	c.Clear(cfg.Tuning().Background)

	f, err := field.Start(c, surf.DPR, cfg.Tuning(), cfg.FieldOptions(log)...)
	if err != nil {
		return err
	}
	for i := 0; i < opts.Frames; i++ {
		now := time.Duration(i) * opts.Step
		f.Step(now)
		// only the last frames show through the trail wash
		if i >= opts.Frames-8 {
			f.Paint(c, now)
		}
	}
	st := f.Stats()
	log.Debug("snapshot rendered",
		"visible", st.LastPaint.Visible, "culled", st.LastPaint.Culled, "links", st.LastPaint.Links)
	return c.WritePNG(w)
}
