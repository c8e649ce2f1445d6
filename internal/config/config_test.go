package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olivierh59500/particle-field/internal/field"
	"github.com/olivierh59500/particle-field/internal/logging"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Preset != field.PresetStarfield {
		t.Errorf("Preset = %q, want starfield", c.Preset)
	}
	if c.FPS != DefaultFPS || c.Width != DefaultWidth || c.Height != DefaultHeight {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STARFIELD_PRESET", "Glow")
	t.Setenv("STARFIELD_REDUCED_MOTION", "true")
	t.Setenv("STARFIELD_FPS", "30")
	t.Setenv("STARFIELD_SEED", "42")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Preset != field.PresetGlow {
		t.Errorf("Preset = %q, want glow", c.Preset)
	}
	if !c.ReducedMotion {
		t.Error("ReducedMotion not read from env")
	}
	if c.FPS != 30 || c.Seed != 42 {
		t.Errorf("FPS=%d Seed=%d", c.FPS, c.Seed)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STARFIELD_PRESET", "plasma"},
		{"STARFIELD_REDUCED_MOTION", "maybe"},
		{"STARFIELD_FPS", "fast"},
		{"STARFIELD_FPS", "0"},
		{"STARFIELD_WIDTH", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestBindFlags(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.BindFlags(fs)

	if err := fs.Parse([]string{"-preset", "flat", "-coarse-pointer", "-seed", "7"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Preset != field.PresetFlat || !c.CoarsePointer || c.Seed != 7 {
		t.Errorf("flags not applied: %+v", c)
	}
	if err := fs.Parse([]string{"-preset", "nope"}); err == nil {
		t.Error("expected error for unknown preset flag")
	}
}

func TestReducedMotionTuning(t *testing.T) {
	c := Default()
	c.ReducedMotion = true
	tu := c.Tuning()

	if tu.Drift != 0 {
		t.Errorf("Drift = %v, want 0 under reduced motion", tu.Drift)
	}
	if tu.Count != 140 {
		t.Errorf("Count = %d, want 140 under reduced motion", tu.Count)
	}
	if tu.TrailAlpha != 1 {
		t.Errorf("TrailAlpha = %v, want opaque wash", tu.TrailAlpha)
	}
}

func TestDefaultTuningCount(t *testing.T) {
	if got := Default().Tuning().Count; got != 260 {
		t.Errorf("Count = %d, want 260", got)
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	c := Default()
	c.LogFile = filepath.Join(t.TempDir(), "field.log")
	c.LogFormat = "json"

	l, closer, err := c.Logger(io.Discard)
	if err != nil {
		t.Fatalf("Logger: %v", err)
	}
	t.Cleanup(func() { logging.SetLogger(nil) })
	l.Info("hello", "k", 1)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(c.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestLoggerRejectsBadLevel(t *testing.T) {
	c := Default()
	c.LogLevel = "loud"
	if _, _, err := c.Logger(io.Discard); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestFieldOptionsSeed(t *testing.T) {
	if n := len(Default().FieldOptions(nil)); n != 1 {
		t.Errorf("default options = %d, want logger only", n)
	}
	c := Default()
	c.Seed = 7
	if n := len(c.FieldOptions(nil)); n != 2 {
		t.Errorf("seeded options = %d", n)
	}
}
