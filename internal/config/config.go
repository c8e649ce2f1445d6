// Package config centralizes the runtime switches of the particle field hosts.
// Values come from STARFIELD_* environment variables; binaries may bind flags
// over them.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/olivierh59500/particle-field/internal/field"
	"github.com/olivierh59500/particle-field/internal/logging"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Window defaults.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	DefaultFPS    = 60
)

// Config holds the switches sampled once at startup.
type Config struct {
	Preset        field.Preset
	ReducedMotion bool
	CoarsePointer bool
	Seed          int64 // 0 picks a time-based seed
	FPS           int
	Width         int
	Height        int
	LogLevel      string
	LogFormat     string
	LogFile       string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Preset:    field.PresetStarfield,
		FPS:       DefaultFPS,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Load reads the environment on top of Default.
func Load() (Config, error) {
	c := Default()

	preset, err := field.ParsePreset(GetEnv("STARFIELD_PRESET", string(c.Preset)))
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c.Preset = preset

	if c.ReducedMotion, err = envBool("STARFIELD_REDUCED_MOTION", c.ReducedMotion); err != nil {
		return c, err
	}
	if c.CoarsePointer, err = envBool("STARFIELD_COARSE_POINTER", c.CoarsePointer); err != nil {
		return c, err
	}
	if c.FPS, err = envInt("STARFIELD_FPS", c.FPS); err != nil {
		return c, err
	}
	if c.Width, err = envInt("STARFIELD_WIDTH", c.Width); err != nil {
		return c, err
	}
	if c.Height, err = envInt("STARFIELD_HEIGHT", c.Height); err != nil {
		return c, err
	}
	seed, err := envInt("STARFIELD_SEED", 0)
	if err != nil {
		return c, err
	}
	c.Seed = int64(seed)

	c.LogLevel = GetEnv("STARFIELD_LOG_LEVEL", c.LogLevel)
	c.LogFormat = GetEnv("STARFIELD_LOG_FORMAT", c.LogFormat)
	c.LogFile = GetEnv("STARFIELD_LOG_FILE", c.LogFile)

	return c, c.Validate()
}

// presetFlag adapts Config.Preset to flag.Value.
type presetFlag struct{ p *field.Preset }

func (f presetFlag) String() string {
	if f.p == nil {
		return ""
	}
	return string(*f.p)
}

func (f presetFlag) Set(s string) error {
	p, err := field.ParsePreset(s)
	if err != nil {
		return err
	}
	*f.p = p
	return nil
}

// BindFlags registers flags on fs whose defaults are the current values of c.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.Var(presetFlag{&c.Preset}, "preset", "renderer preset: starfield, glow or flat")
	fs.BoolVar(&c.ReducedMotion, "reduced-motion", c.ReducedMotion, "fewer, slower particles and no trails")
	fs.BoolVar(&c.CoarsePointer, "coarse-pointer", c.CoarsePointer, "disable pointer parallax")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 = time based)")
	fs.IntVar(&c.FPS, "fps", c.FPS, "frames per second")
	fs.IntVar(&c.Width, "width", c.Width, "initial surface width in logical pixels")
	fs.IntVar(&c.Height, "height", c.Height, "initial surface height in logical pixels")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn, error or off")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text or json")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file instead of stderr")
}

// Validate checks ranges.
func (c Config) Validate() error {
	switch {
	case c.FPS <= 0 || c.FPS > 240:
		return fmt.Errorf("%w: fps %d out of range (1..240)", ErrInvalid, c.FPS)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalid, c.Width, c.Height)
	}
	if _, err := field.ParsePreset(string(c.Preset)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Tuning folds the switches into the field constants.
func (c Config) Tuning() field.Tuning {
	return field.TuningFor(c.Preset, c.ReducedMotion, c.CoarsePointer)
}

// FieldOptions returns the field options implied by c.
func (c Config) FieldOptions(log *slog.Logger) []field.Option {
	opts := []field.Option{field.WithLogger(log)}
	if c.Seed != 0 {
		opts = append(opts, field.WithSeed(c.Seed))
	}
	return opts
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Logger installs the shared logger. Records go to LogFile when set and to
// fallback otherwise. The returned closer releases the file.
func (c Config) Logger(fallback io.Writer) (*slog.Logger, io.Closer, error) {
	var w io.Writer = fallback
	var closer io.Closer = nopCloser{}
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}
	l, err := logging.Setup(w, c.LogLevel, c.LogFormat)
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return l, closer, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, key, v)
	}
	return b, nil
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, v)
	}
	return n, nil
}
