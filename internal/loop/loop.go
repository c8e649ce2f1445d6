// Package loop drives a frame function once per display refresh until its
// context is cancelled.
package loop

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/olivierh59500/particle-field/internal/logging"
)

// Frame is the body of one animation frame. now is the frame timestamp.
type Frame func(now time.Duration) error

// Runner calls a Frame on demand, skipping it while the host is hidden and
// containing any failure inside the frame.
type Runner struct {
	frame   Frame
	clock   Clock
	visible func() bool
	log     *slog.Logger

	frames  atomic.Uint64
	skipped atomic.Uint64
	failed  atomic.Uint64
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the timestamp source. The default is a MonotonicClock.
func WithClock(c Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithVisibility installs a predicate consulted before each frame. While it
// returns false no frame runs.
func WithVisibility(visible func() bool) Option {
	return func(r *Runner) { r.visible = visible }
}

// WithLogger sets the logger frame failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New returns a Runner for frame.
func New(frame Frame, opts ...Option) *Runner {
	r := &Runner{frame: frame}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = NewMonotonicClock()
	}
	if r.log == nil {
		r.log = logging.Logger()
	}
	return r
}

// Step runs a single iteration: one frame unless the host is hidden. It
// reports whether the frame ran without failing.
func (r *Runner) Step() bool {
	if r.visible != nil && !r.visible() {
		r.skipped.Add(1)
		return false
	}
	now := r.clock.Now()
	if err := r.call(now); err != nil {
		r.failed.Add(1)
		r.log.Error("frame failed", "err", err, "at", now, "failures", r.failed.Load())
		return false
	}
	r.frames.Add(1)
	return true
}

func (r *Runner) call(now time.Duration) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
			r.log.Debug("frame panic stack", "stack", string(debug.Stack()))
		}
	}()
	return r.frame(now)
}

// Run steps once per tick until ctx is cancelled. It stops the ticker on
// return and only ever returns ctx.Err().
func (r *Runner) Run(ctx context.Context, t Ticker) error {
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C():
			r.Step()
		}
	}
}

// Frames returns how many frames completed.
func (r *Runner) Frames() uint64 { return r.frames.Load() }

// Skipped returns how many ticks were skipped while hidden.
func (r *Runner) Skipped() uint64 { return r.skipped.Load() }

// Failures returns how many frames failed or panicked.
func (r *Runner) Failures() uint64 { return r.failed.Load() }

// Run is shorthand for New(frame, opts...).Run(ctx, t).
func Run(ctx context.Context, t Ticker, frame Frame, opts ...Option) error {
	return New(frame, opts...).Run(ctx, t)
}
