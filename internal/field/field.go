// Package field implements the animated particle field: a perspective
// starfield (or a flat bouncing field) that is stepped and painted once per
// display refresh.
//
// A Field is a self-contained context object. Hosts feed it viewport sizes,
// pointer positions and frame timestamps, and hand it a render.Canvas to
// paint on. Nothing is shared between fields, so several can run side by
// side.
package field

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olivierh59500/particle-field/internal/logging"
	"github.com/olivierh59500/particle-field/internal/render"
)

// ErrNoSurface is returned by Start when there is nothing to draw on. Hosts
// treat it as "no animation", not as a failure.
var ErrNoSurface = errors.New("field: no drawing surface")

// Stats are cumulative counters.
type Stats struct {
	Frames        uint64
	Respawns      uint64
	Recoveries    uint64
	Repopulations uint64
	LastPaint     PaintStats
}

type options struct {
	seed   int64
	logger *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithSeed fixes the random seed. The default is time based.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithLogger overrides the shared logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Field is the particle field renderer.
type Field struct {
	tuning *Tuning

	surface     Surface
	configured  bool
	pointer     Pointer

	store   *Store
	sim     *Simulator
	painter *Painter
	resize  Debouncer

	last    time.Duration
	started bool

	stats Stats
	log   *slog.Logger
}

// New creates an unconfigured field. The first Resize sizes the surface and
// populates the store.
func New(t Tuning, opts ...Option) (*Field, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("field: %w", err)
	}
	o := options{seed: time.Now().UnixNano()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Logger()
	}

	tu := t
	sp := NewSpawner(&tu, o.seed)
	return &Field{
		tuning:  &tu,
		store:   NewStore(sp),
		sim:     NewSimulator(&tu, sp),
		painter: NewPainter(&tu, o.seed),
		resize:  Debouncer{Delay: tu.ResizeDelay},
		log:     o.logger,
	}, nil
}

// Start creates a field sized to c. A nil or empty canvas yields ErrNoSurface.
func Start(c render.Canvas, dpr float64, t Tuning, opts ...Option) (*Field, error) {
	if c == nil {
		return nil, ErrNoSurface
	}
	w, h := c.Size()
	if w <= 0 || h <= 0 {
		return nil, ErrNoSurface
	}
	f, err := New(t, opts...)
	if err != nil {
		return nil, err
	}
	f.Resize(w, h, dpr, 0)
	return f, nil
}

// Resize reconfigures the surface for a new viewport and reports whether
// anything changed. The first call populates immediately; later changes
// schedule one repopulation after the resize delay, however many arrive.
func (f *Field) Resize(width, height, dpr float64, now time.Duration) bool {
	s := Configure(width, height, dpr)

	if !f.configured {
		f.surface = s
		f.configured = true
		f.store.Populate(f.tuning.Count, s)
		f.log.Info("particle field started",
			"policy", f.tuning.Policy.String(),
			"particles", f.store.Len(),
			"width", s.Width, "height", s.Height, "dpr", s.DPR)
		return true
	}
	if s == f.surface {
		return false
	}

	f.surface = s
	f.resize.Trigger(now)
	f.log.Debug("surface resized", "width", s.Width, "height", s.Height, "dpr", s.DPR)
	return true
}

// PointerMove records the pointer position in surface coordinates.
func (f *Field) PointerMove(x, y float64) {
	if !isFinite(x) || !isFinite(y) {
		return
	}
	f.pointer = Pointer{X: x, Y: y, Seen: true}
}

// Pointer returns the pointer the next step will read. Until the first
// PointerMove it is the surface centre, which produces no drift and no
// attraction.
func (f *Field) Pointer() Pointer {
	if !f.pointer.Seen {
		cx, cy := f.surface.Center()
		return Pointer{X: cx, Y: cy}
	}
	return f.pointer
}

// Step advances every particle to timestamp now. The first step after
// creation has a zero delta.
func (f *Field) Step(now time.Duration) {
	if !f.configured {
		return
	}
	if f.resize.Ready(now) {
		f.store.Populate(f.tuning.Count, f.surface)
		f.stats.Repopulations++
		f.log.Info("particle field repopulated",
			"particles", f.store.Len(), "width", f.surface.Width, "height", f.surface.Height)
	}

	var dt float64
	if f.started {
		dt = float64(now-f.last) / float64(time.Millisecond)
	}
	f.last, f.started = now, true

	ptr := f.Pointer()
	ps := f.store.Particles()
	for i := range ps {
		switch f.sim.Advance(&ps[i], dt, ptr, f.surface) {
		case Respawned:
			f.stats.Respawns++
		case Recovered:
			f.stats.Recoveries++
			f.log.Warn("particle recovered from non-finite state", "index", i)
		}
	}
	f.stats.Frames++
}

// Paint draws the current state onto c.
func (f *Field) Paint(c render.Canvas, now time.Duration) PaintStats {
	if !f.configured || c == nil {
		return PaintStats{}
	}
	st := f.painter.Paint(c, f.store.Particles(), f.surface, float64(now)/float64(time.Millisecond))
	f.stats.LastPaint = st
	return st
}

// Frame steps then paints, the body of one animation frame.
func (f *Field) Frame(c render.Canvas, now time.Duration) {
	f.Step(now)
	f.Paint(c, now)
}

// Particles exposes the live particle collection.
func (f *Field) Particles() []Particle { return f.store.Particles() }

// Surface returns the current surface geometry.
func (f *Field) Surface() Surface { return f.surface }

// Tuning returns the constants in use.
func (f *Field) Tuning() Tuning { return *f.tuning }

// Stats returns the cumulative counters.
func (f *Field) Stats() Stats { return f.stats }
