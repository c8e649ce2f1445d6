package field

import (
	"math"
	"testing"
)

func newTestSim(t Tuning, seed int64) (*Tuning, *Spawner, *Simulator) {
	tu := t
	sp := NewSpawner(&tu, seed)
	return &tu, sp, NewSimulator(&tu, sp)
}

func TestAdvanceScenario(t *testing.T) {
	tu, sp, sim := newTestSim(DefaultTuning(), 1)
	surf := Configure(1920, 1080, 1)
	st := NewStore(sp)
	ps := st.Populate(260, surf)
	ptr := Pointer{X: 960, Y: 540}

	step := tu.Speed * 16
	for i := range ps {
		before := ps[i]
		out := sim.Advance(&ps[i], 16, ptr, surf)
		after := ps[i]

		if !after.finite() {
			t.Fatalf("particle %d not finite: %+v", i, after)
		}
		switch out {
		case Moved:
			if got := before.Z - after.Z; math.Abs(got-step) > 1e-9 {
				t.Errorf("particle %d: z decreased by %v, want %v", i, got, step)
			}
			if after.X != before.X || after.Y != before.Y {
				t.Errorf("particle %d drifted with a centred pointer", i)
			}
		case Respawned:
			if before.Z > step+1 {
				t.Errorf("particle %d respawned from z=%v", i, before.Z)
			}
			if after.Z != tu.DepthMax {
				t.Errorf("respawned z = %v, want %v", after.Z, tu.DepthMax)
			}
		default:
			t.Errorf("particle %d: unexpected outcome %v", i, out)
		}
	}
}

func TestRespawnInvariant(t *testing.T) {
	tu, sp, sim := newTestSim(DefaultTuning(), 2)
	surf := Configure(800, 600, 1)
	ps := NewStore(sp).Populate(200, surf)
	ptrs := []Pointer{{X: 0, Y: 0}, {X: 800, Y: 600}, {X: 400, Y: 300}, {X: -50, Y: 900}}

	for frame := 0; frame < 600; frame++ {
		dt := []float64{0, 16, 33, 1000}[frame%4]
		for i := range ps {
			sim.Advance(&ps[i], dt, ptrs[frame%len(ptrs)], surf)
			if ps[i].Z <= 1 || ps[i].Z > tu.DepthMax {
				t.Fatalf("frame %d particle %d: z = %v outside (1, %v]", frame, i, ps[i].Z, tu.DepthMax)
			}
		}
	}
}

func TestAdvanceRespawnsAtNearPlane(t *testing.T) {
	tu, _, sim := newTestSim(DefaultTuning(), 3)
	surf := Configure(640, 480, 1)
	p := Particle{Z: 2}

	if out := sim.Advance(&p, 16, Pointer{X: 320, Y: 240}, surf); out != Respawned {
		t.Fatalf("outcome = %v, want Respawned", out)
	}
	if p.Z != tu.DepthMax {
		t.Errorf("z = %v, want far plane %v", p.Z, tu.DepthMax)
	}
	if math.Abs(p.X) > surf.Width/2 || math.Abs(p.Y) > surf.Height/2 {
		t.Errorf("respawn outside surface: (%v, %v)", p.X, p.Y)
	}
}

func TestAdvanceZeroDtStillRespawns(t *testing.T) {
	_, _, sim := newTestSim(DefaultTuning(), 4)
	p := Particle{Z: 0.5}
	if out := sim.Advance(&p, 0, Pointer{}, Configure(100, 100, 1)); out != Respawned {
		t.Errorf("outcome = %v, want Respawned", out)
	}
}

func TestDtClamping(t *testing.T) {
	tu, _, sim := newTestSim(DefaultTuning(), 5)
	surf := Configure(1000, 1000, 1)
	ptr := Pointer{X: 1000, Y: 0}
	start := Particle{X: 10, Y: -20, Z: 1500}

	a, b := start, start
	sim.Advance(&a, 10000, ptr, surf)
	sim.Advance(&b, tu.DtMax, ptr, surf)
	if a != b {
		t.Errorf("dt=10000 gave %+v, dt=%v gave %+v", a, tu.DtMax, b)
	}

	c := start
	sim.Advance(&c, -5, ptr, surf)
	if c != start {
		t.Errorf("negative dt moved the particle: %+v", c)
	}
	d := start
	sim.Advance(&d, math.NaN(), ptr, surf)
	if d != start {
		t.Errorf("NaN dt moved the particle: %+v", d)
	}
}

func TestDriftParallax(t *testing.T) {
	tu, _, sim := newTestSim(DefaultTuning(), 6)
	surf := Configure(1000, 500, 1)
	ptr := Pointer{X: 1000, Y: 0} // mx = 0.5, my = -0.5

	near := Particle{Z: 400}
	far := Particle{Z: 1200}
	sim.Advance(&near, 16, ptr, surf)
	sim.Advance(&far, 16, ptr, surf)

	wantNear := 0.5 * tu.Drift * 16 * (1 - 400.0/tu.DepthMax)
	if math.Abs(near.X-wantNear) > 1e-9 {
		t.Errorf("near x = %v, want %v", near.X, wantNear)
	}
	if math.Abs(near.Y+wantNear) > 1e-9 {
		t.Errorf("near y = %v, want %v", near.Y, -wantNear)
	}
	if math.Abs(near.X) <= math.Abs(far.X) {
		t.Errorf("near particle should drift more: near %v far %v", near.X, far.X)
	}
}

func TestReducedMotionNoDrift(t *testing.T) {
	tu, _, sim := newTestSim(TuningFor(PresetStarfield, true, false), 7)
	if tu.Drift != 0 || tu.Count != 140 {
		t.Fatalf("reduced motion tuning: drift %v count %d", tu.Drift, tu.Count)
	}
	p := Particle{X: 5, Y: 5, Z: 800}
	sim.Advance(&p, 16, Pointer{X: 0, Y: 0}, Configure(1920, 1080, 1))
	if p.X != 5 || p.Y != 5 {
		t.Errorf("particle drifted under reduced motion: %+v", p)
	}
}

func TestCoarsePointerNoDrift(t *testing.T) {
	tu := TuningFor(PresetStarfield, false, true)
	if tu.Drift != 0 {
		t.Errorf("Drift = %v with coarse pointer", tu.Drift)
	}
	if tu.Count != CountDefault {
		t.Errorf("Count = %d, coarse pointer must not change population", tu.Count)
	}
}

func TestAdvanceRecoversNonFinite(t *testing.T) {
	tu, _, sim := newTestSim(DefaultTuning(), 8)
	surf := Configure(300, 300, 1)
	p := Particle{X: math.Inf(1), Z: 500}

	if out := sim.Advance(&p, 16, Pointer{}, surf); out != Recovered {
		t.Fatalf("outcome = %v, want Recovered", out)
	}
	if !p.finite() || p.Z != tu.DepthMax {
		t.Errorf("recovered particle = %+v", p)
	}
}

func TestBounceReflectsAtEdges(t *testing.T) {
	_, _, sim := newTestSim(TuningFor(PresetFlat, false, true), 9)
	surf := Configure(200, 100, 1)

	p := Particle{X: 99.9, Y: 0, VX: 1.5}
	sim.Advance(&p, frameMillis, Pointer{X: 100, Y: 50}, surf)
	if p.VX >= 0 {
		t.Errorf("VX = %v after hitting the right edge", p.VX)
	}
	if p.X > 100 {
		t.Errorf("X = %v escaped the surface", p.X)
	}

	q := Particle{X: 0, Y: -49.5, VY: -1}
	sim.Advance(&q, frameMillis, Pointer{X: 100, Y: 50}, surf)
	if q.VY <= 0 {
		t.Errorf("VY = %v after hitting the top edge", q.VY)
	}
}

func TestBounceSpeedClamp(t *testing.T) {
	tu, _, sim := newTestSim(TuningFor(PresetFlat, false, false), 10)
	p := Particle{VX: 30, VY: 40}
	sim.Advance(&p, frameMillis, Pointer{}, Configure(1000, 1000, 1))
	if s := math.Hypot(p.VX, p.VY); s > tu.MaxSpeed+1e-9 {
		t.Errorf("speed = %v, want <= %v", s, tu.MaxSpeed)
	}
}

func TestBounceAttraction(t *testing.T) {
	_, _, sim := newTestSim(TuningFor(PresetFlat, false, false), 11)
	surf := Configure(400, 400, 1)
	// pointer 50px to the right of a resting particle at the centre
	p := Particle{}
	sim.Advance(&p, frameMillis, Pointer{X: 250, Y: 200, Seen: true}, surf)
	if p.VX <= 0 || p.VY != 0 {
		t.Errorf("velocity = (%v, %v), want pull toward +x", p.VX, p.VY)
	}

	q := Particle{}
	sim.Advance(&q, frameMillis, Pointer{X: 390, Y: 200, Seen: true}, surf)
	if q.VX != 0 {
		t.Errorf("particle outside capture radius was attracted: VX = %v", q.VX)
	}
}

func TestBounceIgnoresUnseenPointer(t *testing.T) {
	_, _, sim := newTestSim(TuningFor(PresetFlat, false, false), 13)
	surf := Configure(400, 400, 1)
	// same geometry as above, but no pointer move has been reported
	p := Particle{}
	sim.Advance(&p, frameMillis, Pointer{X: 250, Y: 200}, surf)
	if p.VX != 0 || p.VY != 0 {
		t.Errorf("velocity = (%v, %v), want no pull before the first move", p.VX, p.VY)
	}
}

func TestBounceKeepsDepthZero(t *testing.T) {
	_, sp, sim := newTestSim(TuningFor(PresetFlat, false, false), 12)
	surf := Configure(640, 360, 1)
	ps := NewStore(sp).Populate(CountFlat, surf)
	for frame := 0; frame < 100; frame++ {
		for i := range ps {
			if out := sim.Advance(&ps[i], 16, Pointer{X: 320, Y: 180, Seen: true}, surf); out != Moved {
				t.Fatalf("outcome %v under bounce policy", out)
			}
		}
	}
	for i, p := range ps {
		if p.Z != 0 {
			t.Fatalf("particle %d z = %v", i, p.Z)
		}
		if math.Abs(p.X) > 320 || math.Abs(p.Y) > 180 {
			t.Fatalf("particle %d escaped: (%v, %v)", i, p.X, p.Y)
		}
	}
}
