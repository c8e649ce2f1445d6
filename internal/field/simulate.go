package field

import "math"

// Outcome tells what Advance did to a particle.
type Outcome int

const (
	Moved Outcome = iota
	// Respawned means the particle reached the near plane and was redrawn
	// on the far plane.
	Respawned
	// Recovered means the update produced a non-finite coordinate and the
	// particle was respawned instead.
	Recovered
)

// Simulator advances particles under the policy of its Tuning.
type Simulator struct {
	t     *Tuning
	spawn *Spawner
}

// NewSimulator returns a simulator that respawns through sp.
func NewSimulator(t *Tuning, sp *Spawner) *Simulator {
	return &Simulator{t: t, spawn: sp}
}

// ClampDt bounds a frame delta in milliseconds to [0, DtMax].
func (sm *Simulator) ClampDt(dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	return math.Min(dt, sm.t.DtMax)
}

// Advance moves p by dtMillis in place. The returned particle state never has
// z <= 1 under PolicyStarfield.
func (sm *Simulator) Advance(p *Particle, dtMillis float64, ptr Pointer, surf Surface) Outcome {
	dt := sm.ClampDt(dtMillis)

	switch sm.t.Policy {
	case PolicyBounce:
		sm.bounce(p, dt, ptr, surf)
	default:
		sm.starfield(p, dt, ptr, surf)
	}

	if !p.finite() {
		*p = sm.spawn.Spawn(surf, true)
		return Recovered
	}
	if sm.t.Policy == PolicyStarfield && p.Z <= 1 {
		*p = sm.spawn.Spawn(surf, true)
		return Respawned
	}
	return Moved
}

func (sm *Simulator) starfield(p *Particle, dt float64, ptr Pointer, surf Surface) {
	t := sm.t
	mx := (ptr.X - surf.Width/2) / surf.Width
	my := (ptr.Y - surf.Height/2) / surf.Height

	// Near particles respond more to the pointer.
	depthFactor := 1 - p.Z/t.DepthMax

	p.X += mx * t.Drift * dt * depthFactor
	p.Y += my * t.Drift * dt * depthFactor
	p.Z -= t.Speed * dt
}

func (sm *Simulator) bounce(p *Particle, dt float64, ptr Pointer, surf Surface) {
	t := sm.t
	f := dt / frameMillis

	p.X += p.VX * f
	p.Y += p.VY * f

	hw, hh := surf.Width/2, surf.Height/2
	if p.X < -hw {
		p.X, p.VX = -hw, math.Abs(p.VX)
	} else if p.X > hw {
		p.X, p.VX = hw, -math.Abs(p.VX)
	}
	if p.Y < -hh {
		p.Y, p.VY = -hh, math.Abs(p.VY)
	} else if p.Y > hh {
		p.Y, p.VY = hh, -math.Abs(p.VY)
	}

	if ptr.Seen && t.AttractGain > 0 && t.CaptureRadius > 0 {
		dx := (ptr.X - hw) - p.X
		dy := (ptr.Y - hh) - p.Y
		d := math.Hypot(dx, dy)
		if d > 0 && d < t.CaptureRadius {
			force := (t.CaptureRadius - d) / t.CaptureRadius
			p.VX += dx / d * force * t.AttractGain * f
			p.VY += dy / d * force * t.AttractGain * f
		}
	}

	if speed := math.Hypot(p.VX, p.VY); speed > t.MaxSpeed {
		p.VX = p.VX / speed * t.MaxSpeed
		p.VY = p.VY / speed * t.MaxSpeed
	}
}
