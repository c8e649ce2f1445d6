package field

import (
	"math"
	"math/rand"
)

// Particle is one star of the field. X and Y are relative to the surface
// centre; Z is the distance from the viewer in [0, DepthMax].
type Particle struct {
	X, Y, Z float64
	VX, VY  float64 // pixels per reference frame, PolicyBounce only
	Radius  float64
	Hue     float64 // degrees
	Opacity float64
	Phase   float64 // pulse phase, radians
	Pulse   float64 // pulse frequency, Hz
}

// finite reports whether every coordinate is a real number.
func (p *Particle) finite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z) && isFinite(p.VX) && isFinite(p.VY)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Spawner draws particle attributes from the distributions of a Tuning.
type Spawner struct {
	t   *Tuning
	rng *rand.Rand
}

// NewSpawner creates a spawner with its own random source.
func NewSpawner(t *Tuning, seed int64) *Spawner {
	return &Spawner{
		t:   t,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Spawn draws a fresh particle. With far set the particle starts on the far
// plane (respawn); otherwise its depth is uniform on (0, DepthMax] so the
// field is already in flight.
func (s *Spawner) Spawn(surf Surface, far bool) Particle {
	t := s.t
	p := Particle{
		X:       (s.rng.Float64() - 0.5) * surf.Width,
		Y:       (s.rng.Float64() - 0.5) * surf.Height,
		Radius:  t.RadiusMin + s.rng.Float64()*(t.RadiusMax-t.RadiusMin),
		Hue:     s.hue(),
		Opacity: 0.2 + s.rng.Float64()*0.5,
		Phase:   s.rng.Float64() * 2 * math.Pi,
		Pulse:   0.5 + s.rng.Float64(),
	}

	switch t.Policy {
	case PolicyBounce:
		p.VX = (s.rng.Float64() - 0.5) * 0.5
		p.VY = (s.rng.Float64() - 0.5) * 0.5
	default:
		if far {
			p.Z = t.DepthMax
		} else {
			p.Z = (1 - s.rng.Float64()) * t.DepthMax
		}
	}
	return p
}

// hue picks one of the palette bands, then a hue inside it.
func (s *Spawner) hue() float64 {
	band := s.t.HueBands[s.rng.Intn(len(s.t.HueBands))]
	return band[0] + s.rng.Float64()*(band[1]-band[0])
}
