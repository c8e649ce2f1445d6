package field

// Store owns the ordered particle collection. Order is draw order.
type Store struct {
	particles []Particle
	spawner   *Spawner
}

// NewStore returns an empty store drawing from sp.
func NewStore(sp *Spawner) *Store {
	return &Store{spawner: sp}
}

// Populate replaces the collection with count freshly spawned particles.
// The backing array is reused when it is large enough.
func (st *Store) Populate(count int, surf Surface) []Particle {
	if count < 0 {
		count = 0
	}
	if cap(st.particles) >= count {
		st.particles = st.particles[:count]
	} else {
		st.particles = make([]Particle, count)
	}
	for i := range st.particles {
		st.particles[i] = st.spawner.Spawn(surf, false)
	}
	return st.particles
}

// Respawn redraws particle i on the far plane.
func (st *Store) Respawn(i int, surf Surface) {
	st.particles[i] = st.spawner.Spawn(surf, true)
}

// Particles returns the live collection. Callers may mutate entries in place.
func (st *Store) Particles() []Particle { return st.particles }

// Len returns the population size.
func (st *Store) Len() int { return len(st.particles) }
