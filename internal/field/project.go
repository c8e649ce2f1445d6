package field

// ScreenPoint is a projected particle in logical surface pixels.
type ScreenPoint struct {
	X, Y  float64
	Scale float64
}

// Project maps p to the screen with perspective division:
// scale = fov/(fov+z), screen = (x, y)*scale + centre.
func Project(p Particle, surf Surface, fov float64) ScreenPoint {
	scale := fov / (fov + p.Z)
	return ScreenPoint{
		X:     p.X*scale + surf.Width/2,
		Y:     p.Y*scale + surf.Height/2,
		Scale: scale,
	}
}

// Visible reports whether sp lies within margin pixels of the surface and
// has finite, positive scale.
func (sp ScreenPoint) Visible(surf Surface, margin float64) bool {
	if !isFinite(sp.X) || !isFinite(sp.Y) || !isFinite(sp.Scale) || sp.Scale <= 0 {
		return false
	}
	return sp.X >= -margin && sp.X <= surf.Width+margin &&
		sp.Y >= -margin && sp.Y <= surf.Height+margin
}
