package cloth

import "math"

const (
	// SelectRadius is the pick distance in screen units.
	SelectRadius = 10.0
	// FlickFactor scales pointer velocity into implied particle velocity.
	FlickFactor = 0.2
)

// Projector maps between world space and screen space for picking.
type Projector interface {
	Project(p Vec3) (sx, sy float64)
	// Unproject returns the world point under (sx, sy) at the same view
	// depth as ref.
	Unproject(sx, sy float64, ref Vec3) Vec3
}

// PerspectiveProjector is a camera on the Z axis looking at the origin
// with a 60 degree vertical field of view.
type PerspectiveProjector struct {
	Width, Height float64
}

func (p PerspectiveProjector) eyeDistance() float64 {
	return (p.Height / 2) / math.Tan(math.Pi/6)
}

func (p PerspectiveProjector) Project(v Vec3) (float64, float64) {
	d := p.eyeDistance()
	factor := (d + v.Z) / d
	if math.Abs(factor) < MinDistance {
		return p.Width / 2, p.Height / 2
	}
	return v.X/factor + p.Width/2, v.Y/factor + p.Height/2
}

func (p PerspectiveProjector) Unproject(sx, sy float64, ref Vec3) Vec3 {
	d := p.eyeDistance()
	factor := (d + ref.Z) / d
	return Vec3{(sx - p.Width/2) * factor, (sy - p.Height/2) * factor, ref.Z}
}

type dragState struct {
	index        int
	lastX, lastY float64
	velX, velY   float64
}

func (d *dragState) clear() {
	*d = dragState{index: -1}
}

// SelectAt picks the particle nearest to the screen point within
// SelectRadius. It only acts in drag interaction mode.
func (s *Simulation) SelectAt(sx, sy float64) (int, bool) {
	if s.interaction != InteractDrag {
		return -1, false
	}
	s.releaseSelection()
	s.drag.lastX, s.drag.lastY = sx, sy

	best, bestDist := -1, SelectRadius
	for i, p := range s.mesh.Particles {
		px, py := s.projector.Project(p.Pos)
		if d := math.Hypot(px-sx, py-sy); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return -1, false
	}
	s.drag.index = best
	if p := &s.mesh.Particles[best]; !p.Pinned {
		p.Driven = true
	}
	return best, true
}

// DragTo moves the selected particle under the pointer and implies a
// velocity from the pointer's motion since the last sample.
func (s *Simulation) DragTo(sx, sy float64) {
	if s.interaction != InteractDrag || s.drag.index < 0 {
		return
	}
	s.drag.velX, s.drag.velY = sx-s.drag.lastX, sy-s.drag.lastY
	s.drag.lastX, s.drag.lastY = sx, sy

	p := &s.mesh.Particles[s.drag.index]
	if p.Pinned {
		return
	}
	target := s.projector.Unproject(sx, sy, p.Pos)
	dz := target.Z - p.Pos.Z
	p.Pos = target
	p.Prev.X = p.Pos.X - s.drag.velX*FlickFactor
	p.Prev.Y = p.Pos.Y - s.drag.velY*FlickFactor
	p.Prev.Z += dz
}

// ReleaseDrag flicks the selected particle with the last pointer velocity
// and hands it back to the integrator.
func (s *Simulation) ReleaseDrag() {
	if s.drag.index < 0 {
		return
	}
	p := &s.mesh.Particles[s.drag.index]
	if !p.Pinned {
		p.Prev.X = p.Pos.X - s.drag.velX*FlickFactor
		p.Prev.Y = p.Pos.Y - s.drag.velY*FlickFactor
	}
	s.releaseSelection()
}

// releaseSelection drops the selection without a flick.
func (s *Simulation) releaseSelection() {
	if s.drag.index >= 0 && s.drag.index < len(s.mesh.Particles) {
		s.mesh.Particles[s.drag.index].Driven = false
	}
	s.drag.clear()
}

// Selected returns the held particle, if any.
func (s *Simulation) Selected() (int, bool) {
	return s.drag.index, s.drag.index >= 0
}
