package viz

import "github.com/charmbracelet/harmonica"

// springField eases a fixed set of values toward their targets, one
// critically damped spring per value.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int, frequency, damping float64, initial ...float64) springField {
	f := springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
	f.pos = append([]float64(nil), initial...)
	f.vel = make([]float64, len(initial))
	return f
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

// snap jumps value i to target with no residual motion.
func (s *springField) snap(i int, target float64) {
	s.pos[i] = target
	s.vel[i] = 0
}
