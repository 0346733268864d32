package metrics

import (
	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/sim"
)

var _ sim.Metric = (*Stability)(nil)

// Stability is the fraction of observed steps where every particle was
// finite and within bound of the origin.
type Stability struct {
	name       string
	bound      float64
	violations int
	samples    int
}

func NewStability(bound float64) *Stability {
	return &Stability{
		name:  "stability",
		bound: bound,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(c *cloth.Simulation) {
	s.samples++
	for _, p := range c.Particles() {
		if !p.Pos.IsFinite() || p.Pos.Length() > s.bound {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
