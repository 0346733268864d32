package metrics

import (
	"math"

	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/sim"
)

var _ sim.Metric = (*Strain)(nil)

// Strain is the largest relative constraint violation |len-rest|/rest in
// the most recent observation. Peak keeps the worst value seen.
type Strain struct {
	name    string
	current float64
	peak    float64
}

func NewStrain() *Strain {
	return &Strain{name: "strain"}
}

func (s *Strain) Name() string { return s.name }

func (s *Strain) Observe(c *cloth.Simulation) {
	s.current = MaxStrain(c.Particles(), c.Constraints())
	s.peak = math.Max(s.peak, s.current)
}

func (s *Strain) Value() float64 { return s.current }
func (s *Strain) Peak() float64  { return s.peak }

func (s *Strain) Reset() {
	s.current = 0
	s.peak = 0
}

// MaxStrain returns max |len-rest|/rest over cs. Zero-length constraints
// are ignored.
func MaxStrain(ps []cloth.Particle, cs []cloth.Constraint) float64 {
	var worst float64
	for _, c := range cs {
		if c.RestLength <= 0 {
			continue
		}
		l := ps[c.A].Pos.Dist(ps[c.B].Pos)
		worst = math.Max(worst, math.Abs(l-c.RestLength)/c.RestLength)
	}
	return worst
}
