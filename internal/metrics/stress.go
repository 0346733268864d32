package metrics

import (
	"math"

	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/sim"
)

var _ sim.Metric = (*Stress)(nil)

// Stress is the mean absolute cell stress of the latest observation.
type Stress struct {
	name    string
	current float64
}

func NewStress() *Stress {
	return &Stress{name: "stress"}
}

func (s *Stress) Name() string { return s.name }

func (s *Stress) Observe(c *cloth.Simulation) {
	s.current = MeanAbs(c.Stress())
}

func (s *Stress) Value() float64 { return s.current }
func (s *Stress) Reset()         { s.current = 0 }

func MeanAbs(grid [][]float64) float64 {
	var sum float64
	var n int
	for _, row := range grid {
		for _, v := range row {
			sum += math.Abs(v)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
