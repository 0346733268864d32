package metrics

import (
	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/sim"
)

var _ sim.Metric = (*KineticEnergy)(nil)

// KineticEnergy is sum(|pos-prev|^2)/2 over all particles, with unit mass
// and the implied per-step velocity.
type KineticEnergy struct {
	name    string
	current float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(c *cloth.Simulation) {
	e.current = Kinetic(c.Particles())
}

func (e *KineticEnergy) Value() float64 { return e.current }
func (e *KineticEnergy) Reset()         { e.current = 0 }

func Kinetic(ps []cloth.Particle) float64 {
	var sum float64
	for _, p := range ps {
		v := p.Pos.Sub(p.Prev)
		sum += 0.5 * (v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	}
	return sum
}
