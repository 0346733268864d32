package metrics

import "github.com/san-kum/fabricsim/internal/sim"

// DefaultStabilityBound is far outside any reachable cloth position.
const DefaultStabilityBound = 1e6

// Default returns a fresh instance of every cloth metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewStrain(),
		NewKineticEnergy(),
		NewStress(),
		NewStability(DefaultStabilityBound),
		NewDragEffort(),
	}
}
