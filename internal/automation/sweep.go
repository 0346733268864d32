package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/metrics"
	"github.com/san-kum/fabricsim/internal/sim"
)

// ParameterSweep runs one simulation per evenly spaced value of a
// parameter, all starting from Base.
type ParameterSweep struct {
	Base      cloth.Settings
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Steps     int
}

// SweepResult summarises one sweep point
type SweepResult struct {
	ParamValue  float64
	PeakStrain  float64
	FinalEnergy float64
	MeanStress  float64
	Stability   float64
}

// RunSweep executes the sweep concurrently and returns results in
// parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one point, got %d", sweep.NumSteps)
	}
	id, err := cloth.ParseParam(sweep.ParamName)
	if err != nil {
		return nil, err
	}

	values := make([]float64, sweep.NumSteps)
	members := make([]sim.Member, sweep.NumSteps)
	for i := range values {
		values[i] = sweep.ParamMin
		if sweep.NumSteps > 1 {
			values[i] += float64(i) * (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
		}
		s := sweep.Base
		if err := s.Params.Set(id, values[i], true); err != nil {
			return nil, err
		}
		members[i] = sim.Member{Name: fmt.Sprintf("%s=%.4f", id, values[i]), Settings: s}
	}

	e := sim.NewEnsemble(members, func() []sim.Metric {
		return []sim.Metric{
			metrics.NewStrain(),
			metrics.NewKineticEnergy(),
			metrics.NewStress(),
			metrics.NewStability(metrics.DefaultStabilityBound),
		}
	})
	runs, err := e.Run(ctx, sim.Config{Steps: sweep.Steps, ValidateState: true, SampleEvery: 1})
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{
			ParamValue:  values[i],
			PeakStrain:  peak(r.Series["strain"]),
			FinalEnergy: r.Metrics["kinetic_energy"],
			MeanStress:  r.Metrics["stress"],
			Stability:   r.Metrics["stability"],
		}
	}
	return results, nil
}

func peak(xs []float64) float64 {
	var m float64
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
