package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/fabricsim/internal/cloth"
)

// Runner drives a Simulation headlessly and collects metrics.
type Runner struct {
	sim       *cloth.Simulation
	metrics   []Metric
	observers []Observer
}

func New(s *cloth.Simulation) *Runner {
	return &Runner{
		sim:       s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) Simulation() *cloth.Simulation { return r.sim }

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64),
		Errors:  make([]error, 0),
	}
	if cfg.SampleEvery > 0 {
		for _, m := range r.metrics {
			result.Series[m.Name()] = make([]float64, 0, cfg.Steps/cfg.SampleEvery)
		}
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			r.collect(result)
			return result, ctx.Err()
		default:
		}

		r.sim.Step()
		result.StepsTaken++

		for _, m := range r.metrics {
			m.Observe(r.sim)
		}
		for _, obs := range r.observers {
			obs.OnStep(r.sim)
		}
		if cfg.SampleEvery > 0 && result.StepsTaken%cfg.SampleEvery == 0 {
			for _, m := range r.metrics {
				result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
			}
		}

		if cfg.ValidateState {
			if i, ok := firstInvalid(r.sim.Particles()); ok {
				result.Errors = append(result.Errors, StepError{
					Step:    r.sim.StepIndex(),
					Message: fmt.Sprintf("particle %d is not finite", i),
				})
				break
			}
		}
	}

	r.collect(result)
	return result, nil
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", cfg.SampleEvery)
	}
	return nil
}

func firstInvalid(ps []cloth.Particle) (int, bool) {
	for i, p := range ps {
		if !p.Pos.IsFinite() {
			return i, true
		}
	}
	return -1, false
}
