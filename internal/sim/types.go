package sim

import (
	"fmt"

	"github.com/san-kum/fabricsim/internal/cloth"
)

// Metric accumulates a scalar over the steps of a run.
type Metric interface {
	Name() string
	Observe(s *cloth.Simulation)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *cloth.Simulation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *cloth.Simulation)

func (f ObserverFunc) OnStep(s *cloth.Simulation) { f(s) }

type Config struct {
	Steps         int
	ValidateState bool
	// SampleEvery records each metric's running value into Result.Series
	// every n steps. Zero disables sampling.
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Steps:         300,
		ValidateState: true,
		SampleEvery:   1,
	}
}

type Result struct {
	StepsTaken int
	Metrics    map[string]float64
	Series     map[string][]float64
	Errors     []error
}

type StepError struct {
	Step    int64
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}
