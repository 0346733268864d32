package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/fabricsim/internal/cloth"
)

type countMetric struct {
	name string
	n    int
}

func (c *countMetric) Name() string                { return c.name }
func (c *countMetric) Observe(s *cloth.Simulation) { c.n++ }
func (c *countMetric) Value() float64              { return float64(c.n) }
func (c *countMetric) Reset()                      { c.n = 0 }

func newTestSim(t *testing.T, gravity float64) *cloth.Simulation {
	t.Helper()
	cfg := cloth.DefaultSettings()
	cfg.Rows, cfg.Cols = 5, 5
	if err := cfg.Params.Set(cloth.ParamGravity, gravity, true); err != nil {
		t.Fatal(err)
	}
	s, err := cloth.New(cfg)
	if err != nil {
		t.Fatalf("cloth.New: %v", err)
	}
	return s
}

func TestRunnerRun(t *testing.T) {
	r := New(newTestSim(t, 0.4))
	m := &countMetric{name: "count"}
	r.AddMetric(m)

	var seen int
	r.AddObserver(ObserverFunc(func(*cloth.Simulation) { seen++ }))

	result, err := r.Run(context.Background(), Config{Steps: 20, SampleEvery: 5, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 20 {
		t.Errorf("expected 20 steps, got %d", result.StepsTaken)
	}
	if seen != 20 {
		t.Errorf("expected observer called 20 times, got %d", seen)
	}
	if result.Metrics["count"] != 20 {
		t.Errorf("expected metric 20, got %f", result.Metrics["count"])
	}
	series := result.Series["count"]
	want := []float64{5, 10, 15, 20}
	if len(series) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(series))
	}
	for i := range want {
		if series[i] != want[i] {
			t.Errorf("sample %d: expected %f, got %f", i, want[i], series[i])
		}
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
	if r.Simulation().StepIndex() != 20 {
		t.Errorf("expected step index 20, got %d", r.Simulation().StepIndex())
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	r := New(newTestSim(t, 0))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero steps", Config{Steps: 0}},
		{"negative steps", Config{Steps: -5}},
		{"negative sampling", Config{Steps: 5, SampleEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestRunnerCancelled(t *testing.T) {
	r := New(newTestSim(t, 0.4))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, Config{Steps: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected partial result with 0 steps, got %+v", result)
	}
}

func TestRunnerMetricsReset(t *testing.T) {
	r := New(newTestSim(t, 0.4))
	m := &countMetric{name: "count"}
	r.AddMetric(m)

	for i := 0; i < 2; i++ {
		result, err := r.Run(context.Background(), Config{Steps: 7})
		if err != nil {
			t.Fatal(err)
		}
		if result.Metrics["count"] != 7 {
			t.Errorf("run %d: expected 7, got %f", i, result.Metrics["count"])
		}
		if len(result.Series["count"]) != 0 {
			t.Errorf("run %d: expected no samples when sampling is off", i)
		}
	}
}

func TestFirstInvalid(t *testing.T) {
	ps := make([]cloth.Particle, 3)
	if _, ok := firstInvalid(ps); ok {
		t.Error("expected all finite")
	}
	ps[2].Pos.Y = math.Inf(1)
	if i, ok := firstInvalid(ps); !ok || i != 2 {
		t.Errorf("expected particle 2 invalid, got %d %v", i, ok)
	}
}
