package automation

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/config"
	"github.com/san-kum/fabricsim/internal/metrics"
)

const drapeScenario = `
name: drape
description: drop a cotton square on the sphere, then drag a corner
steps:
  - name: setup
    preset: cotton
    placement: draped
    grid: {rows: 6, cols: 6}
    params:
      iterations: {value: 5, enabled: true}
  - name: settle
    advance: 20
  - name: grab
    placement: plane
    interaction: drag
    drag:
      select: [330, 250]
      points: [[320, 240], [310, 230]]
      release: true
  - name: pause
    pause: true
    advance: 5
`

func newSim(t *testing.T) *cloth.Simulation {
	t.Helper()
	s, err := cloth.New(cloth.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(drapeScenario))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	if sc.Name != "drape" || len(sc.Steps) != 4 {
		t.Errorf("expected drape with 4 steps, got %q with %d", sc.Name, len(sc.Steps))
	}
	if sc.Steps[0].Grid == nil || sc.Steps[0].Grid.Rows != 6 {
		t.Error("expected grid on first step")
	}
	if p := sc.Steps[0].Params["iterations"]; !p.Enabled || p.Value != 5 {
		t.Errorf("unexpected iterations param %+v", p)
	}
	if sc.Steps[2].Drag == nil || len(sc.Steps[2].Drag.Points) != 2 {
		t.Error("expected a two point drag")
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "name: x\n", ErrEmptyScenario},
		{"negative advance", "steps:\n  - advance: -1\n", ErrInvalidStep},
		{"pause and resume", "steps:\n  - pause: true\n    resume: true\n", ErrInvalidStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScenario([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drape.yaml")
	if err := os.WriteFile(path, []byte(drapeScenario), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.Name != "drape" {
		t.Errorf("expected drape, got %q", sc.Name)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(drapeScenario))
	if err != nil {
		t.Fatal(err)
	}
	s := newSim(t)
	reports, err := RunScenario(context.Background(), sc, s, log.New(io.Discard), metrics.Default)
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if len(reports) != 4 {
		t.Fatalf("expected 4 reports, got %d", len(reports))
	}

	if reports[1].Steps != 20 {
		t.Errorf("expected 20 steps in settle, got %d", reports[1].Steps)
	}
	if _, ok := reports[1].Metrics["strain"]; !ok {
		t.Error("expected strain in settle report")
	}
	if !reports[2].Selected {
		t.Error("expected the drag to pick a particle")
	}
	if _, ok := s.Selected(); ok {
		t.Error("expected the drag to be released")
	}

	if s.Running() {
		t.Error("expected simulation paused")
	}
	if got := s.Params().Effective(cloth.ParamDamping); got != config.GetPreset("cotton").Damping {
		t.Errorf("expected cotton damping, got %f", got)
	}
	if s.Rows() != 6 || s.InteractionMode() != cloth.InteractDrag {
		t.Errorf("unexpected final state rows=%d interaction=%v", s.Rows(), s.InteractionMode())
	}
}

func TestRunScenario_StepErrors(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
		want error
	}{
		{"preset", ScenarioStep{Preset: "burlap"}, config.ErrUnknownPreset},
		{"placement", ScenarioStep{Placement: "hover"}, cloth.ErrUnknownMode},
		{"grid", ScenarioStep{Grid: &Grid{Rows: 1, Cols: 4}}, cloth.ErrGridTooSmall},
		{"param", ScenarioStep{Params: map[string]cloth.Param{"iterations": {Value: 0, Enabled: true}}}, cloth.ErrParameterBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &Scenario{Steps: []ScenarioStep{{Advance: 1}, tt.step}}
			reports, err := RunScenario(context.Background(), sc, newSim(t), log.New(io.Discard), nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if len(reports) != 1 {
				t.Errorf("expected the first step reported, got %d", len(reports))
			}
		})
	}
}

func TestRunSweep(t *testing.T) {
	base := cloth.DefaultSettings()
	base.Rows, base.Cols = 5, 5
	_ = base.Params.Set(cloth.ParamGravity, 0.4, true)

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "weight",
		ParamMin:  0.5,
		ParamMax:  1.5,
		NumSteps:  3,
		Steps:     15,
	})
	if err != nil {
		t.Fatalf("RunSweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []float64{0.5, 1.0, 1.5}
	for i, r := range results {
		if r.ParamValue != want[i] {
			t.Errorf("point %d: expected %f, got %f", i, want[i], r.ParamValue)
		}
		if r.Stability != 1 {
			t.Errorf("point %d: expected stable run, got %f", i, r.Stability)
		}
		if r.PeakStrain <= 0 {
			t.Errorf("point %d: expected positive strain", i)
		}
	}
}

func TestRunSweep_Invalid(t *testing.T) {
	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: cloth.DefaultSettings(), ParamName: "viscosity", NumSteps: 2, Steps: 1}); !errors.Is(err, cloth.ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: cloth.DefaultSettings(), ParamName: "weight", NumSteps: 0}); err == nil {
		t.Error("expected error for empty sweep")
	}
}

func TestApplyParams(t *testing.T) {
	s := newSim(t)
	err := applyParams(s, map[string]cloth.Param{
		"stretch":        {Value: 2, Enabled: true},
		"stretch-factor": {Value: 1.5, Enabled: true},
		"gravity":        {Value: 0.3, Enabled: true},
	})
	if err != nil {
		t.Fatalf("applyParams: %v", err)
	}
	if got := s.Params().Effective(cloth.ParamStretch); got != 1.5 {
		t.Errorf("expected the canonical stretch 1.5, got %f", got)
	}
	if got := s.Params().Effective(cloth.ParamGravity); got != 0.3 {
		t.Errorf("expected gravity 0.3, got %f", got)
	}
}

func TestApplyParams_AllOrNothing(t *testing.T) {
	s := newSim(t)
	before := s.Params()
	err := applyParams(s, map[string]cloth.Param{
		"bending":    {Value: 1.4, Enabled: true},
		"gravity":    {Value: 0.3, Enabled: true},
		"iterations": {Value: 0, Enabled: true},
		"wind-x":     {Value: 0.5, Enabled: true},
	})
	if !errors.Is(err, cloth.ErrParameterBounds) {
		t.Fatalf("expected ErrParameterBounds, got %v", err)
	}
	if s.Params() != before {
		t.Error("a rejected step must not apply any of its params")
	}
}
