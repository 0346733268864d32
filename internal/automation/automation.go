package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/config"
	"github.com/san-kum/fabricsim/internal/sim"
)

var (
	ErrEmptyScenario = errors.New("automation: scenario has no steps")
	ErrInvalidStep   = errors.New("automation: invalid step")
)

// Scenario defines a scripted sequence of cloth changes and steps
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is applied in field order: preset, modes, grid, params,
// reset, pause/resume, drag, then Advance simulation steps.
type ScenarioStep struct {
	Name        string                 `yaml:"name"`
	Preset      string                 `yaml:"preset"`
	Placement   string                 `yaml:"placement"`
	Form        string                 `yaml:"form"`
	Pinning     string                 `yaml:"pinning"`
	Interaction string                 `yaml:"interaction"`
	Grid        *Grid                  `yaml:"grid"`
	Params      map[string]cloth.Param `yaml:"params"`
	Reset       bool                   `yaml:"reset"`
	Pause       bool                   `yaml:"pause"`
	Resume      bool                   `yaml:"resume"`
	Drag        *Gesture               `yaml:"drag"`
	Advance     int                    `yaml:"advance"`
}

type Grid struct {
	Rows    int     `yaml:"rows"`
	Cols    int     `yaml:"cols"`
	Spacing float64 `yaml:"spacing"`
}

// Gesture is a pointer drag in screen coordinates. The cloth is stepped
// once after each point.
type Gesture struct {
	Select  [2]float64   `yaml:"select"`
	Points  [][2]float64 `yaml:"points"`
	Release bool         `yaml:"release"`
}

// StepReport holds the metric values after a scenario step.
type StepReport struct {
	Index    int
	Name     string
	Selected bool
	Steps    int
	Metrics  map[string]float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return ErrEmptyScenario
	}
	for i, step := range sc.Steps {
		if step.Advance < 0 {
			return fmt.Errorf("step %d: advance %d: %w", i+1, step.Advance, ErrInvalidStep)
		}
		if step.Pause && step.Resume {
			return fmt.Errorf("step %d: pause and resume together: %w", i+1, ErrInvalidStep)
		}
	}
	return nil
}

// RunScenario executes all steps against s. newMetrics supplies the
// metrics observed during each step's advance; it may be nil.
func RunScenario(ctx context.Context, scenario *Scenario, s *cloth.Simulation, logger *log.Logger, newMetrics func() []sim.Metric) ([]StepReport, error) {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	reports := make([]StepReport, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "name", step.Name)

		if err := apply(s, step); err != nil {
			return reports, fmt.Errorf("step %d: %w", i+1, err)
		}

		report := StepReport{Index: i + 1, Name: step.Name, Metrics: map[string]float64{}}
		if step.Drag != nil {
			report.Selected = drag(ctx, s, step.Drag)
			report.Steps += len(step.Drag.Points)
		}

		var metrics []sim.Metric
		if newMetrics != nil {
			metrics = newMetrics()
		}
		if step.Advance > 0 {
			r := sim.New(s)
			for _, m := range metrics {
				r.AddMetric(m)
			}
			res, err := r.Run(ctx, sim.Config{Steps: step.Advance, ValidateState: true})
			if err != nil {
				return reports, fmt.Errorf("step %d run: %w", i+1, err)
			}
			if len(res.Errors) > 0 {
				return reports, fmt.Errorf("step %d run: %w", i+1, res.Errors[0])
			}
			report.Steps += res.StepsTaken
			report.Metrics = res.Metrics
		} else {
			for _, m := range metrics {
				m.Observe(s)
				report.Metrics[m.Name()] = m.Value()
			}
		}

		reports = append(reports, report)
	}

	return reports, nil
}

func apply(s *cloth.Simulation, step ScenarioStep) error {
	if step.Preset != "" {
		f := config.GetPreset(step.Preset)
		if f == nil {
			return fmt.Errorf("%q: %w", step.Preset, config.ErrUnknownPreset)
		}
		for id, v := range f.Values() {
			if err := s.SetParameter(id, v, true); err != nil {
				return err
			}
		}
	}
	if step.Placement != "" {
		m, err := cloth.ParsePlacementMode(step.Placement)
		if err != nil {
			return err
		}
		s.SetPlacementMode(m)
	}
	if step.Form != "" {
		f, err := cloth.ParseForm(step.Form)
		if err != nil {
			return err
		}
		s.SetDrapeForm(f)
	}
	if step.Pinning != "" {
		p, err := cloth.ParsePinning(step.Pinning)
		if err != nil {
			return err
		}
		s.SetPinningMode(p)
	}
	if step.Interaction != "" {
		m, err := cloth.ParseInteractionMode(step.Interaction)
		if err != nil {
			return err
		}
		s.SetInteractionMode(m)
	}
	if g := step.Grid; g != nil {
		spacing := g.Spacing
		if spacing == 0 {
			spacing = s.Spacing()
		}
		if err := s.SetGrid(g.Rows, g.Cols, spacing); err != nil {
			return err
		}
	}
	if err := applyParams(s, step.Params); err != nil {
		return err
	}
	if step.Reset {
		s.Reset()
	}
	if step.Pause {
		s.Pause()
	}
	if step.Resume {
		s.Resume()
	}
	return nil
}

// applyParams validates every entry before touching s, then applies them
// in parameter order.
func applyParams(s *cloth.Simulation, named map[string]cloth.Param) error {
	params, err := cloth.ResolveNamed(named)
	if err != nil {
		return err
	}
	check := s.Params()
	for id, p := range params {
		if err := check.Set(id, p.Value, p.Enabled); err != nil {
			return err
		}
	}
	for _, id := range cloth.AllParams() {
		if p, ok := params[id]; ok {
			if err := s.SetParameter(id, p.Value, p.Enabled); err != nil {
				return err
			}
		}
	}
	return nil
}

func drag(ctx context.Context, s *cloth.Simulation, g *Gesture) bool {
	_, ok := s.SelectAt(g.Select[0], g.Select[1])
	for _, pt := range g.Points {
		if ctx.Err() != nil {
			break
		}
		s.DragTo(pt[0], pt[1])
		s.Step()
	}
	if g.Release {
		s.ReleaseDrag()
	}
	return ok
}
