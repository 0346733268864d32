package cloth

import (
	"io"

	"github.com/charmbracelet/log"
)

const (
	DefaultRows    = 20
	DefaultCols    = 20
	DefaultSpacing = 20.0
)

// Settings is the full configuration of a Simulation.
type Settings struct {
	Rows        int
	Cols        int
	Spacing     float64
	Placement   PlacementMode
	Form        Form
	Pinning     Pinning
	Interaction InteractionMode
	Params      Params
	Seed        int64
}

func DefaultSettings() Settings {
	return Settings{
		Rows:    DefaultRows,
		Cols:    DefaultCols,
		Spacing: DefaultSpacing,
		Params:  DefaultParams(),
	}
}

// Simulation owns one cloth and everything that configures it.
type Simulation struct {
	rows, cols  int
	spacing     float64
	placement   PlacementMode
	form        Form
	pinning     Pinning
	interaction InteractionMode
	sphere      Sphere
	cylinder    Cylinder
	params      Params

	mesh        *Mesh
	constraints []Constraint

	step    int64
	running bool
	drag    dragState

	projector Projector
	wind      *Wind
	logger    *log.Logger
}

func New(cfg Settings) (*Simulation, error) {
	if err := validateGrid(cfg.Rows, cfg.Cols, cfg.Spacing); err != nil {
		return nil, err
	}
	if err := validateParams(cfg.Params); err != nil {
		return nil, err
	}
	s := &Simulation{
		rows:        cfg.Rows,
		cols:        cfg.Cols,
		spacing:     cfg.Spacing,
		placement:   cfg.Placement,
		form:        cfg.Form,
		pinning:     cfg.Pinning,
		interaction: cfg.Interaction,
		sphere:      DefaultSphere(),
		cylinder:    DefaultCylinder(),
		params:      cfg.Params,
		running:     true,
		projector:   PerspectiveProjector{Width: 800, Height: 600},
		wind:        NewWind(cfg.Seed),
		logger:      log.New(io.Discard),
	}
	s.drag.clear()
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

func validateParams(p Params) error {
	for _, id := range AllParams() {
		v := p.Get(id)
		if err := new(Params).Set(id, v.Value, v.Enabled); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	s.logger = l
}

func (s *Simulation) SetProjector(p Projector) {
	if p != nil {
		s.projector = p
	}
}

// Placement returns the active placement variant.
func (s *Simulation) Placement() Placement {
	if s.placement == PlacementDraped {
		return DrapedPlacement{Primitive: s.primitive()}
	}
	return PlanePlacement{Pinning: s.pinning}
}

func (s *Simulation) primitive() Primitive {
	if s.form == FormCylinder {
		return s.cylinder
	}
	return s.sphere
}

// Primitive returns the active drape primitive, or nil in plane mode.
func (s *Simulation) Primitive() Primitive {
	if s.placement != PlacementDraped {
		return nil
	}
	return s.primitive()
}

// FloorY returns the floor height and whether floor collision is active.
func (s *Simulation) FloorY() (float64, bool) {
	if s.placement != PlacementDraped {
		return DefaultFloorY, false
	}
	return s.primitive().FloorY(), true
}

// rebuild replaces particles and constraints from the current settings.
// Any selection refers to the old particle set and is dropped.
func (s *Simulation) rebuild() error {
	mesh, err := BuildTopology(s.rows, s.cols, s.spacing, s.Placement())
	if err != nil {
		return err
	}
	s.drag.clear()
	s.mesh = mesh
	s.constraints = BuildConstraints(mesh, s.params.Factors())
	s.logger.Debug("rebuilt cloth",
		"placement", s.placement, "form", s.form, "pinning", s.pinning,
		"particles", len(mesh.Particles), "constraints", len(s.constraints))
	return nil
}

func (s *Simulation) mustRebuild() {
	// settings were validated before they were stored
	if err := s.rebuild(); err != nil {
		s.logger.Error("rebuild failed", "err", err)
	}
}

func (s *Simulation) rebuildConstraints() {
	s.constraints = BuildConstraints(s.mesh, s.params.Factors())
	s.logger.Debug("rebuilt constraints", "constraints", len(s.constraints))
}

func (s *Simulation) SetPlacementMode(m PlacementMode) {
	if m == s.placement {
		return
	}
	s.placement = m
	s.mustRebuild()
}

// SetDrapeForm switches between sphere and cylinder. The cloth is rebuilt
// only when it is currently draped.
func (s *Simulation) SetDrapeForm(f Form) {
	if f == s.form {
		return
	}
	s.form = f
	if s.placement == PlacementDraped {
		s.mustRebuild()
	}
}

// SetPinningMode changes how a flat cloth is pinned. The cloth is rebuilt
// only when it is currently flat.
func (s *Simulation) SetPinningMode(p Pinning) {
	if p == s.pinning {
		return
	}
	s.pinning = p
	if s.placement == PlacementPlane {
		s.mustRebuild()
	}
}

func (s *Simulation) SetInteractionMode(m InteractionMode) {
	s.interaction = m
	s.releaseSelection()
}

// SetSphere replaces the sphere primitive.
func (s *Simulation) SetSphere(sp Sphere) error {
	if !(sp.Radius > 0) || !sp.Center.IsFinite() {
		return &ConfigError{Field: "sphere.radius", Value: sp.Radius, Wrapped: ErrParameterBounds}
	}
	s.sphere = sp
	if s.placement == PlacementDraped && s.form == FormSphere {
		s.mustRebuild()
	}
	return nil
}

// SetCylinder replaces the cylinder primitive.
func (s *Simulation) SetCylinder(c Cylinder) error {
	if !(c.Radius > 0) || !(c.Height > 0) {
		return &ConfigError{Field: "cylinder", Value: c, Wrapped: ErrParameterBounds}
	}
	s.cylinder = c
	if s.placement == PlacementDraped && s.form == FormCylinder {
		s.mustRebuild()
	}
	return nil
}

// SetGrid changes the lattice size. Invalid sizes are rejected and the
// current cloth stays in place.
func (s *Simulation) SetGrid(rows, cols int, spacing float64) error {
	if err := validateGrid(rows, cols, spacing); err != nil {
		s.logger.Warn("rejected grid", "rows", rows, "cols", cols, "spacing", spacing, "err", err)
		return err
	}
	if rows == s.rows && cols == s.cols && spacing == s.spacing {
		return nil
	}
	s.rows, s.cols, s.spacing = rows, cols, spacing
	s.mustRebuild()
	return nil
}

// SetParameter stores a parameter. Stiffness factors rebuild the
// constraints; everything else takes effect on the next step.
func (s *Simulation) SetParameter(id ParamID, value float64, enabled bool) error {
	if err := s.params.Set(id, value, enabled); err != nil {
		s.logger.Warn("rejected parameter", "param", id, "value", value, "err", err)
		return err
	}
	if id.isStiffness() {
		s.rebuildConstraints()
	}
	return nil
}

func (s *Simulation) SetParameterByName(name string, value float64, enabled bool) error {
	id, err := ParseParam(name)
	if err != nil {
		return err
	}
	return s.SetParameter(id, value, enabled)
}

// Step runs integration, relaxation and collision once. It does nothing
// while paused.
func (s *Simulation) Step() {
	if !s.running {
		return
	}
	s.step++
	ps := s.mesh.Particles
	Integrate(ps, s.params, s.step, s.wind)
	Relax(ps, s.constraints, s.params.Iterations())
	ResolveCollisions(ps, s.mesh.Spacing, s.Placement())
}

// Advance calls Step n times.
func (s *Simulation) Advance(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

func (s *Simulation) Pause()        { s.running = false }
func (s *Simulation) Resume()       { s.running = true }
func (s *Simulation) Running() bool { return s.running }

// Toggle flips the running state and returns the new one.
func (s *Simulation) Toggle() bool {
	s.running = !s.running
	return s.running
}

// Reset rebuilds the cloth from the current configuration.
func (s *Simulation) Reset() {
	s.mustRebuild()
}

// Particles returns the live particle slice. Callers must not modify it.
func (s *Simulation) Particles() []Particle { return s.mesh.Particles }

// Constraints returns the live constraint slice in relaxation order.
func (s *Simulation) Constraints() []Constraint { return s.constraints }

func (s *Simulation) Mesh() *Mesh            { return s.mesh }
func (s *Simulation) Lattice() *Lattice      { return &s.mesh.Lattice }
func (s *Simulation) RestAreas() [][]float64 { return s.mesh.Lattice.RestArea }
func (s *Simulation) Stress() [][]float64    { return CellStress(s.mesh) }

func (s *Simulation) PlacementMode() PlacementMode     { return s.placement }
func (s *Simulation) DrapeForm() Form                  { return s.form }
func (s *Simulation) PinningMode() Pinning             { return s.pinning }
func (s *Simulation) InteractionMode() InteractionMode { return s.interaction }
func (s *Simulation) Params() Params                   { return s.params }
func (s *Simulation) StepIndex() int64                 { return s.step }
func (s *Simulation) Spacing() float64                 { return s.spacing }
func (s *Simulation) Rows() int                        { return s.rows }
func (s *Simulation) Cols() int                        { return s.cols }
