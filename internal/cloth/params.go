package cloth

import (
	"fmt"
	"math"
	"sort"
)

// Param is a tunable quantity. When Enabled is false the simulation uses
// the parameter's baseline instead of Value.
type Param struct {
	Value   float64 `yaml:"value" json:"value"`
	Enabled bool    `yaml:"enabled" json:"enabled"`
}

// Effective returns p.Value when enabled, else baseline.
func Effective(p Param, baseline float64) float64 {
	if p.Enabled {
		return p.Value
	}
	return baseline
}

// MaxIterations bounds the relaxation pass count.
const MaxIterations = 1000

type ParamID int

const (
	ParamDamping ParamID = iota
	ParamIterations
	ParamStretch
	ParamShear
	ParamBending
	ParamWeight
	ParamGravity
	ParamWindX
	ParamWindY
	ParamWindZ
	ParamWindEnvelope
	ParamTurbulence
	numParams
)

type paramSpec struct {
	name     string
	aliases  []string
	baseline float64
	initial  float64
}

var paramSpecs = [numParams]paramSpec{
	ParamDamping:      {"damping", nil, 1.0, 0.98},
	ParamIterations:   {"iteration-count", []string{"iterations"}, 1, 5},
	ParamStretch:      {"stretch-factor", []string{"stretch"}, 1.0, 1.0},
	ParamShear:        {"shear-factor", []string{"shear"}, 1.0, 1.0},
	ParamBending:      {"bending-factor", []string{"bending"}, 1.0, 1.0},
	ParamWeight:       {"weight", nil, 1.0, 1.0},
	ParamGravity:      {"gravity", nil, 0.0, 0.4},
	ParamWindX:        {"wind-x", []string{"windX"}, 0.0, 0.2},
	ParamWindY:        {"wind-y", []string{"windY"}, 0.0, 0.0},
	ParamWindZ:        {"wind-z", []string{"windZ"}, 0.0, 0.1},
	ParamWindEnvelope: {"wind-envelope", []string{"windBuffer", "wind-buffer"}, 1.0, 1.0},
	ParamTurbulence:   {"turbulence", nil, 0.0, 0.5},
}

func (id ParamID) String() string {
	if id < 0 || id >= numParams {
		return fmt.Sprintf("param(%d)", int(id))
	}
	return paramSpecs[id].name
}

// Baseline is the neutral value used while the parameter is disabled.
func (id ParamID) Baseline() float64 { return paramSpecs[id].baseline }

// AllParams lists every parameter in display order.
func AllParams() []ParamID {
	ids := make([]ParamID, numParams)
	for i := range ids {
		ids[i] = ParamID(i)
	}
	return ids
}

// ParseParam resolves a canonical parameter name or one of its aliases.
func ParseParam(name string) (ParamID, error) {
	for i, spec := range paramSpecs {
		if spec.name == name {
			return ParamID(i), nil
		}
		for _, a := range spec.aliases {
			if a == name {
				return ParamID(i), nil
			}
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownParameter)
}

// ResolveNamed keys named params by id. When several names resolve to the
// same parameter the canonical name wins, then the alias sorting last.
func ResolveNamed(named map[string]Param) (map[ParamID]Param, error) {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make(map[ParamID]Param, len(named))
	canonical := make(map[ParamID]bool, len(named))
	for _, name := range names {
		id, err := ParseParam(name)
		if err != nil {
			return nil, err
		}
		if canonical[id] {
			continue
		}
		resolved[id] = named[name]
		canonical[id] = name == id.String()
	}
	return resolved, nil
}

// Params holds one Param per ParamID.
type Params struct {
	entries [numParams]Param
}

// DefaultParams returns the realistic values with every toggle off.
func DefaultParams() Params {
	var p Params
	for i, spec := range paramSpecs {
		p.entries[i] = Param{Value: spec.initial}
	}
	return p
}

func (p Params) Get(id ParamID) Param { return p.entries[id] }

// Effective returns the value the simulation uses for id.
func (p Params) Effective(id ParamID) float64 {
	return Effective(p.entries[id], paramSpecs[id].baseline)
}

// Iterations is the effective relaxation pass count. A fractional count
// runs the partial pass too.
func (p Params) Iterations() int {
	return int(math.Ceil(p.Effective(ParamIterations)))
}

// Factors returns the effective stiffness factors.
func (p Params) Factors() Factors {
	return Factors{
		Stretch: p.Effective(ParamStretch),
		Shear:   p.Effective(ParamShear),
		Bending: p.Effective(ParamBending),
	}
}

// Set validates and stores a parameter. On error p is unchanged.
func (p *Params) Set(id ParamID, value float64, enabled bool) error {
	if id < 0 || id >= numParams {
		return fmt.Errorf("%v: %w", id, ErrUnknownParameter)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ConfigError{Field: id.String(), Value: value, Wrapped: ErrParameterBounds}
	}
	if id == ParamIterations && (value < 1 || value > MaxIterations) {
		return &ConfigError{Field: id.String(), Value: value, Wrapped: ErrParameterBounds}
	}
	p.entries[id] = Param{Value: value, Enabled: enabled}
	return nil
}

// isStiffness reports whether changing id requires a constraint rebuild.
func (id ParamID) isStiffness() bool {
	return id == ParamStretch || id == ParamShear || id == ParamBending
}
