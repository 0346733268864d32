package config

import (
	"sort"

	"github.com/san-kum/fabricsim/internal/cloth"
)

// Fabric is a named set of material parameters.
type Fabric struct {
	Name        string
	Description string
	Damping     float64
	Stretch     float64
	Shear       float64
	Bending     float64
	Weight      float64
	Gravity     float64
}

// Values maps the fabric onto simulation parameters.
func (f Fabric) Values() map[cloth.ParamID]float64 {
	return map[cloth.ParamID]float64{
		cloth.ParamDamping: f.Damping,
		cloth.ParamStretch: f.Stretch,
		cloth.ParamShear:   f.Shear,
		cloth.ParamBending: f.Bending,
		cloth.ParamWeight:  f.Weight,
		cloth.ParamGravity: f.Gravity,
	}
}

var Presets = map[string]*Fabric{
	"cotton": {
		Name: "Cotton", Description: "Medium-weight natural fiber with moderate drape and minimal stretch.",
		Damping: 0.98, Stretch: 1.1, Shear: 1.0, Bending: 1.05, Weight: 1.0, Gravity: 0.4,
	},
	"silk": {
		Name: "Silk", Description: "Light, smooth natural fiber with excellent drape and fluid movement.",
		Damping: 0.96, Stretch: 1.0, Shear: 0.9, Bending: 0.85, Weight: 0.7, Gravity: 0.4,
	},
	"denim": {
		Name: "Denim", Description: "Heavy, sturdy cotton twill with minimal drape and structured folds.",
		Damping: 0.99, Stretch: 1.15, Shear: 1.1, Bending: 1.15, Weight: 1.6, Gravity: 0.4,
	},
	"jersey": {
		Name: "Jersey Knit", Description: "Stretchy knit fabric with moderate drape and recovery.",
		Damping: 0.97, Stretch: 0.85, Shear: 0.9, Bending: 0.95, Weight: 0.9, Gravity: 0.4,
	},
	"chiffon": {
		Name: "Chiffon", Description: "Very lightweight, sheer fabric with excellent drape and movement.",
		Damping: 0.95, Stretch: 1.0, Shear: 0.85, Bending: 0.8, Weight: 0.5, Gravity: 0.4,
	},
	"canvas": {
		Name: "Canvas", Description: "Very heavy, sturdy fabric with minimal drape and high structure.",
		Damping: 0.99, Stretch: 1.2, Shear: 1.15, Bending: 1.2, Weight: 1.8, Gravity: 0.4,
	},
}

func GetPreset(name string) *Fabric {
	f, ok := Presets[name]
	if !ok {
		return nil
	}
	return f
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
