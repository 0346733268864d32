package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fabricsim/internal/cloth"
)

const (
	DefaultSteps = 300
	DefaultSeed  = 1
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Config is the on-disk form of a simulation setup. Modes are stored by
// name and params by their canonical or alias name.
type Config struct {
	Rows        int                    `yaml:"rows"`
	Cols        int                    `yaml:"cols"`
	Spacing     float64                `yaml:"spacing"`
	Placement   string                 `yaml:"placement"`
	Form        string                 `yaml:"form"`
	Pinning     string                 `yaml:"pinning"`
	Interaction string                 `yaml:"interaction"`
	Seed        int64                  `yaml:"seed"`
	Steps       int                    `yaml:"steps"`
	Preset      string                 `yaml:"preset,omitempty"`
	Params      map[string]cloth.Param `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:        cloth.DefaultRows,
		Cols:        cloth.DefaultCols,
		Spacing:     cloth.DefaultSpacing,
		Placement:   cloth.PlacementPlane.String(),
		Form:        cloth.FormSphere.String(),
		Pinning:     cloth.PinTop.String(),
		Interaction: cloth.InteractRotate.String(),
		Seed:        DefaultSeed,
		Steps:       DefaultSteps,
		Params:      map[string]cloth.Param{},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig and applies the named preset, if
// any, underneath explicitly listed params. Params are stored under their
// canonical names.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	explicit, err := cloth.ResolveNamed(cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Params = map[string]cloth.Param{}
	if cfg.Preset != "" {
		if err := cfg.ApplyPreset(cfg.Preset); err != nil {
			return nil, err
		}
	}
	for id, p := range explicit {
		cfg.Params[id.String()] = p
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetParam records an enabled parameter, replacing any earlier entry for
// the same parameter under a different alias.
func (c *Config) SetParam(name string, value float64) error {
	id, err := cloth.ParseParam(name)
	if err != nil {
		return err
	}
	if c.Params == nil {
		c.Params = map[string]cloth.Param{}
	}
	for k := range c.Params {
		if other, err := cloth.ParseParam(k); err == nil && other == id {
			delete(c.Params, k)
		}
	}
	c.Params[id.String()] = cloth.Param{Value: value, Enabled: true}
	return nil
}

// ApplyPreset enables every parameter the fabric defines.
func (c *Config) ApplyPreset(name string) error {
	f := GetPreset(name)
	if f == nil {
		return fmt.Errorf("%q: %w", name, ErrUnknownPreset)
	}
	for id, v := range f.Values() {
		if err := c.SetParam(id.String(), v); err != nil {
			return err
		}
	}
	c.Preset = name
	return nil
}

// Settings resolves names into a cloth.Settings.
func (c *Config) Settings() (cloth.Settings, error) {
	s := cloth.DefaultSettings()
	s.Rows, s.Cols, s.Spacing, s.Seed = c.Rows, c.Cols, c.Spacing, c.Seed

	var err error
	if c.Placement != "" {
		if s.Placement, err = cloth.ParsePlacementMode(c.Placement); err != nil {
			return s, err
		}
	}
	if c.Form != "" {
		if s.Form, err = cloth.ParseForm(c.Form); err != nil {
			return s, err
		}
	}
	if c.Pinning != "" {
		if s.Pinning, err = cloth.ParsePinning(c.Pinning); err != nil {
			return s, err
		}
	}
	if c.Interaction != "" {
		if s.Interaction, err = cloth.ParseInteractionMode(c.Interaction); err != nil {
			return s, err
		}
	}

	params, err := cloth.ResolveNamed(c.Params)
	if err != nil {
		return s, err
	}
	for _, id := range cloth.AllParams() {
		p, ok := params[id]
		if !ok {
			continue
		}
		if err := s.Params.Set(id, p.Value, p.Enabled); err != nil {
			return s, err
		}
	}
	return s, nil
}

// New builds a Simulation from the config.
func (c *Config) New() (*cloth.Simulation, error) {
	s, err := c.Settings()
	if err != nil {
		return nil, err
	}
	return cloth.New(s)
}
