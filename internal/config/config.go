package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spacetravel/internal/integrators"
)

const (
	DefaultIntegrator  = "rk45"
	DefaultRenderer    = "window"
	DefaultDestination = "Moon"
	// DefaultDuration is three days, in seconds.
	DefaultDuration = 259200
	DefaultRTol     = 1e-9
	DefaultATol     = 1e-6
	DefaultMaxDt    = 10.0
	DefaultTheme    = "night"
)

// Renderers accepted by the renderer field.
var Renderers = []string{"window", "terminal"}

type Config struct {
	Integrator  string  `yaml:"integrator"`
	RTol        float64 `yaml:"rtol"`
	ATol        float64 `yaml:"atol"`
	MaxDt       float64 `yaml:"max_dt"`
	Renderer    string  `yaml:"renderer"`
	Assets      string  `yaml:"assets"`
	Destination string  `yaml:"destination"`
	Duration    int     `yaml:"duration"`
	Theme       string  `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:  DefaultIntegrator,
		RTol:        DefaultRTol,
		ATol:        DefaultATol,
		MaxDt:       DefaultMaxDt,
		Renderer:    DefaultRenderer,
		Assets:      ".",
		Destination: DefaultDestination,
		Duration:    DefaultDuration,
		Theme:       DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as yaml, in the same layout Load reads.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that cannot be defaulted.
func (c *Config) Validate() error {
	if c.RTol <= 0 || c.ATol <= 0 {
		return fmt.Errorf("tolerances must be positive (rtol=%g, atol=%g)", c.RTol, c.ATol)
	}
	if c.MaxDt <= 0 {
		return fmt.Errorf("max_dt must be positive, got %g", c.MaxDt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", c.Duration)
	}
	if !slices.Contains(Renderers, c.Renderer) {
		return fmt.Errorf("unknown renderer: %s (available: %v)", c.Renderer, Renderers)
	}
	if !slices.Contains(integrators.Names(), c.Integrator) {
		return fmt.Errorf("unknown integrator: %s (available: %v)", c.Integrator, integrators.Names())
	}
	if _, err := Lookup(c.Destination); err != nil {
		return fmt.Errorf("%w (available: %v)", err, Destinations())
	}
	return nil
}
