// Package config loads hdlkit configuration from .hdlkit.yaml with
// environment variable overrides (HDLKIT_*). Managers consume the loaded
// values at construction; nothing in this package is mutated afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = ".hdlkit.yaml"

// Config holds all hdlkit configuration.
type Config struct {
	Lint    LintConfig    `yaml:"lint"`
	Sim     SimConfig     `yaml:"sim"`
	Synth   SynthConfig   `yaml:"synth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LintConfig configures the lint category.
type LintConfig struct {
	// Preferred names the tool picked ahead of registration order.
	Preferred string `yaml:"preferred"`

	// Timeout bounds one lint invocation (e.g. "120s").
	Timeout string `yaml:"timeout"`
}

// SimConfig configures the simulation category.
type SimConfig struct {
	Preferred string `yaml:"preferred"`

	// Timeout bounds one compile or simulate invocation. Simulation
	// carries a hard timeout so a hung testbench folds into a failure
	// result instead of blocking forever.
	Timeout string `yaml:"timeout"`

	// Top is the default top-level module for simulation.
	Top string `yaml:"top"`

	// Waves enables waveform dumping by default.
	Waves bool `yaml:"waves"`
}

// SynthConfig configures the synthesis category.
type SynthConfig struct {
	Preferred string `yaml:"preferred"`
	Timeout   string `yaml:"timeout"`

	// Top is the default top-level module for synthesis.
	Top string `yaml:"top"`

	// Technology names the target library (e.g. "generic", "sky130").
	Technology string `yaml:"technology"`

	// ClockMHz is the target clock for timing analysis.
	ClockMHz float64 `yaml:"clock_mhz"`
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Lint:  LintConfig{Timeout: "120s"},
		Sim:   SimConfig{Timeout: "60s", Top: "tb_top"},
		Synth: SynthConfig{Timeout: "600s", Technology: "generic", ClockMHz: 100},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file is fine; defaults plus env overrides apply.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies HDLKIT_* environment variables over the loaded
// values. Explicit env always wins over file contents.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HDLKIT_LINT_TOOL"); v != "" {
		c.Lint.Preferred = v
	}
	if v := os.Getenv("HDLKIT_SIM_TOOL"); v != "" {
		c.Sim.Preferred = v
	}
	if v := os.Getenv("HDLKIT_SYNTH_TOOL"); v != "" {
		c.Synth.Preferred = v
	}
	if v := os.Getenv("HDLKIT_SIM_TIMEOUT"); v != "" {
		c.Sim.Timeout = v
	}
	if v := os.Getenv("HDLKIT_TECHNOLOGY"); v != "" {
		c.Synth.Technology = v
	}
	if v := os.Getenv("HDLKIT_CLOCK_MHZ"); v != "" {
		if mhz, err := strconv.ParseFloat(v, 64); err == nil && mhz > 0 {
			c.Synth.ClockMHz = mhz
		}
	}
	if v := os.Getenv("HDLKIT_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Logging.Debug = debug
		}
	}
}

// validate rejects values that would otherwise surface later as confusing
// runtime behavior. Preferred tool names are validated at manager
// construction, where the registry is known.
func (c *Config) validate() error {
	for name, raw := range map[string]string{
		"lint.timeout":  c.Lint.Timeout,
		"sim.timeout":   c.Sim.Timeout,
		"synth.timeout": c.Synth.Timeout,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", name, raw, err)
		}
	}
	if c.Synth.ClockMHz < 0 {
		return fmt.Errorf("config: synth.clock_mhz must be positive, got %v", c.Synth.ClockMHz)
	}
	return nil
}

// LintTimeout returns the parsed lint timeout.
func (c *Config) LintTimeout() time.Duration { return parseTimeout(c.Lint.Timeout, 120*time.Second) }

// SimTimeout returns the parsed simulation timeout.
func (c *Config) SimTimeout() time.Duration { return parseTimeout(c.Sim.Timeout, 60*time.Second) }

// SynthTimeout returns the parsed synthesis timeout.
func (c *Config) SynthTimeout() time.Duration { return parseTimeout(c.Synth.Timeout, 600*time.Second) }

func parseTimeout(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
