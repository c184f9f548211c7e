package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".hdlkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Lint.Preferred)
	assert.Equal(t, 120*time.Second, cfg.LintTimeout())
	assert.Equal(t, 60*time.Second, cfg.SimTimeout())
	assert.Equal(t, 600*time.Second, cfg.SynthTimeout())
	assert.Equal(t, "tb_top", cfg.Sim.Top)
	assert.Equal(t, "generic", cfg.Synth.Technology)
	assert.Equal(t, 100.0, cfg.Synth.ClockMHz)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
lint:
  preferred: slang
  timeout: 90s
sim:
  preferred: icarus
  top: tb_alu
  waves: true
synth:
  technology: sky130
  clock_mhz: 250
logging:
  debug: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "slang", cfg.Lint.Preferred)
	assert.Equal(t, 90*time.Second, cfg.LintTimeout())
	assert.Equal(t, "icarus", cfg.Sim.Preferred)
	assert.Equal(t, "tb_alu", cfg.Sim.Top)
	assert.True(t, cfg.Sim.Waves)
	assert.Equal(t, "sky130", cfg.Synth.Technology)
	assert.Equal(t, 250.0, cfg.Synth.ClockMHz)
	assert.True(t, cfg.Logging.Debug)

	// Values the file omits keep their defaults.
	assert.Equal(t, 60*time.Second, cfg.SimTimeout())
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "lint: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadInvalidTimeout(t *testing.T) {
	path := writeConfig(t, "sim:\n  timeout: fast\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sim.timeout")
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := writeConfig(t, `
lint:
  preferred: verilator
sim:
  preferred: verilator
  timeout: 30s
synth:
  preferred: yosys
  technology: generic
  clock_mhz: 100
`)

	t.Setenv("HDLKIT_LINT_TOOL", "verible")
	t.Setenv("HDLKIT_SIM_TOOL", "icarus")
	t.Setenv("HDLKIT_SYNTH_TOOL", "dc")
	t.Setenv("HDLKIT_SIM_TIMEOUT", "5m")
	t.Setenv("HDLKIT_TECHNOLOGY", "asap7")
	t.Setenv("HDLKIT_CLOCK_MHZ", "500")
	t.Setenv("HDLKIT_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "verible", cfg.Lint.Preferred)
	assert.Equal(t, "icarus", cfg.Sim.Preferred)
	assert.Equal(t, "dc", cfg.Synth.Preferred)
	assert.Equal(t, 5*time.Minute, cfg.SimTimeout())
	assert.Equal(t, "asap7", cfg.Synth.Technology)
	assert.Equal(t, 500.0, cfg.Synth.ClockMHz)
	assert.True(t, cfg.Logging.Debug)
}

func TestEnvOverrideIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("HDLKIT_CLOCK_MHZ", "not-a-number")
	t.Setenv("HDLKIT_DEBUG", "maybe")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 100.0, cfg.Synth.ClockMHz)
	assert.False(t, cfg.Logging.Debug)
}

func TestEnvTimeoutStillValidated(t *testing.T) {
	t.Setenv("HDLKIT_SIM_TIMEOUT", "banana")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParseTimeoutFallbacks(t *testing.T) {
	assert.Equal(t, time.Minute, parseTimeout("", time.Minute))
	assert.Equal(t, time.Minute, parseTimeout("bogus", time.Minute))
	assert.Equal(t, time.Minute, parseTimeout("-5s", time.Minute))
	assert.Equal(t, 90*time.Second, parseTimeout("90s", time.Minute))
}
