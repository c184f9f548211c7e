package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter satisfies Adapter without touching a runner.
type stubAdapter struct {
	name      string
	installed bool
	version   string
}

func (s *stubAdapter) Name() string { return s.name }
func (s *stubAdapter) Descriptor() Descriptor {
	return Descriptor{Name: s.name, Category: CategoryLint, Command: s.name}
}
func (s *stubAdapter) IsInstalled(context.Context) bool { return s.installed }
func (s *stubAdapter) Version(context.Context) string   { return s.version }

func newTestRegistry(installed map[string]bool) *Registry {
	r := NewRegistry(CategoryLint)
	for _, name := range []string{"verilator", "slang", "verible"} {
		r.Register(&stubAdapter{name: name, installed: installed[name], version: "1.0"})
	}
	return r
}

func TestRegistry_SelectFirstInstalledByRegistrationOrder(t *testing.T) {
	r := newTestRegistry(map[string]bool{"slang": true, "verible": true})

	a := r.Select(context.Background(), "")
	require.NotNil(t, a)
	assert.Equal(t, "slang", a.Name())
}

func TestRegistry_SelectNilWhenNothingInstalled(t *testing.T) {
	r := newTestRegistry(nil)
	assert.Nil(t, r.Select(context.Background(), ""))
}

func TestRegistry_OverrideWinsWhenInstalled(t *testing.T) {
	r := newTestRegistry(map[string]bool{"verilator": true, "verible": true})

	a := r.Select(context.Background(), "verible")
	require.NotNil(t, a)
	assert.Equal(t, "verible", a.Name())
}

func TestRegistry_AbsentOverrideFallsThrough(t *testing.T) {
	r := newTestRegistry(map[string]bool{"verilator": true})

	// slang is registered but not installed; selection continues silently.
	a := r.Select(context.Background(), "slang")
	require.NotNil(t, a)
	assert.Equal(t, "verilator", a.Name())
}

func TestRegistry_UnknownOverrideFallsThrough(t *testing.T) {
	r := newTestRegistry(map[string]bool{"verilator": true})

	a := r.Select(context.Background(), "no-such-tool")
	require.NotNil(t, a)
	assert.Equal(t, "verilator", a.Name())
}

func TestRegistry_PreferredBeatsRegistrationOrder(t *testing.T) {
	r := newTestRegistry(map[string]bool{"verilator": true, "verible": true})
	require.NoError(t, r.SetPreferred("verible"))

	a := r.Select(context.Background(), "")
	require.NotNil(t, a)
	assert.Equal(t, "verible", a.Name())
}

func TestRegistry_OverrideBeatsPreferred(t *testing.T) {
	r := newTestRegistry(map[string]bool{"verilator": true, "slang": true, "verible": true})
	require.NoError(t, r.SetPreferred("verible"))

	a := r.Select(context.Background(), "slang")
	require.NotNil(t, a)
	assert.Equal(t, "slang", a.Name())
}

func TestRegistry_AbsentPreferredFallsThrough(t *testing.T) {
	r := newTestRegistry(map[string]bool{"verible": true})
	require.NoError(t, r.SetPreferred("slang"))

	a := r.Select(context.Background(), "")
	require.NotNil(t, a)
	assert.Equal(t, "verible", a.Name())
}

func TestRegistry_SetPreferredRejectsUnregistered(t *testing.T) {
	r := newTestRegistry(nil)

	err := r.SetPreferred("vivado")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vivado")

	// Clearing is always allowed.
	require.NoError(t, r.SetPreferred(""))
}

func TestRegistry_RegisterLastWins(t *testing.T) {
	r := NewRegistry(CategoryLint)
	r.Register(&stubAdapter{name: "verilator", installed: false})
	r.Register(&stubAdapter{name: "verilator", installed: true})

	assert.Equal(t, []string{"verilator"}, r.Names())
	a := r.Select(context.Background(), "")
	require.NotNil(t, a)
}

func TestRegistry_DetectInstalled(t *testing.T) {
	r := newTestRegistry(map[string]bool{"verilator": true, "verible": true})

	found := r.DetectInstalled(context.Background())
	assert.Equal(t, []string{"verilator", "verible"}, found, "registration order is preserved")
}

func TestRegistry_DetectReportsVersions(t *testing.T) {
	r := newTestRegistry(map[string]bool{"slang": true})

	results := r.Detect(context.Background())
	require.Len(t, results, 3)
	assert.True(t, results["slang"].Installed)
	assert.Equal(t, "1.0", results["slang"].Version)
	assert.False(t, results["verilator"].Installed)
	assert.Equal(t, VersionUnknown, results["verilator"].Version)
}
