package lint

import (
	"context"
	"fmt"
	"time"

	"github.com/babyworm/hdlkit/internal/config"
	"github.com/babyworm/hdlkit/internal/logging"
	"github.com/babyworm/hdlkit/internal/runner"
	"github.com/babyworm/hdlkit/internal/tool"
)

// NoToolAvailable is the degradation message returned when nothing in the
// registry is installed.
const NoToolAvailable = "No lint tool available"

// Manager owns the lint registry and delegates lint operations to the
// selected adapter, hiding per-adapter differences from the caller.
type Manager struct {
	registry *tool.Registry
	timeout  time.Duration
}

// NewManager creates a lint manager. The preferred tool name from cfg is
// validated against the default registry; an unknown name is a
// configuration error.
func NewManager(cfg config.LintConfig, timeout time.Duration, run runner.Runner) (*Manager, error) {
	m := &Manager{
		registry: tool.NewRegistry(tool.CategoryLint),
		timeout:  timeout,
	}

	// Static adapter list, each constructed in its own failure-tolerant
	// step so one broken variant does not prevent registering the rest.
	log := logging.L(logging.CategoryLint)
	builders := []func() (Linter, error){
		func() (Linter, error) { return NewVerilator(run, timeout) },
		func() (Linter, error) { return NewSlang(run, timeout) },
		func() (Linter, error) { return NewVerible(run, timeout) },
		func() (Linter, error) { return newNoop(), nil },
	}
	for _, build := range builders {
		adapter, err := build()
		if err != nil {
			log.Warnw("skipping lint adapter", "err", err)
			continue
		}
		m.registry.Register(adapter)
	}

	if err := m.registry.SetPreferred(cfg.Preferred); err != nil {
		return nil, fmt.Errorf("lint: %w", err)
	}
	return m, nil
}

// Register inserts an adapter; the last registration under a name wins.
func (m *Manager) Register(l Linter) { m.registry.Register(l) }

// SetPreferred validates and records the preferred tool name.
func (m *Manager) SetPreferred(name string) error { return m.registry.SetPreferred(name) }

// DetectInstalled probes every registered linter concurrently and returns
// the installed names in registration order.
func (m *Manager) DetectInstalled(ctx context.Context) []string {
	return m.registry.DetectInstalled(ctx)
}

// Detect returns name→DetectionResult for every registered linter.
func (m *Manager) Detect(ctx context.Context) map[string]tool.DetectionResult {
	return m.registry.Detect(ctx)
}

// SelectTool picks one installed linter using the standard precedence, or
// nil when nothing usable is installed.
func (m *Manager) SelectTool(ctx context.Context, override string) Linter {
	a := m.registry.Select(ctx, override)
	if a == nil {
		return nil
	}
	l, ok := a.(Linter)
	if !ok {
		// Registration is controlled by this package, so a non-Linter
		// entry is a programming error worth surfacing in logs.
		logging.L(logging.CategoryLint).Errorw("registered adapter is not a Linter", "tool", a.Name())
		return nil
	}
	return l
}

// Lint selects a tool and runs it against files. It never returns an error
// or panics past this surface: a missing toolchain or a crashing adapter
// both fold into Success=false.
func (m *Manager) Lint(ctx context.Context, files []string, override string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.L(logging.CategoryLint).Errorw("lint adapter panicked", "panic", r)
			result = Result{Success: false, Stderr: fmt.Sprintf("lint adapter failure: %v", r)}
		}
	}()

	adapter := m.SelectTool(ctx, override)
	if adapter == nil {
		return Result{Success: false, Stderr: NoToolAvailable}
	}

	logging.L(logging.CategoryLint).Infow("linting", "tool", adapter.Name(), "files", len(files))
	return adapter.Lint(ctx, files)
}
