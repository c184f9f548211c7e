package sim

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
const NoToolAvailable = "No simulation tool available"

// Manager owns the simulation registry and enforces the compile-before-
// simulate protocol on top of adapter selection.
type Manager struct {
	registry *tool.Registry
	timeout  time.Duration
	defaults Options
}

// NewManager creates a simulation manager from config. An unknown preferred
// tool name is a configuration error.
func NewManager(cfg config.SimConfig, timeout time.Duration, run runner.Runner) (*Manager, error) {
	m := &Manager{
		registry: tool.NewRegistry(tool.CategorySim),
		timeout:  timeout,
		defaults: Options{Top: cfg.Top, Waves: cfg.Waves},
	}

	log := logging.L(logging.CategorySim)
	builders := []func() (Simulator, error){
		func() (Simulator, error) { return NewIcarus(run, timeout, ".") },
		func() (Simulator, error) { return NewVerilator(run, timeout, ".") },
		func() (Simulator, error) { return newNoop(), nil },
	}
	for _, build := range builders {
		adapter, err := build()
		if err != nil {
			log.Warnw("skipping sim adapter", "err", err)
			continue
		}
		m.registry.Register(adapter)
	}

	if err := m.registry.SetPreferred(cfg.Preferred); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	return m, nil
}

// Register inserts an adapter; the last registration under a name wins.
func (m *Manager) Register(s Simulator) { m.registry.Register(s) }

// SetPreferred validates and records the preferred tool name.
func (m *Manager) SetPreferred(name string) error { return m.registry.SetPreferred(name) }

// DetectInstalled probes every registered simulator concurrently.
func (m *Manager) DetectInstalled(ctx context.Context) []string {
	return m.registry.DetectInstalled(ctx)
}

// Detect returns name→DetectionResult for every registered simulator.
func (m *Manager) Detect(ctx context.Context) map[string]tool.DetectionResult {
	return m.registry.Detect(ctx)
}

// SelectTool picks one installed simulator, or nil.
func (m *Manager) SelectTool(ctx context.Context, override string) Simulator {
	a := m.registry.Select(ctx, override)
	if a == nil {
		return nil
	}
	s, ok := a.(Simulator)
	if !ok {
		logging.L(logging.CategorySim).Errorw("registered adapter is not a Simulator", "tool", a.Name())
		return nil
	}
	return s
}

// Simulate selects a tool, compiles, and runs. The compile gate is strict:
// a failed compile is returned immediately and the adapter's simulate step
// is never invoked. The testbench verdict is derived from stdout with
// failure patterns taking precedence over pass patterns.
//
// Like every category operation, this never errors or panics past its
// public surface.
func (m *Manager) Simulate(ctx context.Context, files []string, opts Options, override string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.L(logging.CategorySim).Errorw("sim adapter panicked", "panic", r)
			result = Result{Success: false, Stderr: fmt.Sprintf("sim adapter failure: %v", r)}
		}
	}()

	adapter := m.SelectTool(ctx, override)
	if adapter == nil {
		return Result{Success: false, Stderr: NoToolAvailable}
	}

	if opts.Top == "" {
		opts.Top = m.defaults.Top
	}

	log := logging.L(logging.CategorySim)
	log.Infow("compiling", "tool", adapter.Name(), "files", len(files), "top", opts.Top)
	compile := adapter.Compile(ctx, files, opts)
	if !compile.Success {
		log.Infow("compile failed, skipping simulate", "tool", adapter.Name())
		return Result{
			Success: false,
			Stdout:  compile.Stdout,
			Stderr:  compile.Stderr,
		}
	}

	log.Infow("simulating", "tool", adapter.Name())
	result = adapter.Simulate(ctx, opts)
	result.Passed = result.Success && EvaluatePassFail(result.Stdout)
	return result
}

// Compile exposes the compile phase alone, for callers that want syntax
// checking without a run.
func (m *Manager) Compile(ctx context.Context, files []string, opts Options, override string) (result CompileResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.L(logging.CategorySim).Errorw("sim adapter panicked", "panic", r)
			result = CompileResult{Success: false, Stderr: fmt.Sprintf("sim adapter failure: %v", r)}
		}
	}()

	adapter := m.SelectTool(ctx, override)
	if adapter == nil {
		return CompileResult{Success: false, Stderr: NoToolAvailable}
	}
	if opts.Top == "" {
		opts.Top = m.defaults.Top
	}
	return adapter.Compile(ctx, files, opts)
}
