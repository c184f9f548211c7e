package synth

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
const NoToolAvailable = "No synthesis tool available"

// Manager owns the synthesis registry and runs the post-success enrichment
// policy on top of adapter selection.
type Manager struct {
	registry *tool.Registry
	timeout  time.Duration
	defaults Options
}

// NewManager creates a synthesis manager from config. An unknown preferred
// tool name is a configuration error.
func NewManager(cfg config.SynthConfig, timeout time.Duration, run runner.Runner) (*Manager, error) {
	m := &Manager{
		registry: tool.NewRegistry(tool.CategorySynth),
		timeout:  timeout,
		defaults: Options{
			Top:        cfg.Top,
			Technology: cfg.Technology,
			ClockMHz:   cfg.ClockMHz,
		},
	}

	log := logging.L(logging.CategorySynth)
	builders := []func() (Synthesizer, error){
		func() (Synthesizer, error) { return NewYosys(run, timeout, ".") },
		func() (Synthesizer, error) { return NewDesignCompiler(run, timeout, ".") },
		func() (Synthesizer, error) { return newNoop(), nil },
	}
	for _, build := range builders {
		adapter, err := build()
		if err != nil {
			log.Warnw("skipping synth adapter", "err", err)
			continue
		}
		m.registry.Register(adapter)
	}

	if err := m.registry.SetPreferred(cfg.Preferred); err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}
	return m, nil
}

// Register inserts an adapter; the last registration under a name wins.
func (m *Manager) Register(s Synthesizer) { m.registry.Register(s) }

// SetPreferred validates and records the preferred tool name.
func (m *Manager) SetPreferred(name string) error { return m.registry.SetPreferred(name) }

// DetectInstalled probes every registered synthesizer concurrently.
func (m *Manager) DetectInstalled(ctx context.Context) []string {
	return m.registry.DetectInstalled(ctx)
}

// Detect returns name→DetectionResult for every registered synthesizer.
func (m *Manager) Detect(ctx context.Context) map[string]tool.DetectionResult {
	return m.registry.Detect(ctx)
}

// SelectTool picks one installed synthesizer, or nil.
func (m *Manager) SelectTool(ctx context.Context, override string) Synthesizer {
	a := m.registry.Select(ctx, override)
	if a == nil {
		return nil
	}
	s, ok := a.(Synthesizer)
	if !ok {
		logging.L(logging.CategorySynth).Errorw("registered adapter is not a Synthesizer", "tool", a.Name())
		return nil
	}
	return s
}

// Synthesize selects a tool and runs it. After a successful run the manager
// attempts timing analysis and PPA estimation against the produced netlist;
// failure of either is logged and the corresponding field left unset while
// Success stays true. Never errors or panics past this surface.
func (m *Manager) Synthesize(ctx context.Context, files []string, opts Options, override string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.L(logging.CategorySynth).Errorw("synth adapter panicked", "panic", r)
			result = Result{Success: false, Stderr: fmt.Sprintf("synth adapter failure: %v", r)}
		}
	}()

	adapter := m.SelectTool(ctx, override)
	if adapter == nil {
		return Result{Success: false, Stderr: NoToolAvailable}
	}

	opts = m.fillDefaults(opts)
	log := logging.L(logging.CategorySynth)
	log.Infow("synthesizing", "tool", adapter.Name(), "files", len(files), "top", opts.Top, "tech", opts.Technology)

	result = adapter.Synthesize(ctx, files, opts)
	if !result.Success || result.Netlist == "" {
		return result
	}

	// Post-success enrichment: core synthesis success is independent of
	// secondary analysis success.
	if timing, err := m.analyzeTiming(ctx, adapter, result.Netlist, opts); err != nil {
		log.Warnw("timing analysis failed", "tool", adapter.Name(), "err", err)
	} else {
		result.Timing = timing
	}
	if ppa, err := m.estimatePPA(ctx, adapter, result.Netlist, opts); err != nil {
		log.Warnw("ppa estimation failed", "tool", adapter.Name(), "err", err)
	} else {
		result.PPA = ppa
	}
	if result.Timing != nil && result.PPA != nil {
		// The measured clock beats the target estimate.
		result.PPA.Performance.FrequencyMHz = result.Timing.FrequencyMHz
	}
	return result
}

// analyzeTiming shields the manager from panicking analysis code.
func (m *Manager) analyzeTiming(ctx context.Context, adapter Synthesizer, netlist string, opts Options) (t *Timing, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("timing analysis panicked: %v", r)
		}
	}()
	return adapter.AnalyzeTiming(ctx, netlist, opts)
}

// estimatePPA shields the manager from panicking analysis code.
func (m *Manager) estimatePPA(ctx context.Context, adapter Synthesizer, netlist string, opts Options) (p *PPA, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("ppa estimation panicked: %v", r)
		}
	}()
	return adapter.EstimatePPA(ctx, netlist, opts)
}

func (m *Manager) fillDefaults(opts Options) Options {
	if opts.Top == "" {
		opts.Top = m.defaults.Top
	}
	if opts.Technology == "" {
		opts.Technology = m.defaults.Technology
	}
	if opts.ClockMHz <= 0 {
		opts.ClockMHz = m.defaults.ClockMHz
	}
	return opts
}
