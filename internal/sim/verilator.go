package sim

import (
	"context"
	"path/filepath"
	"regexp"
	"time"

	"github.com/babyworm/hdlkit/internal/logging"
	"github.com/babyworm/hdlkit/internal/runner"
	"github.com/babyworm/hdlkit/internal/tool"
)

// Verilator compile diagnostics share the lint message format.
var verilatorSimGrammar = &tool.LineGrammar{
	Pattern: regexp.MustCompile(`^%(?P<sev>[A-Za-z]+?)(?:-(?P<code>[A-Z0-9_]+))?: (?P<file>[^:]+):(?P<line>\d+):(?P<col>\d+):\s*(?P<msg>.*)$`),
	Severities: map[string]tool.Severity{
		"error":   tool.SeverityError,
		"warning": tool.SeverityWarning,
	},
	Default: tool.SeverityWarning,
}

var verilatorSimVersion = regexp.MustCompile(`Verilator\s+(\d+\.\d+[^\s]*)`)

// Verilator adapts Verilator's compiled simulation flow: --binary builds a
// self-contained executable under obj_dir, which Simulate then runs.
type Verilator struct {
	*tool.Base
	timeout time.Duration
	workDir string

	// lastExe couples one compile to the immediately following simulate
	// call on this instance. Not safe for overlapping pairs.
	lastExe string
}

// NewVerilator creates the Verilator simulation adapter.
func NewVerilator(run runner.Runner, timeout time.Duration, workDir string) (*Verilator, error) {
	desc := tool.Descriptor{
		Name:     "verilator",
		Category: tool.CategorySim,
		Kind:     tool.KindOpenSource,
		Command:  "verilator",
	}
	probe := tool.Probe{
		Args:           []string{"--version"},
		Match:          "Verilator",
		VersionPattern: verilatorSimVersion,
	}
	return &Verilator{
		Base:    tool.NewBase(desc, probe, run, logging.CategorySim),
		timeout: timeout,
		workDir: workDir,
	}, nil
}

// Compile implements Simulator.
func (v *Verilator) Compile(ctx context.Context, files []string, opts Options) CompileResult {
	top := opts.Top
	args := []string{"--binary", "-j", "0"}
	if top != "" {
		args = append(args, "--top-module", top)
	}
	if opts.Waves {
		args = append(args, "--trace")
	}
	args = append(args, files...)

	exec := v.Exec(ctx, args, v.timeout)
	diags := verilatorSimGrammar.Parse(exec.Output())
	if exec.Success && top != "" {
		v.lastExe = filepath.Join(v.workDir, "obj_dir", "V"+top)
	} else {
		v.lastExe = ""
	}
	errors, _ := tool.SplitBySeverity(diags)
	return CompileResult{
		Success: exec.Success,
		Errors:  errors,
		Stdout:  exec.Stdout,
		Stderr:  exec.Stderr,
	}
}

// Simulate implements Simulator by running the compiled model directly.
func (v *Verilator) Simulate(ctx context.Context, opts Options) Result {
	if v.lastExe == "" {
		return Result{Success: false, Stderr: "simulate called before a successful compile"}
	}

	model := tool.NewBase(tool.Descriptor{
		Name:     "verilated-model",
		Category: tool.CategorySim,
		Kind:     tool.KindOpenSource,
		Command:  v.lastExe,
	}, tool.Probe{}, v.Runner(), logging.CategorySim)

	res := model.Exec(ctx, nil, v.timeout)
	out := Result{
		Success:  res.Success,
		Coverage: parseCoverage(res.Output()),
		Waveform: parseWaveform(res.Output()),
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}
	if out.Waveform == "" && opts.Waves {
		// --trace models default their dump here unless the testbench
		// chose another path.
		out.Waveform = filepath.Join(v.workDir, "obj_dir", "vlt_dump.vcd")
	}
	return out
}
