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

// Icarus compile diagnostics use the clang-like format without a column:
//
//	top.v:10: error: message text
//	top.v:12: warning: message text
var icarusGrammar = &tool.LineGrammar{
	Pattern: regexp.MustCompile(`^(?P<file>[^:\s][^:]*):(?P<line>\d+):\s*(?P<sev>error|warning|sorry):\s*(?P<msg>.*)$`),
	Severities: map[string]tool.Severity{
		"error":   tool.SeverityError,
		"warning": tool.SeverityWarning,
		"sorry":   tool.SeverityError, // unimplemented construct
	},
	Default: tool.SeverityError,
}

var icarusVersion = regexp.MustCompile(`Icarus Verilog version\s+(\d+\.\d+[^\s]*)`)

// Icarus adapts Icarus Verilog: iverilog compiles to a vvp executable,
// then vvp runs it.
type Icarus struct {
	*tool.Base
	timeout time.Duration
	workDir string

	// lastExe couples one compile to the immediately following simulate
	// call on this instance. Not safe for overlapping pairs.
	lastExe string
}

// NewIcarus creates the Icarus Verilog simulation adapter. workDir is where
// the compiled executable is placed; empty means the current directory.
func NewIcarus(run runner.Runner, timeout time.Duration, workDir string) (*Icarus, error) {
	desc := tool.Descriptor{
		Name:     "icarus",
		Category: tool.CategorySim,
		Kind:     tool.KindOpenSource,
		Command:  "iverilog",
	}
	probe := tool.Probe{
		Args:           []string{"-V"},
		Match:          "Icarus Verilog",
		VersionPattern: icarusVersion,
	}
	return &Icarus{
		Base:    tool.NewBase(desc, probe, run, logging.CategorySim),
		timeout: timeout,
		workDir: workDir,
	}, nil
}

// Compile implements Simulator.
func (i *Icarus) Compile(ctx context.Context, files []string, opts Options) CompileResult {
	out := filepath.Join(i.workDir, "sim.vvp")
	args := []string{"-g2012", "-o", out}
	if opts.Top != "" {
		args = append(args, "-s", opts.Top)
	}
	args = append(args, files...)

	exec := i.Exec(ctx, args, i.timeout)
	diags := icarusGrammar.Parse(exec.Output())
	if exec.Success {
		i.lastExe = out
	} else {
		i.lastExe = ""
	}
	errors, _ := tool.SplitBySeverity(diags)
	return CompileResult{
		Success: exec.Success,
		Errors:  errors,
		Stdout:  exec.Stdout,
		Stderr:  exec.Stderr,
	}
}

// Simulate implements Simulator. It consumes the executable produced by the
// preceding Compile on this instance; vvp is a separate binary, so the run
// bypasses the adapter's own command.
func (i *Icarus) Simulate(ctx context.Context, opts Options) Result {
	if i.lastExe == "" {
		return Result{Success: false, Stderr: "simulate called before a successful compile"}
	}

	args := []string{i.lastExe}
	if opts.Waves {
		// vvp extended arguments select the dump format; the testbench's
		// $dumpvars controls whether anything is written.
		args = append(args, "-fst")
	}

	res := i.runVvp(ctx, args)
	return Result{
		Success:  res.Success,
		Coverage: parseCoverage(res.Output()),
		Waveform: parseWaveform(res.Output()),
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}
}

// runVvp invokes the vvp runtime with the adapter's soft-failure mapping.
func (i *Icarus) runVvp(ctx context.Context, args []string) *tool.ExecResult {
	vvp := tool.NewBase(tool.Descriptor{
		Name:     "vvp",
		Category: tool.CategorySim,
		Kind:     tool.KindOpenSource,
		Command:  "vvp",
	}, tool.Probe{}, i.Runner(), logging.CategorySim)
	return vvp.Exec(ctx, args, i.timeout)
}
