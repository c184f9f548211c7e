package synth

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/babyworm/hdlkit/internal/logging"
	"github.com/babyworm/hdlkit/internal/runner"
	"github.com/babyworm/hdlkit/internal/tool"
)

var yosysVersion = regexp.MustCompile(`Yosys\s+(\d+\.\d+[^\s]*)`)

// Yosys adapts the Yosys open synthesis suite. Timing analysis is delegated
// to OpenSTA against the written netlist; PPA area figures come from the
// yosys stat report.
type Yosys struct {
	*tool.Base
	timeout time.Duration
	workDir string
}

// NewYosys creates the Yosys synthesis adapter.
func NewYosys(run runner.Runner, timeout time.Duration, workDir string) (*Yosys, error) {
	desc := tool.Descriptor{
		Name:        "yosys",
		Category:    tool.CategorySynth,
		Kind:        tool.KindOpenSource,
		Command:     "yosys",
		DefaultArgs: []string{"-q"},
	}
	probe := tool.Probe{
		Args:           []string{"-V"},
		Match:          "Yosys",
		VersionPattern: yosysVersion,
	}
	return &Yosys{
		Base:    tool.NewBase(desc, probe, run, logging.CategorySynth),
		timeout: timeout,
		workDir: workDir,
	}, nil
}

// Synthesize implements Synthesizer. The whole flow is one yosys script
// passed as a single argument vector entry - no shell interpolation.
func (y *Yosys) Synthesize(ctx context.Context, files []string, opts Options) Result {
	netlist := filepath.Join(y.workDir, netlistName(opts.Top))

	script := []string{"read_verilog " + strings.Join(files, " ")}
	if opts.Top != "" {
		script = append(script, "synth -top "+opts.Top)
	} else {
		script = append(script, "synth")
	}
	script = append(script, "stat", "write_verilog "+netlist)

	exec := y.Exec(ctx, []string{"-p", strings.Join(script, "; ")}, y.timeout)
	result := Result{
		Success: exec.Success,
		Stdout:  exec.Stdout,
		Stderr:  exec.Stderr,
	}
	if exec.Success {
		result.Netlist = netlist
	}
	return result
}

// AnalyzeTiming implements Synthesizer by driving OpenSTA over the netlist.
// Missing sta binary or an unusable report surfaces as an error, which the
// manager treats as non-fatal.
func (y *Yosys) AnalyzeTiming(ctx context.Context, netlist string, opts Options) (*Timing, error) {
	if opts.ClockMHz <= 0 {
		return nil, fmt.Errorf("timing analysis requires a target clock")
	}
	periodNs := 1000.0 / opts.ClockMHz

	sta := tool.NewBase(tool.Descriptor{
		Name:     "opensta",
		Category: tool.CategorySynth,
		Kind:     tool.KindOpenSource,
		Command:  "sta",
	}, tool.Probe{}, y.Runner(), logging.CategorySynth)

	script := strings.Join([]string{
		fmt.Sprintf("read_liberty %s.lib", opts.Technology),
		"read_verilog " + netlist,
		"link_design " + opts.Top,
		fmt.Sprintf("create_clock -period %.3f [get_ports clk]", periodNs),
		"report_checks -path_delay max",
		"exit",
	}, "\n")

	exec := sta.ExecStdin(ctx, []string{"-no_splash"}, script, y.timeout)
	if !exec.Success {
		return nil, fmt.Errorf("sta run failed: %s", firstLine(exec.Stderr))
	}
	return parseTimingReport(exec.Output())
}

// EstimatePPA implements Synthesizer. Yosys reports area only; power stays
// zero and performance carries the target clock until a timing run refines
// it at the manager level.
func (y *Yosys) EstimatePPA(ctx context.Context, netlist string, opts Options) (*PPA, error) {
	exec := y.Exec(ctx, []string{"-p", "read_verilog " + netlist + "; stat"}, y.timeout)
	if !exec.Success {
		return nil, fmt.Errorf("yosys stat failed: %s", firstLine(exec.Stderr))
	}
	area, err := parseAreaReport(exec.Output())
	if err != nil {
		return nil, err
	}
	return &PPA{
		Area:        area,
		Performance: Performance{FrequencyMHz: opts.ClockMHz},
	}, nil
}

func netlistName(top string) string {
	if top == "" {
		return "netlist.v"
	}
	return top + "_netlist.v"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
