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

var dcVersion = regexp.MustCompile(`Version\s+([A-Z]-\d{4}\.\d+[^\s,]*)`)

// DesignCompiler adapts Synopsys Design Compiler. All operations are batch
// dc_shell invocations with the script passed via -x; license failures and
// a missing binary both fold into the standard soft-failure surface.
type DesignCompiler struct {
	*tool.Base
	timeout time.Duration
	workDir string
}

// NewDesignCompiler creates the Design Compiler synthesis adapter.
func NewDesignCompiler(run runner.Runner, timeout time.Duration, workDir string) (*DesignCompiler, error) {
	desc := tool.Descriptor{
		Name:        "dc",
		Category:    tool.CategorySynth,
		Kind:        tool.KindCommercial,
		Command:     "dc_shell",
		DefaultArgs: []string{"-batch"},
	}
	probe := tool.Probe{
		Args:           []string{"-V"},
		Match:          "Design Compiler",
		VersionPattern: dcVersion,
	}
	return &DesignCompiler{
		Base:    tool.NewBase(desc, probe, run, logging.CategorySynth),
		timeout: timeout,
		workDir: workDir,
	}, nil
}

// Synthesize implements Synthesizer.
func (d *DesignCompiler) Synthesize(ctx context.Context, files []string, opts Options) Result {
	netlist := filepath.Join(d.workDir, netlistName(opts.Top))

	script := []string{
		"read_verilog {" + strings.Join(files, " ") + "}",
	}
	if opts.Top != "" {
		script = append(script, "current_design "+opts.Top)
	}
	script = append(script,
		"link",
		"compile_ultra",
		"write -format verilog -hierarchy -output "+netlist,
		"exit",
	)

	exec := d.Exec(ctx, []string{"-x", strings.Join(script, "; ")}, d.timeout)
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

// AnalyzeTiming implements Synthesizer via report_timing.
func (d *DesignCompiler) AnalyzeTiming(ctx context.Context, netlist string, opts Options) (*Timing, error) {
	if opts.ClockMHz <= 0 {
		return nil, fmt.Errorf("timing analysis requires a target clock")
	}
	periodNs := 1000.0 / opts.ClockMHz

	script := []string{"read_verilog " + netlist}
	if opts.Top != "" {
		script = append(script, "current_design "+opts.Top)
	}
	script = append(script,
		"link",
		fmt.Sprintf("create_clock -period %.3f clk", periodNs),
		"report_timing -path_type full",
		"exit",
	)

	exec := d.Exec(ctx, []string{"-x", strings.Join(script, "; ")}, d.timeout)
	if !exec.Success {
		return nil, fmt.Errorf("dc_shell timing run failed: %s", firstLine(exec.Stderr))
	}
	return parseTimingReport(exec.Output())
}

// EstimatePPA implements Synthesizer via report_area and report_power.
func (d *DesignCompiler) EstimatePPA(ctx context.Context, netlist string, opts Options) (*PPA, error) {
	script := []string{"read_verilog " + netlist}
	if opts.Top != "" {
		script = append(script, "current_design "+opts.Top)
	}
	script = append(script,
		"link",
		"report_area",
		"report_power",
		"report_timing",
		"exit",
	)

	exec := d.Exec(ctx, []string{"-x", strings.Join(script, "; ")}, d.timeout)
	if !exec.Success {
		return nil, fmt.Errorf("dc_shell report run failed: %s", firstLine(exec.Stderr))
	}
	out := exec.Output()

	area, err := parseAreaReport(out)
	if err != nil {
		return nil, err
	}
	ppa := &PPA{
		Area:        area,
		Performance: Performance{FrequencyMHz: opts.ClockMHz},
	}
	if power, err := parsePowerReport(out); err == nil {
		ppa.Power = power
	}
	if timing, err := parseTimingReport(out); err == nil {
		ppa.Performance.FrequencyMHz = timing.FrequencyMHz
	}
	return ppa, nil
}
