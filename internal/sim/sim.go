// Package sim orchestrates HDL simulators (Icarus Verilog, Verilator).
// Simulation is a mandatory two-phase protocol: Compile must succeed before
// Simulate runs, and the compile step leaves the produced executable on the
// adapter instance for the immediately following simulate call.
//
// A given adapter instance supports one in-flight compile/simulate pair at a
// time; concurrent overlapping pairs against the same instance must be
// serialized by the caller or given separate instances.
package sim

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/babyworm/hdlkit/internal/tool"
)

// CompileResult is the outcome of the compile phase.
type CompileResult struct {
	Success bool              `json:"success"`
	Errors  []tool.Diagnostic `json:"errors,omitempty"`
	Stdout  string            `json:"stdout,omitempty"`
	Stderr  string            `json:"stderr,omitempty"`
}

// Coverage holds testbench-reported coverage percentages.
type Coverage struct {
	Line       float64  `json:"line"`
	Toggle     float64  `json:"toggle"`
	FSM        float64  `json:"fsm"`
	Functional *float64 `json:"functional,omitempty"`
}

// Result is the outcome of one simulation run.
type Result struct {
	// Success means the simulation ran to completion; it says nothing
	// about the testbench verdict, which is Passed.
	Success bool `json:"success"`

	// Passed is the testbench verdict derived from captured stdout.
	Passed bool `json:"passed"`

	// Coverage is set when the run reported coverage figures.
	Coverage *Coverage `json:"coverage,omitempty"`

	// Waveform is the dump file path when one was produced. The file's
	// lifecycle belongs to the tool and the caller, not this layer.
	Waveform string `json:"waveform,omitempty"`

	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// Options tunes one compile/simulate pair.
type Options struct {
	// Top is the top-level module to elaborate.
	Top string

	// Waves enables waveform dumping.
	Waves bool
}

// Simulator is the simulation category capability.
type Simulator interface {
	tool.Adapter

	// Compile builds the simulation executable and retains it for the
	// following Simulate call on this instance.
	Compile(ctx context.Context, files []string, opts Options) CompileResult

	// Simulate runs the last compiled executable.
	Simulate(ctx context.Context, opts Options) Result
}

// ============================================================================
// Pass/Fail Detection
// ============================================================================
// The testbench verdict is derived from captured standard output. Failure
// patterns are checked first: any match makes the run a failure even when a
// pass pattern is also present. Only when no failure pattern matches are the
// pass patterns consulted. When neither list matches anything, the default
// verdict is pass - a documented heuristic risk, preserved for parity with
// established behavior.

var failPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bFAILED\b`),
	regexp.MustCompile(`(?i)\bFAILURE\b`),
	regexp.MustCompile(`(?im)^\s*FAIL\b`),
	regexp.MustCompile(`(?i)\bTEST FAILED\b`),
	regexp.MustCompile(`(?i)assertion (failed|error)`),
	regexp.MustCompile(`\bERROR:`),
	regexp.MustCompile(`\bFATAL\b`),
	regexp.MustCompile(`\$fatal`),
}

var passPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bPASSED\b`),
	regexp.MustCompile(`(?i)\bTEST PASSED\b`),
	regexp.MustCompile(`(?i)all tests passed`),
	regexp.MustCompile(`(?im)^\s*PASS\b`),
}

// EvaluatePassFail derives the testbench verdict from stdout.
func EvaluatePassFail(stdout string) bool {
	for _, p := range failPatterns {
		if p.MatchString(stdout) {
			return false
		}
	}
	for _, p := range passPatterns {
		if p.MatchString(stdout) {
			return true
		}
	}
	// No marker either way: assume pass.
	return true
}

// coveragePattern matches testbench coverage summary lines such as
// "line coverage: 95.20%" or "Toggle coverage = 88.1%".
var coveragePattern = regexp.MustCompile(`(?i)^\s*(line|toggle|fsm|functional)\s+coverage\s*[:=]\s*([0-9.]+)\s*%`)

// parseCoverage extracts coverage figures from simulation output. Returns
// nil when the run reported none.
func parseCoverage(out string) *Coverage {
	var cov *Coverage
	for _, line := range strings.Split(out, "\n") {
		m := coveragePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pct, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if cov == nil {
			cov = &Coverage{}
		}
		switch strings.ToLower(m[1]) {
		case "line":
			cov.Line = pct
		case "toggle":
			cov.Toggle = pct
		case "fsm":
			cov.FSM = pct
		case "functional":
			f := pct
			cov.Functional = &f
		}
	}
	return cov
}

// waveformPattern matches the dump-file notice printed when a waveform is
// opened (e.g. Icarus: "VCD info: dumpfile dump.vcd opened for output").
var waveformPattern = regexp.MustCompile(`dumpfile\s+(\S+)\s+opened`)

// parseWaveform extracts the dump file path from simulation output.
func parseWaveform(out string) string {
	m := waveformPattern.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	return m[1]
}
