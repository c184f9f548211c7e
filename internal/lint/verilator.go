package lint

import (
	"context"
	"regexp"
	"time"

	"github.com/babyworm/hdlkit/internal/logging"
	"github.com/babyworm/hdlkit/internal/runner"
	"github.com/babyworm/hdlkit/internal/tool"
)

// Verilator message format:
//
//	%Warning-WIDTH: top.v:10:5: message text
//	%Error: top.v:3:1: syntax error
//
// The severity token drives classification; the code suffix is optional.
var verilatorGrammar = &tool.LineGrammar{
	Pattern: regexp.MustCompile(`^%(?P<sev>[A-Za-z]+?)(?:-(?P<code>[A-Z0-9_]+))?: (?P<file>[^:]+):(?P<line>\d+):(?P<col>\d+):\s*(?P<msg>.*)$`),
	Severities: map[string]tool.Severity{
		"error":   tool.SeverityError,
		"warning": tool.SeverityWarning,
		"info":    tool.SeverityInfo,
	},
	Default: tool.SeverityWarning,
}

var verilatorVersion = regexp.MustCompile(`Verilator\s+(\d+\.\d+[^\s]*)`)

// Verilator adapts the Verilator linter (lint-only mode).
type Verilator struct {
	*tool.Base
	timeout time.Duration
}

// NewVerilator creates the Verilator lint adapter.
func NewVerilator(run runner.Runner, timeout time.Duration) (*Verilator, error) {
	desc := tool.Descriptor{
		Name:        "verilator",
		Category:    tool.CategoryLint,
		Kind:        tool.KindOpenSource,
		Command:     "verilator",
		DefaultArgs: []string{"--lint-only", "-Wall"},
	}
	probe := tool.Probe{
		Args:           []string{"--version"},
		Match:          "Verilator",
		VersionPattern: verilatorVersion,
	}
	return &Verilator{
		Base:    tool.NewBase(desc, probe, run, logging.CategoryLint),
		timeout: timeout,
	}, nil
}

// Lint implements Linter. Verilator exits non-zero when it finds errors;
// that is reported as Success=false with the parsed findings, not a fault.
func (v *Verilator) Lint(ctx context.Context, files []string) Result {
	exec := v.Exec(ctx, files, v.timeout)
	return resultFromExec(exec, verilatorGrammar.Parse(exec.Output()))
}
