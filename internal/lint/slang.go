package lint

import (
	"context"
	"regexp"
	"time"

	"github.com/babyworm/hdlkit/internal/logging"
	"github.com/babyworm/hdlkit/internal/runner"
	"github.com/babyworm/hdlkit/internal/tool"
)

// Slang message format (clang-style):
//
//	top.v:10:5: error: message text
//	top.v:12:3: warning: message text
//	top.v:12:3: note: expanded from here
//
// Severity maps directly; "note" lands on info.
var slangGrammar = &tool.LineGrammar{
	Pattern: regexp.MustCompile(`^(?P<file>[^:\s][^:]*):(?P<line>\d+):(?P<col>\d+): (?P<sev>error|warning|note): (?P<msg>.*)$`),
	Severities: map[string]tool.Severity{
		"error":   tool.SeverityError,
		"warning": tool.SeverityWarning,
		"note":    tool.SeverityInfo,
	},
	Default: tool.SeverityWarning,
}

var slangVersion = regexp.MustCompile(`slang\s+version\s+(\d+[^\s]*)`)

// Slang adapts the slang SystemVerilog compiler in lint-only mode.
type Slang struct {
	*tool.Base
	timeout time.Duration
}

// NewSlang creates the slang lint adapter.
func NewSlang(run runner.Runner, timeout time.Duration) (*Slang, error) {
	desc := tool.Descriptor{
		Name:        "slang",
		Category:    tool.CategoryLint,
		Kind:        tool.KindOpenSource,
		Command:     "slang",
		DefaultArgs: []string{"--lint-only"},
	}
	probe := tool.Probe{
		Args:           []string{"--version"},
		Match:          "slang",
		VersionPattern: slangVersion,
	}
	return &Slang{
		Base:    tool.NewBase(desc, probe, run, logging.CategoryLint),
		timeout: timeout,
	}, nil
}

// Lint implements Linter.
func (s *Slang) Lint(ctx context.Context, files []string) Result {
	exec := s.Exec(ctx, files, s.timeout)
	return resultFromExec(exec, slangGrammar.Parse(exec.Output()))
}
