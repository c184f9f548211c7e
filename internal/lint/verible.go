package lint

import (
	"context"
	"regexp"
	"time"

	"github.com/babyworm/hdlkit/internal/logging"
	"github.com/babyworm/hdlkit/internal/runner"
	"github.com/babyworm/hdlkit/internal/tool"
)

// Verible lint message format:
//
//	top.v:10:5: explicit storage type is preferred [explicit-storage-type]
//
// Verible is a style linter with no severity token; messages containing the
// substring "error" are promoted to error severity, everything else is a
// warning. A heuristic, not a guarantee.
var veribleGrammar = &tool.LineGrammar{
	Pattern:       regexp.MustCompile(`^(?P<file>[^:\s][^:]*):(?P<line>\d+):(?P<col>\d+):?\s+(?P<msg>.*?)\s+\[(?P<code>[^\]]+)\]$`),
	Default:       tool.SeverityWarning,
	PromoteErrors: true,
}

var veribleVersion = regexp.MustCompile(`v(\d+\.\d+-\d+[^\s]*)`)

// Verible adapts verible-verilog-lint.
type Verible struct {
	*tool.Base
	timeout time.Duration
}

// NewVerible creates the Verible lint adapter.
func NewVerible(run runner.Runner, timeout time.Duration) (*Verible, error) {
	desc := tool.Descriptor{
		Name:     "verible",
		Category: tool.CategoryLint,
		Kind:     tool.KindOpenSource,
		Command:  "verible-verilog-lint",
	}
	probe := tool.Probe{
		Args:           []string{"--version"},
		Match:          "erible", // output casing varies between releases
		VersionPattern: veribleVersion,
	}
	return &Verible{
		Base:    tool.NewBase(desc, probe, run, logging.CategoryLint),
		timeout: timeout,
	}, nil
}

// Lint implements Linter. Verible exits non-zero when any rule fires, so a
// style finding shows up as Success=false with Warnings populated.
func (v *Verible) Lint(ctx context.Context, files []string) Result {
	exec := v.Exec(ctx, files, v.timeout)
	return resultFromExec(exec, veribleGrammar.Parse(exec.Output()))
}
