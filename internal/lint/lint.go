// Package lint orchestrates HDL static-analysis tools. It detects which of
// the known linters (Verilator, Slang, Verible) is installed, selects one
// per invocation, runs it against a file list, and normalizes its output
// into shared diagnostics.
//
// The public surface never returns errors for runtime conditions: a missing
// toolchain, a crashed tool, or a tool that found problems all surface as a
// Result with Success=false.
package lint

import (
	"context"

	"github.com/babyworm/hdlkit/internal/tool"
)

// Result is the outcome of one lint operation.
type Result struct {
	// Success reflects the tool's own verdict (exit code zero). A linter
	// that ran and reported findings yields Success=false with the
	// findings in Errors/Warnings, which is an expected outcome.
	Success bool `json:"success"`

	// Warnings holds warning, info, and hint severity diagnostics.
	Warnings []tool.Diagnostic `json:"warnings"`

	// Errors holds error-severity diagnostics.
	Errors []tool.Diagnostic `json:"errors"`

	// Stdout and Stderr are the raw captured streams.
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// Linter is the lint category capability.
type Linter interface {
	tool.Adapter

	// Lint runs the tool in analysis-only mode against files.
	Lint(ctx context.Context, files []string) Result
}

// resultFromExec folds an adapter-level execution into a Result using the
// adapter's grammar output.
func resultFromExec(exec *tool.ExecResult, diags []tool.Diagnostic) Result {
	errors, warnings := tool.SplitBySeverity(diags)
	return Result{
		Success:  exec.Success,
		Warnings: warnings,
		Errors:   errors,
		Stdout:   exec.Stdout,
		Stderr:   exec.Stderr,
	}
}
