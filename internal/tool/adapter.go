package tool

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/babyworm/hdlkit/internal/logging"
	"github.com/babyworm/hdlkit/internal/runner"
)

// ============================================================================
// Adapter Base Capability
// ============================================================================
// Every adapter, regardless of category, exposes installation probing,
// best-effort version extraction, and raw execution. Category packages embed
// *Base and add their category method (Lint, Compile+Simulate, Synthesize).

// Adapter is the capability shared by every tool adapter.
type Adapter interface {
	// Name is the registry key within the adapter's category.
	Name() string

	// Descriptor returns the adapter's static metadata.
	Descriptor() Descriptor

	// IsInstalled probes the underlying binary. It returns false, never
	// an error, on a missing binary, spawn failure, or unexpected exit.
	IsInstalled(ctx context.Context) bool

	// Version extracts a version token from the probe output, returning
	// VersionUnknown rather than failing.
	Version(ctx context.Context) string
}

// Probe describes how to detect a tool and read its version.
type Probe struct {
	// Args is the version-query argument vector (e.g. ["--version"]).
	Args []string

	// Match is the product-name substring expected in the probe output.
	// Installation is inferred from exit success plus this match, which
	// guards against unrelated binaries shadowing the command name.
	Match string

	// VersionPattern captures the version token from the probe output.
	// Its first capture group is the token.
	VersionPattern *regexp.Regexp

	// AcceptExitCodes lists non-zero exit codes that still count as a
	// successful probe. Some tools exit non-zero on bare version queries.
	AcceptExitCodes []int
}

// ExecResult is the adapter-level outcome of running a category operation's
// underlying process. Success means exit code zero; adapters whose tools
// signal findings via non-zero exit report Success=false with Errors
// populated, which is an expected category outcome, not a fault.
type ExecResult struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Errors   []Diagnostic
}

// Output returns stdout and stderr joined for grammar parsing.
func (r *ExecResult) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// Base implements the shared capability over a runner. Category adapters
// embed it and supply their descriptor and probe at construction.
type Base struct {
	desc  Descriptor
	probe Probe
	run   runner.Runner
	cat   logging.Category
}

// NewBase wires a base adapter. run must not be nil.
func NewBase(desc Descriptor, probe Probe, run runner.Runner, cat logging.Category) *Base {
	return &Base{desc: desc, probe: probe, run: run, cat: cat}
}

// Name implements Adapter.
func (b *Base) Name() string { return b.desc.Name }

// Runner exposes the underlying runner for adapters that drive a second
// binary (e.g. a compiler/runtime pair).
func (b *Base) Runner() runner.Runner { return b.run }

// Descriptor implements Adapter.
func (b *Base) Descriptor() Descriptor { return b.desc }

// Detect runs the probe once and reports installation plus version. The
// probe result is recomputed on every call; nothing is cached.
func (b *Base) Detect(ctx context.Context) DetectionResult {
	out, ok := b.probeOutput(ctx)
	if !ok {
		return DetectionResult{Installed: false, Version: VersionUnknown}
	}
	return DetectionResult{Installed: true, Version: b.extractVersion(out)}
}

// IsInstalled implements Adapter.
func (b *Base) IsInstalled(ctx context.Context) bool {
	_, ok := b.probeOutput(ctx)
	return ok
}

// Version implements Adapter.
func (b *Base) Version(ctx context.Context) string {
	out, ok := b.probeOutput(ctx)
	if !ok {
		return VersionUnknown
	}
	return b.extractVersion(out)
}

// probeOutput runs the version probe and applies the product-name check.
func (b *Base) probeOutput(ctx context.Context) (string, bool) {
	res, err := b.run.Run(ctx, runner.Command{
		Binary:  b.desc.Command,
		Args:    b.probe.Args,
		Env:     b.desc.Env,
		Timeout: 10 * time.Second,
	})
	if err != nil || !res.Ran() || res.Killed {
		return "", false
	}
	if res.ExitCode != 0 && !b.acceptsExit(res.ExitCode) {
		return "", false
	}
	out := res.Output()
	if b.probe.Match != "" && !strings.Contains(out, b.probe.Match) {
		logging.L(b.cat).Debugw("probe output missing product name",
			"tool", b.desc.Name, "want", b.probe.Match)
		return "", false
	}
	return out, true
}

func (b *Base) acceptsExit(code int) bool {
	for _, c := range b.probe.AcceptExitCodes {
		if c == code {
			return true
		}
	}
	return false
}

func (b *Base) extractVersion(out string) string {
	if b.probe.VersionPattern == nil {
		return VersionUnknown
	}
	m := b.probe.VersionPattern.FindStringSubmatch(out)
	if len(m) < 2 {
		return VersionUnknown
	}
	return m[1]
}

// Exec spawns the tool's command with the given arguments and maps the raw
// runner result onto the adapter contract: spawn failures and timeouts are
// folded into Success=false with the reason on Stderr.
func (b *Base) Exec(ctx context.Context, args []string, timeout time.Duration) *ExecResult {
	return b.ExecStdin(ctx, args, "", timeout)
}

// ExecStdin is Exec with input on the process's standard input, for tools
// driven by a command script (e.g. sta, dc_shell).
func (b *Base) ExecStdin(ctx context.Context, args []string, stdin string, timeout time.Duration) *ExecResult {
	argv := append(append([]string{}, b.desc.DefaultArgs...), args...)
	res, err := b.run.Run(ctx, runner.Command{
		Binary:  b.desc.Command,
		Args:    argv,
		Env:     b.desc.Env,
		Stdin:   stdin,
		Timeout: timeout,
	})
	if err != nil {
		return &ExecResult{Success: false, ExitCode: -1, Stderr: err.Error()}
	}

	out := &ExecResult{
		Success:  res.Ran() && !res.Killed && res.ExitCode == 0,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}
	switch {
	case !res.Ran():
		out.Stderr = joinStderr(out.Stderr, res.SpawnError)
	case res.Killed:
		out.Stderr = joinStderr(out.Stderr, res.KillReason)
	}
	return out
}

func joinStderr(stderr, extra string) string {
	if stderr == "" {
		return extra
	}
	return stderr + "\n" + extra
}
