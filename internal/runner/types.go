// Package runner is the process invocation layer of hdlkit. It spawns one
// external tool process per call with a structured argument vector (no shell
// interpolation), captures bounded output, and enforces per-call timeouts
// through context cancellation.
//
// The runner reports infrastructure outcomes only. A command that runs and
// exits non-zero is a successful execution from the runner's point of view;
// deciding what a non-zero exit means is the calling adapter's job.
package runner

import (
	"strings"
	"time"
)

// Command specifies one external process invocation.
type Command struct {
	// Binary is the executable to run (e.g. "verilator", "yosys").
	Binary string `json:"binary"`

	// Args is the argument vector. Never passed through a shell.
	Args []string `json:"args"`

	// Dir is the working directory. Empty means the runner default.
	Dir string `json:"dir,omitempty"`

	// Env lists KEY=VALUE overrides merged over the allowed environment.
	Env []string `json:"env,omitempty"`

	// Stdin provides input to the command's standard input.
	Stdin string `json:"stdin,omitempty"`

	// Timeout bounds wall-clock execution. Zero means the runner default.
	Timeout time.Duration `json:"timeout,omitempty"`

	// RequestID correlates this invocation in logs and observer events.
	// Assigned by the runner when empty.
	RequestID string `json:"request_id,omitempty"`
}

// String renders the command for logging.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of one invocation.
type Result struct {
	// ExitCode is the process exit code, -1 when unavailable.
	ExitCode int `json:"exit_code"`

	// Stdout and Stderr are the captured streams, possibly truncated.
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`

	// Killed is set when the process was terminated by timeout or
	// cancellation; KillReason explains which.
	Killed     bool   `json:"killed"`
	KillReason string `json:"kill_reason,omitempty"`

	// Truncated is set when output exceeded the capture limit.
	Truncated bool `json:"truncated"`

	// SpawnError carries the infrastructure failure (binary missing,
	// permission denied) that prevented the process from running.
	SpawnError string `json:"spawn_error,omitempty"`

	Duration  time.Duration `json:"duration"`
	RequestID string        `json:"request_id,omitempty"`
}

// Ran reports whether the process actually started and produced an exit
// status. Timeouts count as ran; spawn failures do not.
func (r *Result) Ran() bool {
	return r.SpawnError == ""
}

// Output returns stdout and stderr joined, for grammar parsing. Most HDL
// tools split findings across both streams.
func (r *Result) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// EventKind categorizes observer events.
type EventKind string

const (
	EventStart    EventKind = "start"
	EventComplete EventKind = "complete"
	EventKilled   EventKind = "killed"
	EventError    EventKind = "error"
)

// Event is emitted to the observer around each invocation.
type Event struct {
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Command   Command   `json:"command"`
	Result    *Result   `json:"result,omitempty"`
}

// Config tunes a runner instance.
type Config struct {
	// DefaultDir is used when Command.Dir is empty.
	DefaultDir string

	// DefaultTimeout applies when Command.Timeout is zero.
	DefaultTimeout time.Duration

	// MaxTimeout caps every timeout value.
	MaxTimeout time.Duration

	// MaxOutputBytes caps captured stdout and stderr, each.
	MaxOutputBytes int64

	// AllowedEnv lists environment variables passed through from the
	// parent process. Command.Env entries are appended after these.
	AllowedEnv []string

	// Observer, when set, receives an event per invocation phase.
	Observer func(Event)
}

// DefaultConfig returns sensible defaults for interactive tool runs.
func DefaultConfig() Config {
	return Config{
		DefaultDir:     ".",
		DefaultTimeout: 2 * time.Minute,
		MaxTimeout:     30 * time.Minute,
		MaxOutputBytes: 10 * 1024 * 1024,
		AllowedEnv: []string{
			"PATH", "HOME", "USER", "LANG", "LC_ALL", "TMPDIR",
			"LM_LICENSE_FILE", "SNPSLMD_LICENSE_FILE",
		},
	}
}
