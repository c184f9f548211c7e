package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/babyworm/hdlkit/internal/logging"
)

// Runner executes external tool commands.
type Runner interface {
	// Run spawns the command and blocks until it exits, its timeout
	// elapses, or ctx is canceled. The returned error is reserved for
	// misuse (empty binary); every runtime failure is folded into the
	// Result so callers can treat outcomes uniformly.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Local runs commands directly on the host.
type Local struct {
	config Config
}

// NewLocal creates a host runner with the given config.
func NewLocal(config Config) *Local {
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = DefaultConfig().DefaultTimeout
	}
	if config.MaxOutputBytes <= 0 {
		config.MaxOutputBytes = DefaultConfig().MaxOutputBytes
	}
	return &Local{config: config}
}

// NewDefault creates a host runner with default config.
func NewDefault() *Local {
	return NewLocal(DefaultConfig())
}

// Run implements Runner.
func (l *Local) Run(ctx context.Context, cmd Command) (*Result, error) {
	log := logging.L(logging.CategoryRunner)

	if cmd.Binary == "" {
		return nil, errors.New("runner: binary is required")
	}
	if cmd.RequestID == "" {
		cmd.RequestID = uuid.NewString()
	}
	if cmd.Dir == "" {
		cmd.Dir = l.config.DefaultDir
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = l.config.DefaultTimeout
	}
	if l.config.MaxTimeout > 0 && timeout > l.config.MaxTimeout {
		timeout = l.config.MaxTimeout
	}

	log.Debugw("spawning", "req", cmd.RequestID, "cmd", cmd.String(), "dir", cmd.Dir, "timeout", timeout)
	l.emit(Event{Kind: EventStart, Timestamp: time.Now(), Command: cmd})

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	proc := exec.CommandContext(execCtx, cmd.Binary, cmd.Args...)
	proc.Dir = cmd.Dir
	proc.Env = l.buildEnvironment(cmd.Env)
	if cmd.Stdin != "" {
		proc.Stdin = strings.NewReader(cmd.Stdin)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	stdout := &limitedWriter{w: &stdoutBuf, max: l.config.MaxOutputBytes}
	stderr := &limitedWriter{w: &stderrBuf, max: l.config.MaxOutputBytes}
	proc.Stdout = stdout
	proc.Stderr = stderr

	result := &Result{ExitCode: -1, RequestID: cmd.RequestID}
	started := time.Now()
	err := proc.Run()
	result.Duration = time.Since(started)
	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()
	result.Truncated = stdout.truncated || stderr.truncated

	switch {
	case err == nil:
		result.ExitCode = 0
		log.Debugw("completed", "req", cmd.RequestID, "exit", 0, "duration", result.Duration)
		l.emit(Event{Kind: EventComplete, Timestamp: time.Now(), Command: cmd, Result: result})

	case execCtx.Err() == context.DeadlineExceeded:
		result.Killed = true
		result.KillReason = fmt.Sprintf("timeout after %s", timeout)
		log.Warnw("killed", "req", cmd.RequestID, "reason", result.KillReason)
		l.emit(Event{Kind: EventKilled, Timestamp: time.Now(), Command: cmd, Result: result})

	case execCtx.Err() == context.Canceled:
		result.Killed = true
		result.KillReason = "canceled"
		log.Debugw("canceled", "req", cmd.RequestID)
		l.emit(Event{Kind: EventKilled, Timestamp: time.Now(), Command: cmd, Result: result})

	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			log.Debugw("completed", "req", cmd.RequestID, "exit", result.ExitCode, "duration", result.Duration)
			l.emit(Event{Kind: EventComplete, Timestamp: time.Now(), Command: cmd, Result: result})
		} else {
			result.SpawnError = err.Error()
			log.Debugw("spawn failed", "req", cmd.RequestID, "err", err)
			l.emit(Event{Kind: EventError, Timestamp: time.Now(), Command: cmd, Result: result})
		}
	}

	return result, nil
}

func (l *Local) emit(ev Event) {
	if l.config.Observer != nil {
		l.config.Observer(ev)
	}
}

// buildEnvironment passes through allowed variables, then appends
// command-specific overrides.
func (l *Local) buildEnvironment(cmdEnv []string) []string {
	env := make([]string, 0, len(l.config.AllowedEnv)+len(cmdEnv))
	for _, key := range l.config.AllowedEnv {
		if val := os.Getenv(key); val != "" {
			env = append(env, key+"="+val)
		}
	}
	return append(env, cmdEnv...)
}

// limitedWriter caps total bytes written, discarding the excess. The
// original length is reported back to avoid short-write errors.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.written >= lw.max {
		lw.truncated = true
		return n, nil
	}
	if remaining := lw.max - lw.written; int64(n) > remaining {
		lw.truncated = true
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err
	}
	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
