package runner

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunEcho(t *testing.T) {
	r := NewDefault()
	res, err := r.Run(context.Background(), Command{Binary: "echo", Args: []string{"hello", "world"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Ran() {
		t.Fatalf("expected process to run, spawn error: %s", res.SpawnError)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if got := strings.TrimSpace(res.Stdout); got != "hello world" {
		t.Errorf("stdout = %q, want %q", got, "hello world")
	}
	if res.RequestID == "" {
		t.Error("expected a generated request ID")
	}
}

func TestRunNonZeroExit(t *testing.T) {
	r := NewDefault()
	res, err := r.Run(context.Background(), Command{Binary: "sh", Args: []string{"-c", "exit 3"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Ran() {
		t.Fatal("expected process to run")
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if res.Killed {
		t.Error("non-zero exit must not be reported as killed")
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := NewDefault()
	res, err := r.Run(context.Background(), Command{Binary: "definitely-not-a-real-binary-xyz"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Ran() {
		t.Fatal("expected a spawn failure")
	}
	if res.ExitCode != -1 {
		t.Errorf("exit code = %d, want -1", res.ExitCode)
	}
	if res.SpawnError == "" {
		t.Error("expected SpawnError to be populated")
	}
}

func TestRunEmptyBinaryIsMisuse(t *testing.T) {
	r := NewDefault()
	if _, err := r.Run(context.Background(), Command{}); err == nil {
		t.Fatal("expected an error for empty binary")
	}
}

func TestRunTimeout(t *testing.T) {
	r := NewDefault()
	start := time.Now()
	res, err := r.Run(context.Background(), Command{
		Binary:  "sleep",
		Args:    []string{"10"},
		Timeout: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Killed {
		t.Fatal("expected the process to be killed")
	}
	if !strings.Contains(res.KillReason, "timeout") {
		t.Errorf("kill reason = %q, want a timeout reason", res.KillReason)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("kill took %s, expected prompt termination", elapsed)
	}
}

func TestRunContextCancellation(t *testing.T) {
	r := NewDefault()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	res, err := r.Run(ctx, Command{Binary: "sleep", Args: []string{"10"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Killed {
		t.Fatal("expected the process to be killed")
	}
	if res.KillReason != "canceled" {
		t.Errorf("kill reason = %q, want %q", res.KillReason, "canceled")
	}
}

func TestRunOutputTruncation(t *testing.T) {
	r := NewLocal(Config{MaxOutputBytes: 64, DefaultTimeout: time.Minute})
	res, err := r.Run(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "yes x | head -c 4096"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Truncated {
		t.Error("expected output to be marked truncated")
	}
	if len(res.Stdout) > 64 {
		t.Errorf("stdout length = %d, want <= 64", len(res.Stdout))
	}
}

func TestRunEnvironmentIsFiltered(t *testing.T) {
	t.Setenv("HDLKIT_SECRET_TEST_VAR", "visible")
	r := NewDefault()
	res, err := r.Run(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "echo ${HDLKIT_SECRET_TEST_VAR:-filtered}"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(res.Stdout); got != "filtered" {
		t.Errorf("unlisted variable leaked through: %q", got)
	}
}

func TestRunCommandEnvOverrides(t *testing.T) {
	r := NewDefault()
	res, err := r.Run(context.Background(), Command{
		Binary: "sh",
		Args:   []string{"-c", "echo $TOOL_FLAG"},
		Env:    []string{"TOOL_FLAG=on"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(res.Stdout); got != "on" {
		t.Errorf("TOOL_FLAG = %q, want %q", got, "on")
	}
}

func TestRunWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	r := NewDefault()
	res, err := r.Run(context.Background(), Command{Binary: "pwd", Dir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(res.Stdout); got != dir {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}

func TestRunObserverSeesLifecycle(t *testing.T) {
	var kinds []EventKind
	cfg := DefaultConfig()
	cfg.Observer = func(ev Event) { kinds = append(kinds, ev.Kind) }

	r := NewLocal(cfg)
	if _, err := r.Run(context.Background(), Command{Binary: "true"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != EventStart || kinds[1] != EventComplete {
		t.Errorf("events = %v, want [start complete]", kinds)
	}
}

func TestCommandString(t *testing.T) {
	if got := (Command{Binary: "yosys"}).String(); got != "yosys" {
		t.Errorf("String() = %q", got)
	}
	c := Command{Binary: "iverilog", Args: []string{"-g2012", "top.v"}}
	if got := c.String(); got != "iverilog -g2012 top.v" {
		t.Errorf("String() = %q", got)
	}
}

func TestResultOutput(t *testing.T) {
	cases := []struct {
		stdout, stderr, want string
	}{
		{"out", "", "out"},
		{"", "err", "err"},
		{"out", "err", "out\nerr"},
	}
	for _, c := range cases {
		r := Result{Stdout: c.stdout, Stderr: c.stderr}
		if got := r.Output(); got != c.want {
			t.Errorf("Output(%q, %q) = %q, want %q", c.stdout, c.stderr, got, c.want)
		}
	}
}
