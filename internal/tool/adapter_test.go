package tool

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babyworm/hdlkit/internal/runner"
)

// scriptRunner replays canned results; the dispatch function sees the full
// command so tests can branch on argv.
type scriptRunner struct {
	fn    func(runner.Command) *runner.Result
	calls []runner.Command
}

func (s *scriptRunner) Run(_ context.Context, cmd runner.Command) (*runner.Result, error) {
	s.calls = append(s.calls, cmd)
	return s.fn(cmd), nil
}

func probeResult(stdout string) *runner.Result {
	return &runner.Result{ExitCode: 0, Stdout: stdout}
}

func testBase(run runner.Runner) *Base {
	return NewBase(
		Descriptor{
			Name:        "verilator",
			Category:    CategoryLint,
			Kind:        KindOpenSource,
			Command:     "verilator",
			DefaultArgs: []string{"--lint-only"},
		},
		Probe{
			Args:           []string{"--version"},
			Match:          "Verilator",
			VersionPattern: regexp.MustCompile(`Verilator\s+([\d.]+)`),
		},
		run,
		"lint",
	)
}

func TestBase_DetectInstalled(t *testing.T) {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return probeResult("Verilator 5.020 2023-10-29")
	}}
	b := testBase(run)

	res := b.Detect(context.Background())
	assert.True(t, res.Installed)
	assert.Equal(t, "5.020", res.Version)

	require.Len(t, run.calls, 1)
	assert.Equal(t, "verilator", run.calls[0].Binary)
	assert.Equal(t, []string{"--version"}, run.calls[0].Args)
}

func TestBase_DetectMissingBinary(t *testing.T) {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return &runner.Result{ExitCode: -1, SpawnError: `exec: "verilator": executable file not found in $PATH`}
	}}
	b := testBase(run)

	res := b.Detect(context.Background())
	assert.False(t, res.Installed)
	assert.Equal(t, VersionUnknown, res.Version)
	assert.False(t, b.IsInstalled(context.Background()))
	assert.Equal(t, VersionUnknown, b.Version(context.Background()))
}

func TestBase_DetectRejectsImpostorBinary(t *testing.T) {
	// An unrelated binary shadowing the command name exits zero but does
	// not print the product name.
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return probeResult("totally different tool v9")
	}}
	b := testBase(run)

	assert.False(t, b.IsInstalled(context.Background()))
}

func TestBase_DetectVersionUnparseable(t *testing.T) {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return probeResult("Verilator custom-build")
	}}
	b := testBase(run)

	res := b.Detect(context.Background())
	assert.True(t, res.Installed)
	assert.Equal(t, VersionUnknown, res.Version)
}

func TestBase_DetectAcceptedNonZeroExit(t *testing.T) {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return &runner.Result{ExitCode: 1, Stdout: "Verilator 5.020"}
	}}
	b := NewBase(
		Descriptor{Name: "verilator", Command: "verilator"},
		Probe{Args: []string{"--version"}, Match: "Verilator", AcceptExitCodes: []int{1}},
		run,
		"lint",
	)

	assert.True(t, b.IsInstalled(context.Background()))
}

func TestBase_ExecPrependsDefaultArgs(t *testing.T) {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return &runner.Result{ExitCode: 0, Stdout: "ok"}
	}}
	b := testBase(run)

	res := b.Exec(context.Background(), []string{"-Wall", "top.v"}, time.Minute)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.ExitCode)

	require.Len(t, run.calls, 1)
	assert.Equal(t, []string{"--lint-only", "-Wall", "top.v"}, run.calls[0].Args)
	assert.Equal(t, time.Minute, run.calls[0].Timeout)
}

func TestBase_ExecNonZeroExit(t *testing.T) {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return &runner.Result{ExitCode: 2, Stderr: "%Error: top.v:1:1: syntax error"}
	}}
	b := testBase(run)

	res := b.Exec(context.Background(), []string{"top.v"}, time.Minute)
	assert.False(t, res.Success)
	assert.Equal(t, 2, res.ExitCode)
	assert.Contains(t, res.Stderr, "syntax error")
}

func TestBase_ExecTimeoutFoldedIntoStderr(t *testing.T) {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return &runner.Result{ExitCode: -1, Killed: true, KillReason: "timeout after 1m0s", Stderr: "partial output"}
	}}
	b := testBase(run)

	res := b.Exec(context.Background(), []string{"top.v"}, time.Minute)
	assert.False(t, res.Success)
	assert.Contains(t, res.Stderr, "partial output")
	assert.Contains(t, res.Stderr, "timeout after")
}

func TestBase_ExecSpawnFailure(t *testing.T) {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return &runner.Result{ExitCode: -1, SpawnError: "exec: not found"}
	}}
	b := testBase(run)

	res := b.Exec(context.Background(), nil, time.Minute)
	assert.False(t, res.Success)
	assert.Contains(t, res.Stderr, "not found")
}

func TestBase_ExecStdinForwardsScript(t *testing.T) {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		return &runner.Result{ExitCode: 0}
	}}
	b := testBase(run)

	b.ExecStdin(context.Background(), nil, "report_checks\n", time.Minute)
	require.Len(t, run.calls, 1)
	assert.Equal(t, "report_checks\n", run.calls[0].Stdin)
}

func TestExecResult_Output(t *testing.T) {
	assert.Equal(t, "out", (&ExecResult{Stdout: "out"}).Output())
	assert.Equal(t, "err", (&ExecResult{Stderr: "err"}).Output())
	assert.Equal(t, "out\nerr", (&ExecResult{Stdout: "out", Stderr: "err"}).Output())
}
