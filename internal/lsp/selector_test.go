package lsp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babyworm/hdlkit/internal/runner"
	"github.com/babyworm/hdlkit/internal/tool"
)

type scriptRunner struct {
	fn func(runner.Command) *runner.Result
}

func (s *scriptRunner) Run(_ context.Context, cmd runner.Command) (*runner.Result, error) {
	return s.fn(cmd), nil
}

// chainServer builds a Server whose installation state is fixed.
func chainServer(name string, installed bool, diagnose diagnoseFunc) *Server {
	run := &scriptRunner{fn: func(runner.Command) *runner.Result {
		if !installed {
			return &runner.Result{ExitCode: -1, SpawnError: "exec: not found"}
		}
		return &runner.Result{ExitCode: 0, Stdout: name + " 0.3.1"}
	}}
	return &Server{
		Base: tool.NewBase(
			tool.Descriptor{Name: name, Category: tool.CategoryLSP, Command: name},
			tool.Probe{Args: []string{"--version"}},
			run,
			"lsp",
		),
		diagnose: diagnose,
	}
}

func TestSelectorFirstInstalledWins(t *testing.T) {
	s := NewSelectorWithChain(
		chainServer("verible-ls", false, nil),
		chainServer("svls", true, nil),
		chainServer("veridian", true, nil),
	)

	server := s.Select(context.Background())
	require.NotNil(t, server)
	assert.Equal(t, "svls", server.Name())
	assert.Equal(t, "svls", s.SelectedName(context.Background()))
}

func TestSelectorNoneSentinel(t *testing.T) {
	s := NewSelectorWithChain(
		chainServer("verible-ls", false, nil),
		chainServer("svls", false, nil),
	)

	assert.Nil(t, s.Select(context.Background()))
	assert.Equal(t, None, s.SelectedName(context.Background()))
}

func TestSelectorDiagnosticsDegradeToEmpty(t *testing.T) {
	// Nothing installed: no diagnostics, no error.
	empty := NewSelectorWithChain(chainServer("svls", false, nil))
	assert.Empty(t, empty.Diagnostics(context.Background(), []string{"top.v"}))

	// Installed but without a batch checking mode: same shape.
	noBatch := NewSelectorWithChain(chainServer("svls", true, nil))
	assert.Empty(t, noBatch.Diagnostics(context.Background(), []string{"top.v"}))
}

func TestSelectorDiagnosticsFromBatchChecker(t *testing.T) {
	want := []tool.Diagnostic{{
		File: "top.v", Line: 10, Column: 5,
		Severity: tool.SeverityError, Message: `syntax error at token "endmodule"`,
	}}
	s := NewSelectorWithChain(chainServer("verible-ls", true, func(context.Context, []string) []tool.Diagnostic {
		return want
	}))

	got := s.Diagnostics(context.Background(), []string{"top.v"})
	assert.Equal(t, want, got)
}

func TestVeribleSyntaxGrammar(t *testing.T) {
	diags := veribleSyntaxGrammar.Parse(`top.v:10:5-8: syntax error at token "endmodule"
top.v:12:1: rejected token`)

	require.Len(t, diags, 2)
	assert.Equal(t, 10, diags[0].Line)
	assert.Equal(t, 5, diags[0].Column)
	assert.Equal(t, tool.SeverityError, diags[0].Severity)
	assert.Equal(t, `syntax error at token "endmodule"`, diags[0].Message)
}

func TestNewSelectorChainOrder(t *testing.T) {
	// Only veridian is installed; the standard chain still reaches it.
	run := &scriptRunner{fn: func(cmd runner.Command) *runner.Result {
		if cmd.Binary == "veridian" {
			return &runner.Result{ExitCode: 0, Stdout: "veridian 0.2.0"}
		}
		return &runner.Result{ExitCode: -1, SpawnError: "exec: not found"}
	}}

	s := NewSelector(run)
	assert.Equal(t, "veridian", s.SelectedName(context.Background()))
}
