// Package lsp selects a language server for editor-style diagnostics. It is
// a simpler variant of the category managers: no registry, just a small
// fixed priority chain probed in order, with a "none" sentinel when nothing
// is installed. It never errors; callers receiving none degrade to empty
// diagnostic lists.
package lsp

import (
	"context"
	"regexp"
	"time"

	"github.com/babyworm/hdlkit/internal/logging"
	"github.com/babyworm/hdlkit/internal/runner"
	"github.com/babyworm/hdlkit/internal/tool"
)

// None is the sentinel returned when no language server is installed.
const None = "none"

// diagnoseFunc produces one-shot diagnostics for servers whose toolchain
// ships a batch syntax checker alongside the LSP binary.
type diagnoseFunc func(ctx context.Context, files []string) []tool.Diagnostic

// Server is one diagnostic-capable language server in the chain.
type Server struct {
	*tool.Base
	diagnose diagnoseFunc
}

// Diagnose returns one-shot diagnostics for files, or an empty list when
// this server has no batch checking mode.
func (s *Server) Diagnose(ctx context.Context, files []string) []tool.Diagnostic {
	if s.diagnose == nil {
		return nil
	}
	return s.diagnose(ctx, files)
}

// Selector probes a fixed, ordered list of language servers.
type Selector struct {
	chain []*Server
}

// verible-verilog-syntax reports:
//
//	top.v:10:5-8: syntax error at token "endmodule"
var veribleSyntaxGrammar = &tool.LineGrammar{
	Pattern: regexp.MustCompile(`^(?P<file>[^:\s][^:]*):(?P<line>\d+):(?P<col>\d+)(?:-\d+)?:\s*(?P<msg>.*)$`),
	Default: tool.SeverityError,
}

var lsVersion = regexp.MustCompile(`(\d+\.\d+[^\s]*|v\d[^\s]*)`)

// NewSelector builds the standard chain: verible-verilog-ls first, then
// svls, then veridian. The order is fixed; the first installed server wins.
func NewSelector(run runner.Runner) *Selector {
	verible := &Server{
		Base: tool.NewBase(tool.Descriptor{
			Name:     "verible-ls",
			Category: tool.CategoryLSP,
			Kind:     tool.KindOpenSource,
			Command:  "verible-verilog-ls",
		}, tool.Probe{
			Args:           []string{"--version"},
			VersionPattern: lsVersion,
		}, run, logging.CategoryLSP),
	}
	// The verible suite ships a batch syntax checker next to the server.
	syntax := tool.NewBase(tool.Descriptor{
		Name:     "verible-syntax",
		Category: tool.CategoryLSP,
		Kind:     tool.KindOpenSource,
		Command:  "verible-verilog-syntax",
	}, tool.Probe{}, run, logging.CategoryLSP)
	verible.diagnose = func(ctx context.Context, files []string) []tool.Diagnostic {
		exec := syntax.Exec(ctx, files, 30*time.Second)
		return veribleSyntaxGrammar.Parse(exec.Output())
	}

	svls := &Server{
		Base: tool.NewBase(tool.Descriptor{
			Name:     "svls",
			Category: tool.CategoryLSP,
			Kind:     tool.KindOpenSource,
			Command:  "svls",
		}, tool.Probe{
			Args:           []string{"--version"},
			Match:          "svls",
			VersionPattern: lsVersion,
		}, run, logging.CategoryLSP),
	}

	veridian := &Server{
		Base: tool.NewBase(tool.Descriptor{
			Name:     "veridian",
			Category: tool.CategoryLSP,
			Kind:     tool.KindOpenSource,
			Command:  "veridian",
		}, tool.Probe{
			Args:           []string{"--version"},
			VersionPattern: lsVersion,
		}, run, logging.CategoryLSP),
	}

	return &Selector{chain: []*Server{verible, svls, veridian}}
}

// NewSelectorWithChain builds a selector over an explicit chain, for tests.
func NewSelectorWithChain(chain ...*Server) *Selector {
	return &Selector{chain: chain}
}

// Select returns the first installed server in chain order, or nil when all
// probes fail.
func (s *Selector) Select(ctx context.Context) *Server {
	for _, server := range s.chain {
		if server.IsInstalled(ctx) {
			logging.L(logging.CategoryLSP).Debugw("selected language server", "server", server.Name())
			return server
		}
	}
	logging.L(logging.CategoryLSP).Debugw("no language server installed")
	return nil
}

// SelectedName returns the chosen server's name, or the None sentinel.
func (s *Selector) SelectedName(ctx context.Context) string {
	if server := s.Select(ctx); server != nil {
		return server.Name()
	}
	return None
}

// Diagnostics runs the selected server's batch checker over files. A chain
// with nothing installed, or a server without a batch mode, yields an empty
// list - never an error.
func (s *Selector) Diagnostics(ctx context.Context, files []string) []tool.Diagnostic {
	server := s.Select(ctx)
	if server == nil {
		return nil
	}
	return server.Diagnose(ctx, files)
}
