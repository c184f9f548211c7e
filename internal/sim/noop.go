package sim

import (
	"context"

	"github.com/babyworm/hdlkit/internal/tool"
)

// noop is the terminal fallback simulator: never installed, always failing
// soft.
type noop struct {
	*tool.Noop
}

func newNoop() *noop {
	return &noop{Noop: tool.NewNoop(tool.CategorySim)}
}

// Compile implements Simulator with the category's soft-failure shape.
func (n *noop) Compile(context.Context, []string, Options) CompileResult {
	return CompileResult{Success: false, Stderr: NoToolAvailable}
}

// Simulate implements Simulator with the category's soft-failure shape.
func (n *noop) Simulate(context.Context, Options) Result {
	return Result{Success: false, Stderr: NoToolAvailable}
}
