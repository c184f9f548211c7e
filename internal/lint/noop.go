package lint

import (
	"context"

	"github.com/babyworm/hdlkit/internal/tool"
)

// noop is the terminal fallback linter: never installed, always failing
// soft. It exists so the registry is never empty and the degradation path
// stays uniform.
type noop struct {
	*tool.Noop
}

func newNoop() *noop {
	return &noop{Noop: tool.NewNoop(tool.CategoryLint)}
}

// Lint implements Linter with the category's soft-failure shape.
func (n *noop) Lint(context.Context, []string) Result {
	return Result{Success: false, Stderr: NoToolAvailable}
}
