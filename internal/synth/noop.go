package synth

import (
	"context"
	"errors"

	"github.com/babyworm/hdlkit/internal/tool"
)

// noop is the terminal fallback synthesizer: never installed, always
// failing soft.
type noop struct {
	*tool.Noop
}

func newNoop() *noop {
	return &noop{Noop: tool.NewNoop(tool.CategorySynth)}
}

// Synthesize implements Synthesizer with the category's soft-failure shape.
func (n *noop) Synthesize(context.Context, []string, Options) Result {
	return Result{Success: false, Stderr: NoToolAvailable}
}

// AnalyzeTiming implements Synthesizer.
func (n *noop) AnalyzeTiming(context.Context, string, Options) (*Timing, error) {
	return nil, errors.New(NoToolAvailable)
}

// EstimatePPA implements Synthesizer.
func (n *noop) EstimatePPA(context.Context, string, Options) (*PPA, error) {
	return nil, errors.New(NoToolAvailable)
}
