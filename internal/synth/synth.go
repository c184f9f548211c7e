// Package synth orchestrates HDL synthesis tools (Yosys, Design Compiler).
// Beyond the core synthesize step it performs post-success enrichment:
// timing analysis and PPA estimation run against the produced netlist, and
// either failing is logged and dropped without affecting the synthesis
// verdict. Core synthesis success is independent of secondary analysis.
package synth

import (
	"context"

	"github.com/babyworm/hdlkit/internal/tool"
)

// CriticalPath describes the slowest register-to-register path.
type CriticalPath struct {
	Start   string  `json:"start"`
	End     string  `json:"end"`
	DelayNs float64 `json:"delay_ns"`
}

// Timing is the result of timing analysis on a netlist.
type Timing struct {
	CriticalPath CriticalPath `json:"critical_path"`
	SlackNs      float64      `json:"slack_ns"`
	FrequencyMHz float64      `json:"frequency_mhz"`
}

// Area aggregates cell-count and area figures.
type Area struct {
	Cells   int     `json:"cells"`
	AreaUm2 float64 `json:"area_um2"`
}

// Power aggregates power estimation figures in milliwatts.
type Power struct {
	DynamicMw float64 `json:"dynamic_mw"`
	StaticMw  float64 `json:"static_mw"`
	TotalMw   float64 `json:"total_mw"`
}

// Performance carries the achieved clock estimate.
type Performance struct {
	FrequencyMHz float64 `json:"frequency_mhz"`
}

// PPA is the performance/power/area triad.
type PPA struct {
	Area        Area        `json:"area"`
	Power       Power       `json:"power"`
	Performance Performance `json:"performance"`
}

// Result is the outcome of one synthesis operation.
type Result struct {
	// Success reflects the synthesis step alone; secondary analyses never
	// change it.
	Success bool `json:"success"`

	// Netlist is the path of the produced structural netlist. Lifecycle
	// belongs to the tool and the caller.
	Netlist string `json:"netlist,omitempty"`

	// Timing is set when post-success timing analysis succeeded.
	Timing *Timing `json:"timing,omitempty"`

	// PPA is set when post-success PPA estimation succeeded.
	PPA *PPA `json:"ppa,omitempty"`

	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// Options tunes one synthesis run.
type Options struct {
	// Top is the top-level module.
	Top string

	// Technology names the target library.
	Technology string

	// ClockMHz is the target clock for timing analysis.
	ClockMHz float64
}

// Synthesizer is the synthesis category capability.
type Synthesizer interface {
	tool.Adapter

	// Synthesize elaborates files and writes a netlist.
	Synthesize(ctx context.Context, files []string, opts Options) Result

	// AnalyzeTiming analyzes the netlist produced by Synthesize. Errors
	// are expected (missing analysis tool, missing liberty data) and are
	// handled non-fatally by the manager.
	AnalyzeTiming(ctx context.Context, netlist string, opts Options) (*Timing, error)

	// EstimatePPA estimates performance/power/area for the netlist.
	EstimatePPA(ctx context.Context, netlist string, opts Options) (*PPA, error)
}
