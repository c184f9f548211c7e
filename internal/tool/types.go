// Package tool defines the shared contracts of the HDL tool orchestration
// layer: static tool descriptors, normalized diagnostics, detection results,
// and the declarative line grammars used by adapters to translate raw tool
// output into structured findings.
//
// Everything in this package is category-neutral. Category-specific adapters
// and managers live in internal/lint, internal/sim, and internal/synth.
package tool

import "fmt"

// Category groups interchangeable tools by function.
type Category string

const (
	CategoryLint  Category = "lint"
	CategorySim   Category = "sim"
	CategorySynth Category = "synth"
	CategoryLSP   Category = "lsp"
)

// Kind distinguishes open-source tools from commercial ones.
type Kind string

const (
	KindOpenSource Kind = "open-source"
	KindCommercial Kind = "commercial"
)

// Descriptor is the static metadata for one external tool variant.
// Descriptors are immutable once an adapter is registered.
type Descriptor struct {
	// Name is the unique key within a category (e.g. "verilator").
	Name string `json:"name"`

	// Category is the functional grouping this tool belongs to.
	Category Category `json:"category"`

	// Kind marks the tool as open-source or commercial.
	Kind Kind `json:"kind"`

	// Command is the binary name invoked for every operation.
	Command string `json:"command"`

	// DefaultArgs are prepended to every invocation's argument vector.
	DefaultArgs []string `json:"default_args,omitempty"`

	// Env lists KEY=VALUE environment overrides for invocations.
	Env []string `json:"env,omitempty"`
}

// String returns a short human-readable identity for logging.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s/%s (%s)", d.Category, d.Name, d.Command)
}

// DetectionResult reports whether a tool binary is present and invokable.
// It is recomputed on demand and never cached across calls.
type DetectionResult struct {
	Installed bool   `json:"installed"`
	Version   string `json:"version"`
}

// VersionUnknown is reported when a probe succeeds but no version token
// can be extracted from its output.
const VersionUnknown = "unknown"

// Severity is the normalized diagnostic severity vocabulary. Tool-specific
// severity tokens must be mapped onto this enum by each adapter's grammar.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Diagnostic is one normalized finding produced by a tool.
type Diagnostic struct {
	// File is the path as reported by the tool.
	File string `json:"file"`

	// Line is 1-based.
	Line int `json:"line"`

	// Column is 1-based.
	Column int `json:"column"`

	// Severity is drawn from the shared enum.
	Severity Severity `json:"severity"`

	// Message is the tool's message text.
	Message string `json:"message"`

	// Code is the tool-specific rule or warning code, when present.
	Code string `json:"code,omitempty"`
}

// IsError reports whether the diagnostic is error-severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}
