package tool

import "context"

// Noop is the terminal-fallback adapter: always absent, always failing
// soft. Category factories register it last so selection precedence is
// exercised uniformly, and callers never receive "no tool" as anything
// other than a structured result.
type Noop struct {
	desc Descriptor
}

// NewNoop creates the fallback adapter for a category.
func NewNoop(category Category) *Noop {
	return &Noop{desc: Descriptor{
		Name:     "noop",
		Category: category,
		Kind:     KindOpenSource,
		Command:  "",
	}}
}

// Name implements Adapter.
func (n *Noop) Name() string { return n.desc.Name }

// Descriptor implements Adapter.
func (n *Noop) Descriptor() Descriptor { return n.desc }

// IsInstalled always reports false.
func (n *Noop) IsInstalled(context.Context) bool { return false }

// Version always reports VersionUnknown.
func (n *Noop) Version(context.Context) string { return VersionUnknown }
