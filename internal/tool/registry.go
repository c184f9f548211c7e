package tool

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/babyworm/hdlkit/internal/logging"
)

// ============================================================================
// Registry - Detection and Selection
// ============================================================================
// Every category manager owns one Registry. Selection is a pure function of
// (registry, installed-set, override, preferred): no other state influences
// which adapter handles an operation. Installation is re-probed on demand
// and never cached across calls.

// Registry holds the name→adapter mapping for one category, preserving
// insertion order for fallback precedence.
type Registry struct {
	category Category
	names    []string
	adapters map[string]Adapter

	// preferred is fixed at configuration time via SetPreferred and
	// consulted ahead of registration order during selection.
	preferred string
}

// NewRegistry creates an empty registry for a category.
func NewRegistry(category Category) *Registry {
	return &Registry{
		category: category,
		adapters: make(map[string]Adapter),
	}
}

// Register inserts an adapter under its name. The last registration under a
// given name wins; earlier insertion order is kept for precedence.
func (r *Registry) Register(a Adapter) {
	name := a.Name()
	if _, exists := r.adapters[name]; !exists {
		r.names = append(r.names, name)
	}
	r.adapters[name] = a
}

// SetPreferred records the tool consulted ahead of registration order.
// Naming an unregistered tool is a configuration-time mistake and returns
// an error, unlike the soft-failure operation surface.
func (r *Registry) SetPreferred(name string) error {
	if name == "" {
		r.preferred = ""
		return nil
	}
	if _, ok := r.adapters[name]; !ok {
		return fmt.Errorf("%s: preferred tool %q is not registered (have %v)", r.category, name, r.names)
	}
	r.preferred = name
	return nil
}

// Preferred returns the configured preferred tool name, if any.
func (r *Registry) Preferred() string { return r.preferred }

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// DetectInstalled probes every registered adapter and returns the names of
// the installed ones in registration order. Probes run concurrently; a
// probe that fails marks only its own adapter as absent.
func (r *Registry) DetectInstalled(ctx context.Context) []string {
	installed := make([]bool, len(r.names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range r.names {
		i, adapter := i, r.adapters[name]
		g.Go(func() error {
			installed[i] = adapter.IsInstalled(gctx)
			return nil
		})
	}
	_ = g.Wait() // probes never return errors

	var found []string
	for i, name := range r.names {
		if installed[i] {
			found = append(found, name)
		}
	}
	logging.L(logging.Category(r.category)).Debugw("detection complete",
		"registered", len(r.names), "installed", found)
	return found
}

// Detect probes every adapter and returns name→DetectionResult, for
// tooling surfaces that report versions alongside availability.
func (r *Registry) Detect(ctx context.Context) map[string]DetectionResult {
	results := make([]DetectionResult, len(r.names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range r.names {
		i, adapter := i, r.adapters[name]
		g.Go(func() error {
			if !adapter.IsInstalled(gctx) {
				results[i] = DetectionResult{Installed: false, Version: VersionUnknown}
				return nil
			}
			results[i] = DetectionResult{Installed: true, Version: adapter.Version(gctx)}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]DetectionResult, len(r.names))
	for i, name := range r.names {
		out[name] = results[i]
	}
	return out
}

// Select picks one installed adapter, or nil when nothing usable exists.
// Precedence:
//  1. override, if registered and currently installed
//  2. the preferred name, if registered and currently installed
//  3. the first adapter in registration order that is installed
//
// An override naming a registered-but-absent tool is not an error; selection
// silently falls through to the next step.
func (r *Registry) Select(ctx context.Context, override string) Adapter {
	log := logging.L(logging.Category(r.category))

	if override != "" {
		if a, ok := r.adapters[override]; ok && a.IsInstalled(ctx) {
			log.Debugw("selected tool", "via", "override", "tool", override)
			return a
		}
		log.Debugw("override unavailable, falling through", "tool", override)
	}

	if r.preferred != "" && r.preferred != override {
		if a, ok := r.adapters[r.preferred]; ok && a.IsInstalled(ctx) {
			log.Debugw("selected tool", "via", "preferred", "tool", r.preferred)
			return a
		}
	}

	for _, name := range r.names {
		if a := r.adapters[name]; a.IsInstalled(ctx) {
			log.Debugw("selected tool", "via", "registration order", "tool", name)
			return a
		}
	}

	log.Debugw("no installed tool", "registered", r.names)
	return nil
}
