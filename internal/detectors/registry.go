// Package detectors provides the detector registry and built-in pattern
// detector implementations.
package detectors

import (
	"fmt"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

// BuilderFunc creates a Detector from generic config.
// Config is a map of detector-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.Detector, error)

// Registry maps detector names to their builders.
//
// Registration order is preserved and significant: the conflict resolver
// uses it as the final deterministic tie-break between spans with
// identical range, priority, and confidence.
type Registry struct {
	builders map[string]BuilderFunc
	order    []string
}

// NewRegistry creates a new detector registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a detector builder to the registry.
// Name should be unique and match the detector's Name() return value.
// Re-registering a name replaces the builder but keeps its position.
func (r *Registry) Register(name string, builder BuilderFunc) {
	if _, exists := r.builders[name]; !exists {
		r.order = append(r.order, name)
	}
	r.builders[name] = builder
}

// Build creates a detector by name with the given config.
// Returns an error if the detector name is not registered.
func (r *Registry) Build(name string, cfg map[string]any) (driven.Detector, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDetector, name)
	}
	return builder(cfg)
}

// Has returns true if a detector with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered detector names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// BuildAll constructs every registered detector in registration order.
// When only is non-empty, detectors not named in it are skipped (the
// relative registration order of the remaining detectors is kept).
func (r *Registry) BuildAll(only []string) ([]driven.Detector, error) {
	var want map[string]bool
	if len(only) > 0 {
		want = make(map[string]bool, len(only))
		for _, n := range only {
			if !r.Has(n) {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDetector, n)
			}
			want[n] = true
		}
	}

	out := make([]driven.Detector, 0, len(r.order))
	for _, name := range r.order {
		if want != nil && !want[name] {
			continue
		}
		d, err := r.Build(name, nil)
		if err != nil {
			return nil, fmt.Errorf("building detector %s: %w", name, err)
		}
		out = append(out, d)
	}
	return out, nil
}
