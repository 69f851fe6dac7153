// Package transformers holds the named zone transformers the CLI and MCP
// server can apply, and the registry that builds them from config.
package transformers

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/engine"
)

// BuilderFunc creates a transformer from generic config.
// Config is a map of transformer-specific settings from flags or requests.
type BuilderFunc func(cfg map[string]any) (engine.Transformer, error)

// Registry maps transformer names to their builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a builder. A later registration replaces an earlier one.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a transformer by name with the given config.
func (r *Registry) Build(name string, cfg map[string]any) (engine.Transformer, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown transformer %q", domain.ErrNotFound, name)
	}
	t, err := builder(cfg)
	if err != nil {
		return nil, fmt.Errorf("building transformer %s: %w", name, err)
	}
	return t, nil
}

// Has returns true if name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
