package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/formats"
)

// AdapterRegistry holds the format adapters by framework name.
type AdapterRegistry struct {
	adapters map[string]driven.FormatAdapter
	order    []string
}

// NewAdapterRegistry creates a registry with the built-in dialects.
func NewAdapterRegistry() *AdapterRegistry {
	r := NewEmptyAdapterRegistry()
	for _, a := range formats.Builtin() {
		r.Register(a)
	}
	return r
}

// NewEmptyAdapterRegistry creates a registry with no adapters.
func NewEmptyAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[string]driven.FormatAdapter)}
}

// Register adds or replaces the adapter for its framework.
func (r *AdapterRegistry) Register(a driven.FormatAdapter) {
	name := a.Framework()
	if _, ok := r.adapters[name]; !ok {
		r.order = append(r.order, name)
	}
	r.adapters[name] = a
}

// Get returns the adapter for a framework name. Names are matched
// case-insensitively.
func (r *AdapterRegistry) Get(framework string) (driven.FormatAdapter, error) {
	if a, ok := r.adapters[strings.ToLower(framework)]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: framework %q", domain.ErrUnsupportedType, framework)
}

// ForExtension returns the first adapter, in registration order, that
// claims ext. Block markup is registered before plain HTML, so ".html"
// resolves to gutenberg. The leading dot is optional.
func (r *AdapterRegistry) ForExtension(ext string) (driven.FormatAdapter, error) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, name := range r.order {
		a := r.adapters[name]
		for _, e := range a.Extensions() {
			if e == ext {
				return a, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no framework for extension %q", domain.ErrNotFound, ext)
}

// Names returns the registered framework names, sorted.
func (r *AdapterRegistry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the adapters sorted by framework name.
func (r *AdapterRegistry) All() []driven.FormatAdapter {
	out := make([]driven.FormatAdapter, 0, len(r.adapters))
	for _, name := range r.Names() {
		out = append(out, r.adapters[name])
	}
	return out
}
