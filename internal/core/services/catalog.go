package services

import (
	"github.com/custodia-labs/pagebridge/internal/convert"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
	"github.com/custodia-labs/pagebridge/internal/transformers"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService lists registered dialects and transformers.
type CatalogService struct {
	adapters     *AdapterRegistry
	converter    *convert.Converter
	transformers *transformers.Registry
}

// NewCatalogService creates a catalog over the given registries.
func NewCatalogService(adapters *AdapterRegistry, converter *convert.Converter, registry *transformers.Registry) *CatalogService {
	return &CatalogService{
		adapters:     adapters,
		converter:    converter,
		transformers: registry,
	}
}

// Frameworks returns every registered dialect with the universal kinds it
// can be written from.
func (s *CatalogService) Frameworks() []driving.FrameworkInfo {
	adapters := s.adapters.All()
	out := make([]driving.FrameworkInfo, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, driving.FrameworkInfo{
			Name:       a.Framework(),
			Extensions: a.Extensions(),
			Kinds:      s.converter.Kinds(a.Framework()),
		})
	}
	return out
}

// Transformers returns the registered transformer names, sorted.
func (s *CatalogService) Transformers() []string {
	return s.transformers.Names()
}
