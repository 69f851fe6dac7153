package mcp

import (
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Transform runs transforms and keeps their history.
	Transform driving.TransformService

	// Analysis inspects documents.
	Analysis driving.AnalysisService

	// Catalog lists dialects and transformers.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Transform == nil {
		return ErrMissingTransformService
	}
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	// Catalog is optional; the frameworks tool reports an empty list without it.
	return nil
}
