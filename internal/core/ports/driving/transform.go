package driving

import (
	"context"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// TransformRequest describes one document transform.
type TransformRequest struct {
	// Input names the document for history (file path or "-").
	Input string

	// Data is the raw document.
	Data []byte

	// Source is the framework Data is written in.
	Source string

	// Target is the framework to write. Empty means Source.
	Target string

	// Zones selects the zone types the transformer may rewrite.
	Zones domain.ZoneSet

	// Transformer names a registered transformer. Empty means identity.
	Transformer string

	// Config is passed to the transformer builder.
	Config map[string]any
}

// TransformService runs transform requests and keeps their history.
type TransformService interface {
	// Transform parses, rewrites, converts and serializes one document.
	Transform(ctx context.Context, req TransformRequest) (*domain.TransformOutcome, error)

	// History returns recent runs, newest first.
	History(ctx context.Context, limit int) ([]domain.TransformRun, error)
}

// AnalysisService inspects documents without rewriting them.
type AnalysisService interface {
	// Analyze summarises the zone make-up of a document.
	Analyze(ctx context.Context, framework string, data []byte) (*domain.Analysis, error)

	// Zones returns the per-element zone list.
	Zones(ctx context.Context, framework string, data []byte) ([]domain.ElementZones, error)

	// Verify checks that an identity pass round-trips the document.
	Verify(ctx context.Context, framework string, data []byte) (*domain.Verification, error)

	// Styles collects the design tokens found in the styling zones.
	Styles(ctx context.Context, framework string, data []byte) (*domain.DesignTokens, error)
}

// FrameworkInfo describes a registered dialect.
type FrameworkInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions"`
	Kinds      []string `json:"kinds" yaml:"kinds"`
}

// CatalogService lists what the application can read, write and apply.
type CatalogService interface {
	// Frameworks returns registered dialects sorted by name.
	Frameworks() []FrameworkInfo

	// Transformers returns registered transformer names, sorted.
	Transformers() []string
}
