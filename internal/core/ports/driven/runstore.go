package driven

import (
	"context"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// RunStore persists transform history.
type RunStore interface {
	// Save stores or replaces a run.
	Save(ctx context.Context, run *domain.TransformRun) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.TransformRun, error)

	// List returns the newest runs first. A limit of zero or less returns
	// every run.
	List(ctx context.Context, limit int) ([]domain.TransformRun, error)

	// Delete removes a run.
	Delete(ctx context.Context, id string) error
}
