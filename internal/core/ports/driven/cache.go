package driven

import "github.com/custodia-labs/pagebridge/internal/core/domain"

// TransformCache memoizes transform outcomes by request fingerprint.
// Implementations must be safe for concurrent use and must not hand out
// memory the caller can mutate.
type TransformCache interface {
	// Get returns the outcome cached under key.
	Get(key string) (*domain.TransformOutcome, bool)

	// Add stores outcome under key, evicting as needed.
	Add(key string, outcome *domain.TransformOutcome)

	// Len returns the number of cached entries.
	Len() int

	// Purge drops every entry.
	Purge()
}
