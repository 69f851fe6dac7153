// Package memory provides in-memory implementations of the driven stores.
// They back the "memory" storage backend and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore keeps transform history in memory.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.TransformRun
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.TransformRun),
	}
}

// Save stores or replaces a run.
func (s *RunStore) Save(_ context.Context, run *domain.TransformRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.TransformRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// List returns runs newest first.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.TransformRun, error) {
	s.mu.RLock()
	out := make([]domain.TransformRun, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a run. Deleting an unknown run is not an error.
func (s *RunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}
