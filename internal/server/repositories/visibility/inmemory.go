package visibility

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fingr/internal/server/models"
)

// InMemoryRepository keeps visibility entries in process-local slices,
// one per subject, in append order.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]models.VisibilityEntry
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[string][]models.VisibilityEntry)}
}

func (r *InMemoryRepository) Record(ctx context.Context, subject, observer string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[subject] = append(r.entries[subject], models.VisibilityEntry{
		Subject:  subject,
		Observer: observer,
		At:       at,
	})

	return nil
}

func (r *InMemoryRepository) ListCheckers(ctx context.Context, username string) ([]models.VisibilityEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[username]
	if len(stored) == 0 {
		return nil, nil
	}

	result := make([]models.VisibilityEntry, len(stored))
	copy(result, stored)

	return result, nil
}
