package presence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/fingr/internal/common"
	"github.com/dmitrijs2005/fingr/internal/server/models"
)

// InMemoryRepository keeps presence records in a process-local map.
type InMemoryRepository struct {
	mu      sync.Mutex
	records map[string]models.Presence
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]models.Presence)}
}

func (r *InMemoryRepository) GetStatus(ctx context.Context, username string, now time.Time) (models.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[username]
	if !ok {
		return models.Status{}, nil
	}

	// Lazy rewrite: an expired record is folded to offline on read.
	// Idempotent, so a concurrent bump that already refreshed the window
	// is never clobbered (both run under the same lock).
	if p.Online && !p.ExpiresAt.After(now) {
		p.Online = false
		r.records[username] = p
	}

	return models.Status{Online: p.Online, Message: p.Message}, nil
}

func (r *InMemoryRepository) SetOnline(ctx context.Context, username string, now time.Time, duration time.Duration, message *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.records[username]
	p.Username = username
	p.Online = true
	p.ExpiresAt = now.Add(duration)
	if message != nil {
		p.Message = *message
	}
	r.records[username] = p

	return nil
}

func (r *InMemoryRepository) Bump(ctx context.Context, username string, now time.Time, duration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[username]
	if !ok || !p.EffectiveOnline(now) {
		return common.ErrNotOnline
	}

	p.ExpiresAt = now.Add(duration)
	r.records[username] = p

	return nil
}

func (r *InMemoryRepository) SetOffline(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[username]
	if !ok {
		return nil
	}

	p.Online = false
	r.records[username] = p

	return nil
}

func (r *InMemoryRepository) ListOnline(ctx context.Context, now time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var usernames []string
	for username, p := range r.records {
		if p.EffectiveOnline(now) {
			usernames = append(usernames, username)
		}
	}
	sort.Strings(usernames)

	return usernames, nil
}
