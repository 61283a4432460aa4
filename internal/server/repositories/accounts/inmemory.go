package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fingr/internal/common"
	"github.com/dmitrijs2005/fingr/internal/server/models"
)

// InMemoryRepository keeps accounts in a process-local map. Used when the
// server runs without a database and as the substrate for engine tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{accounts: make(map[string]models.Account)}
}

func (r *InMemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Username]; ok {
		return nil, common.ErrAlreadyExists
	}

	stored := *account
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	r.accounts[account.Username] = stored

	result := stored
	return &result, nil
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.accounts[username]
	if !ok {
		return nil, common.ErrNotFound
	}

	result := stored
	return &result, nil
}
