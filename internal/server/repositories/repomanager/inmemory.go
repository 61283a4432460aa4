package repomanager

import (
	"context"

	"github.com/dmitrijs2005/fingr/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/presence"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/visibility"
)

// InMemoryRepositoryManager vends process-local repositories. Selected
// when the server runs without a database DSN; state does not survive a
// restart.
type InMemoryRepositoryManager struct {
	accounts   accounts.Repository
	presence   presence.Repository
	visibility visibility.Repository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		accounts:   accounts.NewInMemoryRepository(),
		presence:   presence.NewInMemoryRepository(),
		visibility: visibility.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *InMemoryRepositoryManager) Presence() presence.Repository {
	return m.presence
}

func (m *InMemoryRepositoryManager) Visibility() visibility.Repository {
	return m.visibility
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

// SetPresence swaps the presence backend, used when a Redis address is
// configured.
func (m *InMemoryRepositoryManager) SetPresence(repo presence.Repository) {
	m.presence = repo
}
