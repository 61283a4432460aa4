// Package repomanager wires together the storage backends for the three
// stores and owns schema migrations.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/fingr/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/presence"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/visibility"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	Presence() presence.Repository
	Visibility() visibility.Repository
	Close() error
}
