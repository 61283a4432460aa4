// Package accounts stores registered identities.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/fingr/internal/server/models"
)

// Repository is the durable username -> account mapping.
type Repository interface {
	// Create inserts a new account. The check-and-insert is atomic:
	// concurrent registrations of one username cannot both succeed. A
	// duplicate surfaces as common.ErrAlreadyExists.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByUsername returns common.ErrNotFound when the account does not
	// exist. Usernames are case-sensitive.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
}
