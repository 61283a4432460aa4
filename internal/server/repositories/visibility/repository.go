// Package visibility stores the per-user audit log of authenticated
// finger lookups.
package visibility

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fingr/internal/server/models"
)

// Repository is an append-only log. Entries are never mutated or removed.
type Repository interface {
	// Record appends one entry: observer looked up subject at the given
	// instant.
	Record(ctx context.Context, subject, observer string, at time.Time) error

	// ListCheckers returns the entries whose subject matches username,
	// oldest first.
	ListCheckers(ctx context.Context, username string) ([]models.VisibilityEntry, error)
}
