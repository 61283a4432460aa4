// Package presence stores the time-bounded online status of accounts.
package presence

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fingr/internal/server/models"
)

// Repository is the durable username -> status mapping. The effective
// online state is always computed against the caller-supplied instant;
// implementations may lazily rewrite an expired record to offline, but
// they never store a record that is already expired while flagged online.
type Repository interface {
	// GetStatus returns the effective status at now. A username that
	// never logged in reads as offline with an empty message.
	GetStatus(ctx context.Context, username string, now time.Time) (models.Status, error)

	// SetOnline marks the account online until now+duration. A nil
	// message keeps the previously stored message.
	SetOnline(ctx context.Context, username string, now time.Time, duration time.Duration, message *string) error

	// Bump slides the expiry window to now+duration. It fails with
	// common.ErrNotOnline unless the account is effectively online at now.
	Bump(ctx context.Context, username string, now time.Time, duration time.Duration) error

	// SetOffline marks the account offline. The message is untouched.
	SetOffline(ctx context.Context, username string) error

	// ListOnline returns the usernames effectively online at now, in
	// lexicographic order.
	ListOnline(ctx context.Context, now time.Time) ([]string, error)
}
