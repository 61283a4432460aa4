// Package models holds the server-side domain records persisted by the
// repositories.
package models

import "time"

// Account is a registered identity. The auth key is kept only as a bcrypt
// hash; the plaintext key is shown to the user exactly once, at
// registration time.
type Account struct {
	ID        string
	Username  string
	KeyHash   []byte
	CreatedAt time.Time
}
