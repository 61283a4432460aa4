package models

import "time"

// Presence is the stored status record for one account, created lazily on
// first login. ExpiresAt is meaningful only while Online is true; the
// effective state is always computed against a caller-supplied clock, so a
// stale Online flag never leaks out of the store.
type Presence struct {
	Username  string
	Online    bool
	ExpiresAt time.Time
	Message   string
}

// EffectiveOnline reports whether the record counts as online at the given
// instant.
func (p Presence) EffectiveOnline(now time.Time) bool {
	return p.Online && p.ExpiresAt.After(now)
}

// Status is the externally visible slice of a presence record.
type Status struct {
	Online  bool
	Message string
}
