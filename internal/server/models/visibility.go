package models

import "time"

// VisibilityEntry is one audit record of an authenticated finger lookup:
// Observer looked up Subject at At. Entries are append-only and are never
// mutated or removed.
type VisibilityEntry struct {
	Subject  string
	Observer string
	At       time.Time
}
