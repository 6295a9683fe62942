package models

import (
	"time"
)

// PendingUpdate is a requested balance change awaiting moderator review.
// A pending update either gets approved, which applies NewBalance to the
// referenced user and deletes the row, or dismissed, which deletes the
// row without effect. There is no persisted rejected state.
//
// Name is a point-in-time copy of the requesting user's display name
// taken at submission; the user row stays the source of truth for
// leaderboard display. UserID is deliberately not foreign-key enforced,
// so a row can outlive the user it references.
type PendingUpdate struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	Name       string    `db:"name"`
	NewBalance Cents     `db:"new_balance"`
	CreatedAt  time.Time `db:"created_at"`
}
