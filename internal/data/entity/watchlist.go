package entity

import (
	"time"

	"github.com/google/uuid"
)

type Watchlist struct {
	EditableRow
	UserID      uuid.UUID `db:"user_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Entries     []WatchlistEntry
}

// WatchlistEntry carries list-scoped watched state. It is independent of
// the global WatchedRecord for the same user and movie.
type WatchlistEntry struct {
	WatchlistID uuid.UUID `db:"watchlist_id"`
	MovieID     uuid.UUID `db:"movie_id"`
	Watched     bool      `db:"watched"`
	AddedAt     time.Time `db:"added_at"`
}
