package entity

import "time"

// WatchedRecord proves a user watched a movie. At most one per key.
type WatchedRecord struct {
	UserMovieKey
	WatchedAt time.Time `db:"watched_at"`
}
