package repository

import (
	"errors"

	"film-catalog/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrDuplicate is returned when an insert hits a primary key or unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("record not found")
)

type Repository struct {
	User      UserRepository
	Session   SessionRepository
	Movie     MovieRepository
	Watched   WatchedRepository
	Review    ReviewRepository
	Flag      FlagRepository
	Watchlist WatchlistRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		Movie:     NewMovieRepository(db, log),
		Watched:   NewWatchedRepository(db, log),
		Review:    NewReviewRepository(db, log),
		Flag:      NewFlagRepository(db, log),
		Watchlist: NewWatchlistRepository(db, log),
	}
}
