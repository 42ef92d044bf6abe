// Package memory keeps every repository in process memory. It backs the
// DB_DRIVER=memory mode and the service tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"
	"film-catalog/pkg/database"

	"github.com/google/uuid"
)

type txKey struct{}

// Store holds all tables. Transactions hold txMu exclusively, so reads
// outside a transaction wait for any open one to commit or roll back and
// never observe uncommitted rows. mu guards the maps themselves.
type Store struct {
	txMu sync.RWMutex
	mu   sync.RWMutex
	data tables
}

type tables struct {
	users      map[uuid.UUID]entity.User
	sessions   map[uuid.UUID]entity.Session
	movies     map[uuid.UUID]entity.Movie
	watched    map[entity.UserMovieKey]entity.WatchedRecord
	reviews    map[entity.ReviewID]entity.Review
	flags      map[entity.FlagKey]entity.Flag
	watchlists map[uuid.UUID]entity.Watchlist
	entries    map[uuid.UUID]map[uuid.UUID]entity.WatchlistEntry
}

func New() *Store {
	return &Store{data: tables{
		users:      make(map[uuid.UUID]entity.User),
		sessions:   make(map[uuid.UUID]entity.Session),
		movies:     make(map[uuid.UUID]entity.Movie),
		watched:    make(map[entity.UserMovieKey]entity.WatchedRecord),
		reviews:    make(map[entity.ReviewID]entity.Review),
		flags:      make(map[entity.FlagKey]entity.Flag),
		watchlists: make(map[uuid.UUID]entity.Watchlist),
		entries:    make(map[uuid.UUID]map[uuid.UUID]entity.WatchlistEntry),
	}}
}

// Repository returns the repository set backed by this store.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:      &userRepository{s: s},
		Session:   &sessionRepository{s: s},
		Movie:     &movieRepository{s: s},
		Watched:   &watchedRepository{s: s},
		Review:    &reviewRepository{s: s},
		Flag:      &flagRepository{s: s},
		Watchlist: &watchlistRepository{s: s},
	}
}

func (s *Store) Transactor() database.Transactor {
	return s
}

// WithinTx runs fn with exclusive write access. On error or panic every
// table is restored to its state before fn ran.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

func (s *Store) restore(snapshot tables) {
	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// write applies fn under the write lock. Outside a transaction it also
// takes txMu so a rollback can never discard it.
func (s *Store) write(ctx context.Context, fn func(t *tables) error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

// read applies fn under the read lock. Inside a transaction it sees the
// transaction's own writes.
func (s *Store) read(ctx context.Context, fn func(t *tables)) {
	if !inTx(ctx) {
		s.txMu.RLock()
		defer s.txMu.RUnlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

func (t tables) clone() tables {
	entries := make(map[uuid.UUID]map[uuid.UUID]entity.WatchlistEntry, len(t.entries))
	for id, m := range t.entries {
		entries[id] = maps.Clone(m)
	}
	return tables{
		users:      maps.Clone(t.users),
		sessions:   maps.Clone(t.sessions),
		movies:     maps.Clone(t.movies),
		watched:    maps.Clone(t.watched),
		reviews:    maps.Clone(t.reviews),
		flags:      maps.Clone(t.flags),
		watchlists: maps.Clone(t.watchlists),
		entries:    entries,
	}
}

// SeedUser inserts or replaces a user in the directory.
func (s *Store) SeedUser(user entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[user.ID] = user
}

func (s *Store) SeedMovie(movie entity.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	movie.Genres = append([]string(nil), movie.Genres...)
	s.data.movies[movie.ID] = movie
}

func (s *Store) SeedSession(session entity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.sessions[session.Token] = session
}
