package repository

import (
	"context"
	"errors"
	"fmt"

	"film-catalog/internal/data/entity"
	"film-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type WatchlistRepository interface {
	Create(ctx context.Context, watchlist *entity.Watchlist) error
	// FindByID loads the list with its entries ordered by added_at.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Watchlist, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Watchlist, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Watchlist, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, watchlist *entity.Watchlist) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Entries
	AddEntry(ctx context.Context, entry *entity.WatchlistEntry) (bool, error)
	FindEntry(ctx context.Context, watchlistID, movieID uuid.UUID) (*entity.WatchlistEntry, error)
	RemoveEntry(ctx context.Context, watchlistID, movieID uuid.UUID) (bool, error)
	RemoveAllEntries(ctx context.Context, watchlistID uuid.UUID) (int64, error)
	MarkEntryWatched(ctx context.Context, watchlistID, movieID uuid.UUID) (bool, error)
}

type watchlistRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWatchlistRepository(db database.PgxIface, log *zap.Logger) WatchlistRepository {
	return &watchlistRepository{
		db:  db,
		log: log.With(zap.String("repository", "watchlist")),
	}
}

func (r *watchlistRepository) Create(ctx context.Context, watchlist *entity.Watchlist) error {
	query := `
		INSERT INTO watchlists (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		watchlist.ID,
		watchlist.UserID,
		watchlist.Name,
		watchlist.Description,
		watchlist.CreatedAt,
		watchlist.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create watchlist",
			zap.Error(err),
			zap.String("user_id", watchlist.UserID.String()),
			zap.String("name", watchlist.Name),
		)
		return fmt.Errorf("create watchlist: %w", err)
	}

	return nil
}

func (r *watchlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Watchlist, error) {
	return r.findByID(ctx, id, "")
}

func (r *watchlistRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Watchlist, error) {
	return r.findByID(ctx, id, "FOR UPDATE")
}

func (r *watchlistRepository) findByID(ctx context.Context, id uuid.UUID, lock string) (*entity.Watchlist, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM watchlists
		WHERE id = $1
	` + lock

	var watchlist entity.Watchlist
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&watchlist.ID,
		&watchlist.UserID,
		&watchlist.Name,
		&watchlist.Description,
		&watchlist.CreatedAt,
		&watchlist.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find watchlist by ID",
			zap.Error(err),
			zap.String("watchlist_id", id.String()),
		)
		return nil, fmt.Errorf("find watchlist by ID %s: %w", id.String(), err)
	}

	entries, err := r.findEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	watchlist.Entries = entries

	return &watchlist, nil
}

func (r *watchlistRepository) findEntries(ctx context.Context, watchlistID uuid.UUID) ([]entity.WatchlistEntry, error) {
	query := `
		SELECT watchlist_id, movie_id, watched, added_at
		FROM watchlist_entries
		WHERE watchlist_id = $1
		ORDER BY added_at ASC, movie_id ASC
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, watchlistID)
	if err != nil {
		r.log.Error("Failed to list watchlist entries",
			zap.Error(err),
			zap.String("watchlist_id", watchlistID.String()),
		)
		return nil, fmt.Errorf("list entries of watchlist %s: %w", watchlistID.String(), err)
	}
	defer rows.Close()

	entries := []entity.WatchlistEntry{}
	for rows.Next() {
		var entry entity.WatchlistEntry
		if err := rows.Scan(&entry.WatchlistID, &entry.MovieID, &entry.Watched, &entry.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist entry row: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// FindByUserID returns the user's lists without their entries.
func (r *watchlistRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Watchlist, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM watchlists
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list watchlists",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list watchlists for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var watchlists []*entity.Watchlist
	for rows.Next() {
		var watchlist entity.Watchlist
		if err := rows.Scan(
			&watchlist.ID,
			&watchlist.UserID,
			&watchlist.Name,
			&watchlist.Description,
			&watchlist.CreatedAt,
			&watchlist.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan watchlist row: %w", err)
		}
		watchlists = append(watchlists, &watchlist)
	}

	return watchlists, rows.Err()
}

func (r *watchlistRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM watchlists WHERE user_id = $1`

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count watchlists for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *watchlistRepository) Update(ctx context.Context, watchlist *entity.Watchlist) error {
	query := `
		UPDATE watchlists
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		watchlist.ID,
		watchlist.Name,
		watchlist.Description,
		watchlist.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update watchlist",
			zap.Error(err),
			zap.String("watchlist_id", watchlist.ID.String()),
		)
		return fmt.Errorf("update watchlist %s: %w", watchlist.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("watchlist %s: %w", watchlist.ID.String(), ErrNotFound)
	}

	return nil
}

// Delete removes the list; entries cascade.
func (r *watchlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM watchlists WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete watchlist",
			zap.Error(err),
			zap.String("watchlist_id", id.String()),
		)
		return fmt.Errorf("delete watchlist %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("watchlist %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

// AddEntry reports whether a new entry was inserted. An existing entry is left as is.
func (r *watchlistRepository) AddEntry(ctx context.Context, entry *entity.WatchlistEntry) (bool, error) {
	query := `
		INSERT INTO watchlist_entries (watchlist_id, movie_id, watched, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (watchlist_id, movie_id) DO NOTHING
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		entry.WatchlistID,
		entry.MovieID,
		entry.Watched,
		entry.AddedAt,
	)
	if database.IsForeignKeyViolation(err) {
		return false, fmt.Errorf("movie %s: %w", entry.MovieID.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to add watchlist entry",
			zap.Error(err),
			zap.String("watchlist_id", entry.WatchlistID.String()),
			zap.String("movie_id", entry.MovieID.String()),
		)
		return false, fmt.Errorf("add movie %s to watchlist %s: %w", entry.MovieID.String(), entry.WatchlistID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *watchlistRepository) FindEntry(ctx context.Context, watchlistID, movieID uuid.UUID) (*entity.WatchlistEntry, error) {
	query := `
		SELECT watchlist_id, movie_id, watched, added_at
		FROM watchlist_entries
		WHERE watchlist_id = $1 AND movie_id = $2
	`

	var entry entity.WatchlistEntry
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, watchlistID, movieID).Scan(
		&entry.WatchlistID,
		&entry.MovieID,
		&entry.Watched,
		&entry.AddedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie %s in watchlist %s: %w", movieID.String(), watchlistID.String(), err)
	}

	return &entry, nil
}

func (r *watchlistRepository) RemoveEntry(ctx context.Context, watchlistID, movieID uuid.UUID) (bool, error) {
	query := `DELETE FROM watchlist_entries WHERE watchlist_id = $1 AND movie_id = $2`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, watchlistID, movieID)
	if err != nil {
		r.log.Error("Failed to remove watchlist entry",
			zap.Error(err),
			zap.String("watchlist_id", watchlistID.String()),
			zap.String("movie_id", movieID.String()),
		)
		return false, fmt.Errorf("remove movie %s from watchlist %s: %w", movieID.String(), watchlistID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *watchlistRepository) RemoveAllEntries(ctx context.Context, watchlistID uuid.UUID) (int64, error) {
	query := `DELETE FROM watchlist_entries WHERE watchlist_id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, watchlistID)
	if err != nil {
		r.log.Error("Failed to clear watchlist",
			zap.Error(err),
			zap.String("watchlist_id", watchlistID.String()),
		)
		return 0, fmt.Errorf("clear watchlist %s: %w", watchlistID.String(), err)
	}

	return result.RowsAffected(), nil
}

// MarkEntryWatched reports whether the entry flipped from unwatched to watched.
func (r *watchlistRepository) MarkEntryWatched(ctx context.Context, watchlistID, movieID uuid.UUID) (bool, error) {
	query := `
		UPDATE watchlist_entries
		SET watched = TRUE
		WHERE watchlist_id = $1 AND movie_id = $2 AND watched = FALSE
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, watchlistID, movieID)
	if err != nil {
		r.log.Error("Failed to mark watchlist entry watched",
			zap.Error(err),
			zap.String("watchlist_id", watchlistID.String()),
			zap.String("movie_id", movieID.String()),
		)
		return false, fmt.Errorf("mark movie %s watched in watchlist %s: %w", movieID.String(), watchlistID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}
