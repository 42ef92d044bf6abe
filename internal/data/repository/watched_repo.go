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

type WatchedRepository interface {
	Create(ctx context.Context, record *entity.WatchedRecord) error
	FindByKey(ctx context.Context, key entity.UserMovieKey) (*entity.WatchedRecord, error)
	// FindByKeyForUpdate locks the row until the surrounding transaction ends.
	FindByKeyForUpdate(ctx context.Context, key entity.UserMovieKey) (*entity.WatchedRecord, error)
	Exists(ctx context.Context, key entity.UserMovieKey) (bool, error)
	Delete(ctx context.Context, key entity.UserMovieKey) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.WatchedRecord, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type watchedRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWatchedRepository(db database.PgxIface, log *zap.Logger) WatchedRepository {
	return &watchedRepository{
		db:  db,
		log: log.With(zap.String("repository", "watched")),
	}
}

func (r *watchedRepository) Create(ctx context.Context, record *entity.WatchedRecord) error {
	query := `
		INSERT INTO watched_records (user_id, movie_id, watched_at)
		VALUES ($1, $2, $3)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query, record.UserID, record.MovieID, record.WatchedAt)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	// The user or movie disappeared after the existence checks.
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("watched record %s references a missing user or movie: %w", record.UserMovieKey.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to create watched record",
			zap.Error(err),
			zap.String("key", record.UserMovieKey.String()),
		)
		return fmt.Errorf("create watched record %s: %w", record.UserMovieKey.String(), err)
	}

	return nil
}

func (r *watchedRepository) FindByKey(ctx context.Context, key entity.UserMovieKey) (*entity.WatchedRecord, error) {
	return r.findByKey(ctx, key, "")
}

func (r *watchedRepository) FindByKeyForUpdate(ctx context.Context, key entity.UserMovieKey) (*entity.WatchedRecord, error) {
	return r.findByKey(ctx, key, "FOR UPDATE")
}

func (r *watchedRepository) findByKey(ctx context.Context, key entity.UserMovieKey, lock string) (*entity.WatchedRecord, error) {
	query := `
		SELECT user_id, movie_id, watched_at
		FROM watched_records
		WHERE user_id = $1 AND movie_id = $2
	` + lock

	var record entity.WatchedRecord
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, key.UserID, key.MovieID).Scan(
		&record.UserID,
		&record.MovieID,
		&record.WatchedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find watched record",
			zap.Error(err),
			zap.String("key", key.String()),
		)
		return nil, fmt.Errorf("find watched record %s: %w", key.String(), err)
	}

	return &record, nil
}

func (r *watchedRepository) Exists(ctx context.Context, key entity.UserMovieKey) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM watched_records WHERE user_id = $1 AND movie_id = $2)`

	var exists bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, key.UserID, key.MovieID).Scan(&exists); err != nil {
		r.log.Error("Failed to check watched record",
			zap.Error(err),
			zap.String("key", key.String()),
		)
		return false, fmt.Errorf("check watched record %s: %w", key.String(), err)
	}

	return exists, nil
}

func (r *watchedRepository) Delete(ctx context.Context, key entity.UserMovieKey) error {
	query := `DELETE FROM watched_records WHERE user_id = $1 AND movie_id = $2`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, key.UserID, key.MovieID)
	if err != nil {
		r.log.Error("Failed to delete watched record",
			zap.Error(err),
			zap.String("key", key.String()),
		)
		return fmt.Errorf("delete watched record %s: %w", key.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("watched record %s: %w", key.String(), ErrNotFound)
	}

	return nil
}

func (r *watchedRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.WatchedRecord, error) {
	query := `
		SELECT user_id, movie_id, watched_at
		FROM watched_records
		WHERE user_id = $1
		ORDER BY watched_at DESC, movie_id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list watched records",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list watched records for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var records []*entity.WatchedRecord
	for rows.Next() {
		var record entity.WatchedRecord
		if err := rows.Scan(&record.UserID, &record.MovieID, &record.WatchedAt); err != nil {
			return nil, fmt.Errorf("scan watched record row: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

func (r *watchedRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM watched_records WHERE user_id = $1`

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count watched records for user %s: %w", userID.String(), err)
	}

	return count, nil
}
