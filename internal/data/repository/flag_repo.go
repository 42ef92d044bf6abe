package repository

import (
	"context"
	"fmt"

	"film-catalog/internal/data/entity"
	"film-catalog/pkg/database"

	"go.uber.org/zap"
)

type FlagRepository interface {
	Create(ctx context.Context, flag *entity.Flag) error
	Exists(ctx context.Context, key entity.FlagKey) (bool, error)
	CountByReview(ctx context.Context, reviewID entity.ReviewID) (int64, error)
	FindByReview(ctx context.Context, reviewID entity.ReviewID, limit, offset int) ([]*entity.Flag, error)
}

type flagRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFlagRepository(db database.PgxIface, log *zap.Logger) FlagRepository {
	return &flagRepository{
		db:  db,
		log: log.With(zap.String("repository", "flag")),
	}
}

func (r *flagRepository) Create(ctx context.Context, flag *entity.Flag) error {
	query := `
		INSERT INTO review_flags (reporter_id, review_user_id, review_movie_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		flag.ReporterID,
		flag.ReviewID.UserID,
		flag.ReviewID.MovieID,
		flag.Reason,
		flag.CreatedAt,
	)

	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		r.log.Error("Failed to create review flag",
			zap.Error(err),
			zap.String("reporter_id", flag.ReporterID.String()),
			zap.String("review_id", flag.ReviewID.String()),
		)
		return fmt.Errorf("create flag on review %s: %w", flag.ReviewID.String(), err)
	}

	return nil
}

func (r *flagRepository) Exists(ctx context.Context, key entity.FlagKey) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM review_flags
			WHERE reporter_id = $1 AND review_user_id = $2 AND review_movie_id = $3
		)
	`

	var exists bool
	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		key.ReporterID,
		key.ReviewID.UserID,
		key.ReviewID.MovieID,
	).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check review flag",
			zap.Error(err),
			zap.String("reporter_id", key.ReporterID.String()),
			zap.String("review_id", key.ReviewID.String()),
		)
		return false, fmt.Errorf("check flag on review %s: %w", key.ReviewID.String(), err)
	}

	return exists, nil
}

func (r *flagRepository) CountByReview(ctx context.Context, reviewID entity.ReviewID) (int64, error) {
	query := `SELECT COUNT(*) FROM review_flags WHERE review_user_id = $1 AND review_movie_id = $2`

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, reviewID.UserID, reviewID.MovieID).Scan(&count); err != nil {
		r.log.Error("Failed to count review flags",
			zap.Error(err),
			zap.String("review_id", reviewID.String()),
		)
		return 0, fmt.Errorf("count flags on review %s: %w", reviewID.String(), err)
	}

	return count, nil
}

func (r *flagRepository) FindByReview(ctx context.Context, reviewID entity.ReviewID, limit, offset int) ([]*entity.Flag, error) {
	query := `
		SELECT reporter_id, review_user_id, review_movie_id, reason, created_at
		FROM review_flags
		WHERE review_user_id = $1 AND review_movie_id = $2
		ORDER BY created_at ASC, reporter_id ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, reviewID.UserID, reviewID.MovieID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list review flags",
			zap.Error(err),
			zap.String("review_id", reviewID.String()),
		)
		return nil, fmt.Errorf("list flags on review %s: %w", reviewID.String(), err)
	}
	defer rows.Close()

	var flags []*entity.Flag
	for rows.Next() {
		var flag entity.Flag
		if err := rows.Scan(
			&flag.ReporterID,
			&flag.ReviewID.UserID,
			&flag.ReviewID.MovieID,
			&flag.Reason,
			&flag.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan flag row: %w", err)
		}
		flags = append(flags, &flag)
	}

	return flags, rows.Err()
}
