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

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id entity.ReviewID) (*entity.Review, error)
	// FindByIDForUpdate locks the review row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id entity.ReviewID) (*entity.Review, error)
	Exists(ctx context.Context, id entity.ReviewID) (bool, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id entity.ReviewID) error

	// Atomic single-row mutations
	IncrementLikes(ctx context.Context, id entity.ReviewID) (*entity.Review, error)
	SetHidden(ctx context.Context, id entity.ReviewID, hidden bool) error

	FindByMovieID(ctx context.Context, movieID uuid.UUID, q ReviewQuery) ([]*entity.Review, error)
	CountByMovieID(ctx context.Context, movieID uuid.UUID, includeHidden bool) (int64, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, q ReviewQuery) ([]*entity.Review, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, includeHidden bool) (int64, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*entity.ReviewStats, error)

	// Moderation queries
	FindHeavilyFlagged(ctx context.Context, minFlags int64, limit, offset int) ([]*entity.FlaggedReview, error)
	CountHeavilyFlagged(ctx context.Context, minFlags int64) (int64, error)
}

const reviewColumns = `user_id, movie_id, content, direction_score, screenplay_score,
		cinematography_score, general_score, likes_count, hidden, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func reviewFields(review *entity.Review) []any {
	return []any{
		&review.ID.UserID,
		&review.ID.MovieID,
		&review.Content,
		&review.Scores.Direction,
		&review.Scores.Screenplay,
		&review.Scores.Cinematography,
		&review.Scores.General,
		&review.LikesCount,
		&review.Hidden,
		&review.CreatedAt,
		&review.UpdatedAt,
	}
}

func scanReview(row rowScanner) (*entity.Review, error) {
	var review entity.Review
	if err := row.Scan(reviewFields(&review)...); err != nil {
		return nil, err
	}
	return &review, nil
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		review.ID.UserID,
		review.ID.MovieID,
		review.Content,
		review.Scores.Direction,
		review.Scores.Screenplay,
		review.Scores.Cinematography,
		review.Scores.General,
		review.LikesCount,
		review.Hidden,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("create review %s: %w", review.ID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id entity.ReviewID) (*entity.Review, error) {
	return r.findByID(ctx, id, "")
}

func (r *reviewRepository) FindByIDForUpdate(ctx context.Context, id entity.ReviewID) (*entity.Review, error) {
	return r.findByID(ctx, id, "FOR UPDATE")
}

func (r *reviewRepository) findByID(ctx context.Context, id entity.ReviewID, lock string) (*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND movie_id = $2
	` + lock

	review, err := scanReview(database.Conn(ctx, r.db).QueryRow(ctx, query, id.UserID, id.MovieID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) Exists(ctx context.Context, id entity.ReviewID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = $1 AND movie_id = $2)`

	var exists bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, id.UserID, id.MovieID).Scan(&exists); err != nil {
		r.log.Error("Failed to check review existence",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return false, fmt.Errorf("check review %s exists: %w", id.String(), err)
	}

	return exists, nil
}

// Update replaces content and scores only; likes and hidden are left alone.
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET content = $3,
		    direction_score = $4,
		    screenplay_score = $5,
		    cinematography_score = $6,
		    general_score = $7,
		    updated_at = $8
		WHERE user_id = $1 AND movie_id = $2
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		review.ID.UserID,
		review.ID.MovieID,
		review.Content,
		review.Scores.Direction,
		review.Scores.Screenplay,
		review.Scores.Cinematography,
		review.Scores.General,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", review.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id entity.ReviewID) error {
	query := `DELETE FROM reviews WHERE user_id = $1 AND movie_id = $2`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id.UserID, id.MovieID)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

// IncrementLikes adds one like in a single statement. Returns nil, nil when
// the review does not exist.
func (r *reviewRepository) IncrementLikes(ctx context.Context, id entity.ReviewID) (*entity.Review, error) {
	query := `
		UPDATE reviews
		SET likes_count = likes_count + 1
		WHERE user_id = $1 AND movie_id = $2
		RETURNING ` + reviewColumns

	review, err := scanReview(database.Conn(ctx, r.db).QueryRow(ctx, query, id.UserID, id.MovieID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to increment review likes",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("increment likes for review %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) SetHidden(ctx context.Context, id entity.ReviewID, hidden bool) error {
	query := `UPDATE reviews SET hidden = $3 WHERE user_id = $1 AND movie_id = $2`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id.UserID, id.MovieID, hidden)
	if err != nil {
		r.log.Error("Failed to set review visibility",
			zap.Error(err),
			zap.String("review_id", id.String()),
			zap.Bool("hidden", hidden),
		)
		return fmt.Errorf("set hidden=%t on review %s: %w", hidden, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) FindByMovieID(ctx context.Context, movieID uuid.UUID, q ReviewQuery) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE movie_id = $1 AND ($2 OR NOT hidden)
		` + q.orderBy() + `
		LIMIT $3 OFFSET $4
	`

	reviews, err := r.list(ctx, query, movieID, q.IncludeHidden, q.Limit, q.Offset)
	if err != nil {
		r.log.Error("Failed to find reviews by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
			zap.Int("limit", q.Limit),
			zap.Int("offset", q.Offset),
		)
		return nil, fmt.Errorf("find reviews by movie ID %s: %w", movieID.String(), err)
	}

	return reviews, nil
}

func (r *reviewRepository) CountByMovieID(ctx context.Context, movieID uuid.UUID, includeHidden bool) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE movie_id = $1 AND ($2 OR NOT hidden)`

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, movieID, includeHidden).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return 0, fmt.Errorf("count reviews by movie ID %s: %w", movieID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID uuid.UUID, q ReviewQuery) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND ($2 OR NOT hidden)
		` + q.orderBy() + `
		LIMIT $3 OFFSET $4
	`

	reviews, err := r.list(ctx, query, userID, q.IncludeHidden, q.Limit, q.Offset)
	if err != nil {
		r.log.Error("Failed to find reviews by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", q.Limit),
			zap.Int("offset", q.Offset),
		)
		return nil, fmt.Errorf("find reviews by user ID %s: %w", userID.String(), err)
	}

	return reviews, nil
}

func (r *reviewRepository) CountByUserID(ctx context.Context, userID uuid.UUID, includeHidden bool) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE user_id = $1 AND ($2 OR NOT hidden)`

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, userID, includeHidden).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count reviews by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (*entity.ReviewStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(likes_count), 0)::bigint,
			COALESCE(AVG(direction_score), 0)::float8,
			COALESCE(AVG(screenplay_score), 0)::float8,
			COALESCE(AVG(cinematography_score), 0)::float8,
			COALESCE(AVG(general_score), 0)::float8
		FROM reviews
		WHERE user_id = $1
	`

	var stats entity.ReviewStats
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(
		&stats.ReviewCount,
		&stats.TotalLikes,
		&stats.AvgDirectionScore,
		&stats.AvgScreenplayScore,
		&stats.AvgCinematographyScore,
		&stats.AvgGeneralScore,
	)
	if err != nil {
		r.log.Error("Failed to get user review stats",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("get review stats for user %s: %w", userID.String(), err)
	}

	return &stats, nil
}

func (r *reviewRepository) FindHeavilyFlagged(ctx context.Context, minFlags int64, limit, offset int) ([]*entity.FlaggedReview, error) {
	query := `
		SELECT r.user_id, r.movie_id, r.content, r.direction_score, r.screenplay_score,
		       r.cinematography_score, r.general_score, r.likes_count, r.hidden,
		       r.created_at, r.updated_at, COUNT(f.reporter_id) AS flag_count
		FROM reviews r
		JOIN review_flags f ON f.review_user_id = r.user_id AND f.review_movie_id = r.movie_id
		GROUP BY r.user_id, r.movie_id
		HAVING COUNT(f.reporter_id) >= $1
		ORDER BY flag_count DESC, r.user_id ASC, r.movie_id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, minFlags, limit, offset)
	if err != nil {
		r.log.Error("Failed to find heavily flagged reviews",
			zap.Error(err),
			zap.Int64("min_flags", minFlags),
		)
		return nil, fmt.Errorf("find reviews with at least %d flags: %w", minFlags, err)
	}
	defer rows.Close()

	var flagged []*entity.FlaggedReview
	for rows.Next() {
		var fr entity.FlaggedReview
		dest := append(reviewFields(&fr.Review), &fr.FlagCount)
		if err := rows.Scan(dest...); err != nil {
			r.log.Error("Failed to scan flagged review row", zap.Error(err))
			return nil, fmt.Errorf("scan flagged review row: %w", err)
		}
		flagged = append(flagged, &fr)
	}

	return flagged, rows.Err()
}

func (r *reviewRepository) CountHeavilyFlagged(ctx context.Context, minFlags int64) (int64, error) {
	query := `
		SELECT COUNT(*) FROM (
			SELECT 1
			FROM review_flags
			GROUP BY review_user_id, review_movie_id
			HAVING COUNT(*) >= $1
		) flagged
	`

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, minFlags).Scan(&count); err != nil {
		r.log.Error("Failed to count heavily flagged reviews",
			zap.Error(err),
			zap.Int64("min_flags", minFlags),
		)
		return 0, fmt.Errorf("count reviews with at least %d flags: %w", minFlags, err)
	}

	return count, nil
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Review, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}
