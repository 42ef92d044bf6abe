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

// MovieRepository is a read-only view of the movie catalog.
type MovieRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `
		SELECT m.id, m.title, m.synopsis, m.release_year, m.duration_minutes,
		       m.content_rating, m.created_at,
		       COALESCE(ARRAY_AGG(g.name ORDER BY g.name) FILTER (WHERE g.name IS NOT NULL), '{}')
		FROM movies m
		LEFT JOIN movie_genres mg ON mg.movie_id = m.id
		LEFT JOIN genres g ON g.id = mg.genre_id
		WHERE m.id = $1
		GROUP BY m.id
	`

	var movie entity.Movie
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Synopsis,
		&movie.ReleaseYear,
		&movie.DurationMinutes,
		&movie.ContentRating,
		&movie.CreatedAt,
		&movie.Genres,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("find movie by ID %s: %w", id.String(), err)
	}

	return &movie, nil
}

func (r *movieRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM movies WHERE id = $1)`

	var exists bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check movie existence",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return false, fmt.Errorf("check movie %s exists: %w", id.String(), err)
	}

	return exists, nil
}
