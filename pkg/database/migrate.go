package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// schema is applied in order; every statement is idempotent.
//
// Reviews cascade from users and movies directly. The link to
// watched_records is NO ACTION, checked at statement end, so unwatching a
// reviewed movie fails while deleting its user or movie succeeds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password TEXT NOT NULL DEFAULT '',
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token UUID NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id UUID PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		synopsis TEXT,
		release_year INT NOT NULL,
		duration_minutes INT NOT NULL,
		content_rating VARCHAR(10) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id UUID PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id UUID NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		genre_id UUID NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
		PRIMARY KEY (movie_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS watched_records (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		movie_id UUID NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		watched_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, movie_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		movie_id UUID NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		direction_score INT NOT NULL,
		screenplay_score INT NOT NULL,
		cinematography_score INT NOT NULL,
		general_score INT NOT NULL,
		likes_count BIGINT NOT NULL DEFAULT 0 CHECK (likes_count >= 0),
		hidden BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, movie_id),
		FOREIGN KEY (user_id, movie_id) REFERENCES watched_records(user_id, movie_id) ON DELETE NO ACTION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_movie ON reviews(movie_id) WHERE NOT hidden`,
	`CREATE TABLE IF NOT EXISTS review_flags (
		reporter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		review_user_id UUID NOT NULL,
		review_movie_id UUID NOT NULL,
		reason VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (reporter_id, review_user_id, review_movie_id),
		FOREIGN KEY (review_user_id, review_movie_id) REFERENCES reviews(user_id, movie_id) ON DELETE CASCADE,
		CHECK (reporter_id <> review_user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_flags_review ON review_flags(review_user_id, review_movie_id)`,
	`CREATE TABLE IF NOT EXISTS watchlists (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS watchlist_entries (
		watchlist_id UUID NOT NULL REFERENCES watchlists(id) ON DELETE CASCADE,
		movie_id UUID NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		watched BOOLEAN NOT NULL DEFAULT FALSE,
		added_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (watchlist_id, movie_id)
	)`,
}

// Migrate creates the tables the service reads and writes.
func Migrate(ctx context.Context, db PgxIface, log *zap.Logger) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	log.Info("Database schema up to date", zap.Int("statements", len(schema)))
	return nil
}
