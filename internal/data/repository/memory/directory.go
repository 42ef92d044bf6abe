package memory

import (
	"context"
	"time"

	"film-catalog/internal/data/entity"

	"github.com/google/uuid"
)

type userRepository struct{ s *Store }

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user *entity.User
	r.s.read(ctx, func(t *tables) {
		if u, ok := t.users[id]; ok {
			user = &u
		}
	})
	return user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user *entity.User
	r.s.read(ctx, func(t *tables) {
		for _, u := range t.users {
			if u.Username == username {
				user = &u
				return
			}
		}
	})
	return user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	r.s.read(ctx, func(t *tables) { _, ok = t.users[id] })
	return ok, nil
}

type sessionRepository struct{ s *Store }

func (r *sessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}

	var session *entity.Session
	r.s.read(ctx, func(t *tables) {
		sess, ok := t.sessions[parsed]
		if ok && sess.RevokedAt == nil && sess.ExpiresAt.After(time.Now()) {
			session = &sess
		}
	})
	return session, nil
}

type movieRepository struct{ s *Store }

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	var movie *entity.Movie
	r.s.read(ctx, func(t *tables) {
		if m, ok := t.movies[id]; ok {
			m.Genres = append([]string{}, m.Genres...)
			movie = &m
		}
	})
	return movie, nil
}

func (r *movieRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	r.s.read(ctx, func(t *tables) { _, ok = t.movies[id] })
	return ok, nil
}
