package usecase

import (
	"context"
	"errors"
	"time"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"
	"film-catalog/pkg/apperrors"
	"film-catalog/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService is the read-only boundary to the user directory and the
// movie catalog. Missing records come back as NotFound.
type CatalogService interface {
	FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindUserByUsername(ctx context.Context, username string) (*entity.User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	FindMovie(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	MovieExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type catalogService struct {
	repo  *repository.Repository
	cache cache.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCatalogService(repo *repository.Repository, c cache.Client, ttl time.Duration, log *zap.Logger) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: c,
		ttl:   ttl,
		log:   log.With(zap.String("service", "catalog")),
	}
}

func movieCacheKey(id uuid.UUID) string {
	return "movie:" + id.String()
}

func (s *catalogService) FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", id)
	}
	return user, nil
}

func (s *catalogService) FindUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, storageErr("find user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user %q not found", username)
	}
	return user, nil
}

func (s *catalogService) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := s.repo.User.Exists(ctx, id)
	if err != nil {
		return false, storageErr("check user", err)
	}
	return exists, nil
}

// FindMovie reads through the cache when one is configured.
func (s *catalogService) FindMovie(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	key := movieCacheKey(id)

	if s.cache != nil && s.cache.Enabled() {
		var cached entity.Movie
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("Movie cache read failed", zap.Error(err), zap.String("movie_id", id.String()))
		}
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find movie", err)
	}
	if movie == nil {
		return nil, apperrors.NotFound("movie %s not found", id)
	}

	if s.cache != nil && s.cache.Enabled() {
		if err := s.cache.SetJSON(ctx, key, movie, s.ttl); err != nil {
			s.log.Warn("Movie cache write failed", zap.Error(err), zap.String("movie_id", id.String()))
		}
	}

	return movie, nil
}

func (s *catalogService) MovieExists(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.cache != nil && s.cache.Enabled() {
		var cached entity.Movie
		if err := s.cache.GetJSON(ctx, movieCacheKey(id), &cached); err == nil {
			return true, nil
		}
	}

	exists, err := s.repo.Movie.Exists(ctx, id)
	if err != nil {
		return false, storageErr("check movie", err)
	}
	return exists, nil
}

// requireUser and requireMovie turn a negative existence check into NotFound.
func requireUser(ctx context.Context, catalog CatalogService, id uuid.UUID) error {
	exists, err := catalog.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("user %s not found", id)
	}
	return nil
}

func requireMovie(ctx context.Context, catalog CatalogService, id uuid.UUID) error {
	exists, err := catalog.MovieExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("movie %s not found", id)
	}
	return nil
}
