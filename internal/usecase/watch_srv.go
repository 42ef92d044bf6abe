package usecase

import (
	"context"
	"errors"
	"time"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"
	"film-catalog/internal/dto/request"
	"film-catalog/internal/dto/response"
	"film-catalog/pkg/apperrors"
	"film-catalog/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WatchService interface {
	// MarkWatched fails with Conflict when the pair is already recorded.
	MarkWatched(ctx context.Context, userID uuid.UUID, movieID string) (*response.WatchedResponse, error)
	HasWatched(ctx context.Context, userID uuid.UUID, movieID string) (bool, error)
	// UnmarkWatched refuses to remove a record that a review still depends on.
	UnmarkWatched(ctx context.Context, userID uuid.UUID, movieID string) error
	ListWatched(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.WatchedResponse], error)
}

type watchService struct {
	repo    *repository.Repository
	tx      database.Transactor
	catalog CatalogService
	log     *zap.Logger
}

func NewWatchService(repo *repository.Repository, tx database.Transactor, catalog CatalogService, log *zap.Logger) WatchService {
	return &watchService{
		repo:    repo,
		tx:      tx,
		catalog: catalog,
		log:     log.With(zap.String("service", "watch")),
	}
}

func (s *watchService) MarkWatched(ctx context.Context, userID uuid.UUID, movieID string) (*response.WatchedResponse, error) {
	movieUUID, err := parseID("movie ID", movieID)
	if err != nil {
		return nil, err
	}

	record := &entity.WatchedRecord{
		UserMovieKey: entity.NewUserMovieKey(userID, movieUUID),
		WatchedAt:    time.Now(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := requireUser(ctx, s.catalog, userID); err != nil {
			return err
		}
		if err := requireMovie(ctx, s.catalog, movieUUID); err != nil {
			return err
		}

		if err := s.repo.Watched.Create(ctx, record); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("movie %s already marked as watched", movieID)
			}
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NotFound("movie %s not found", movieID)
			}
			return storageErr("mark watched", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Movie marked as watched",
		zap.String("user_id", userID.String()),
		zap.String("movie_id", movieID),
	)

	resp := response.WatchedToResponse(record)
	return &resp, nil
}

func (s *watchService) HasWatched(ctx context.Context, userID uuid.UUID, movieID string) (bool, error) {
	movieUUID, err := parseID("movie ID", movieID)
	if err != nil {
		return false, err
	}

	exists, err := s.repo.Watched.Exists(ctx, entity.NewUserMovieKey(userID, movieUUID))
	if err != nil {
		return false, storageErr("check watched", err)
	}
	return exists, nil
}

func (s *watchService) UnmarkWatched(ctx context.Context, userID uuid.UUID, movieID string) error {
	movieUUID, err := parseID("movie ID", movieID)
	if err != nil {
		return err
	}
	key := entity.NewUserMovieKey(userID, movieUUID)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.repo.Watched.FindByKeyForUpdate(ctx, key)
		if err != nil {
			return storageErr("find watched record", err)
		}
		if record == nil {
			return apperrors.NotFound("movie %s is not marked as watched", movieID)
		}

		reviewed, err := s.repo.Review.Exists(ctx, key)
		if err != nil {
			return storageErr("check review", err)
		}
		if reviewed {
			return apperrors.Conflict("cannot unwatch a reviewed movie")
		}

		if err := s.repo.Watched.Delete(ctx, key); err != nil {
			return storageErr("unmark watched", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			s.log.Warn("Unwatch rejected, review exists", zap.String("key", key.String()))
		}
		return err
	}

	s.log.Info("Movie unmarked as watched", zap.String("key", key.String()))
	return nil
}

func (s *watchService) ListWatched(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.WatchedResponse], error) {
	if err := validatePage(req); err != nil {
		return nil, err
	}

	records, err := s.repo.Watched.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, storageErr("list watched", err)
	}

	total, err := s.repo.Watched.CountByUserID(ctx, userID)
	if err != nil {
		return nil, storageErr("count watched", err)
	}

	items := make([]response.WatchedResponse, 0, len(records))
	for _, record := range records {
		items = append(items, response.WatchedToResponse(record))
	}

	return response.NewPaginatedResponse(items, req.PageNumber(), req.Limit(), total), nil
}
