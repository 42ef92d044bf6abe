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

	"go.uber.org/zap"
)

// WatchlistService manages named movie lists. An entry's watched state is
// scoped to its list and never touches the global watch history.
type WatchlistService interface {
	CreateWatchlist(ctx context.Context, caller Caller, req *request.CreateWatchlistRequest) (*response.WatchlistResponse, error)
	GetWatchlist(ctx context.Context, watchlistID string) (*response.WatchlistResponse, error)
	ListUserWatchlists(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.WatchlistResponse], error)
	UpdateWatchlist(ctx context.Context, caller Caller, watchlistID string, req *request.UpdateWatchlistRequest) (*response.WatchlistResponse, error)
	DeleteWatchlist(ctx context.Context, caller Caller, watchlistID string) error

	// Entries
	AddMovie(ctx context.Context, caller Caller, watchlistID, movieID string) (*response.WatchlistEntryResponse, error)
	RemoveMovie(ctx context.Context, caller Caller, watchlistID, movieID string) error
	RemoveAll(ctx context.Context, caller Caller, watchlistID string) (*response.WatchlistClearedResponse, error)
	MarkWatched(ctx context.Context, caller Caller, watchlistID, movieID string) (*response.WatchlistEntryResponse, error)
	ContainsMovie(ctx context.Context, watchlistID, movieID string) (*response.WatchlistContainsResponse, error)
}

type watchlistService struct {
	repo    *repository.Repository
	tx      database.Transactor
	catalog CatalogService
	log     *zap.Logger
}

func NewWatchlistService(repo *repository.Repository, tx database.Transactor, catalog CatalogService, log *zap.Logger) WatchlistService {
	return &watchlistService{
		repo:    repo,
		tx:      tx,
		catalog: catalog,
		log:     log.With(zap.String("service", "watchlist")),
	}
}

func (s *watchlistService) CreateWatchlist(ctx context.Context, caller Caller, req *request.CreateWatchlistRequest) (*response.WatchlistResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := requireUser(ctx, s.catalog, caller.UserID); err != nil {
		return nil, err
	}

	watchlist := &entity.Watchlist{
		EditableRow: entity.NewEditableRow(time.Now()),
		UserID:      caller.UserID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Watchlist.Create(ctx, watchlist); err != nil {
		return nil, storageErr("create watchlist", err)
	}

	s.log.Info("Watchlist created",
		zap.String("watchlist_id", watchlist.ID.String()),
		zap.String("user_id", caller.UserID.String()),
	)

	resp := response.WatchlistToResponse(watchlist)
	return &resp, nil
}

func (s *watchlistService) GetWatchlist(ctx context.Context, watchlistID string) (*response.WatchlistResponse, error) {
	id, err := parseID("watchlist ID", watchlistID)
	if err != nil {
		return nil, err
	}

	watchlist, err := s.repo.Watchlist.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find watchlist", err)
	}
	if watchlist == nil {
		return nil, apperrors.NotFound("watchlist %s not found", watchlistID)
	}

	resp := response.WatchlistToResponse(watchlist)
	return &resp, nil
}

func (s *watchlistService) ListUserWatchlists(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.WatchlistResponse], error) {
	if err := validatePage(req); err != nil {
		return nil, err
	}

	userUUID, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}

	watchlists, err := s.repo.Watchlist.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, storageErr("list watchlists", err)
	}

	total, err := s.repo.Watchlist.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, storageErr("count watchlists", err)
	}

	items := make([]response.WatchlistResponse, 0, len(watchlists))
	for _, wl := range watchlists {
		items = append(items, response.WatchlistToResponse(wl))
	}

	return response.NewPaginatedResponse(items, req.PageNumber(), req.Limit(), total), nil
}

func (s *watchlistService) UpdateWatchlist(ctx context.Context, caller Caller, watchlistID string, req *request.UpdateWatchlistRequest) (*response.WatchlistResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *entity.Watchlist
	err := s.withOwnedList(ctx, caller, watchlistID, func(ctx context.Context, watchlist *entity.Watchlist) error {
		if req.Name != nil {
			watchlist.Name = *req.Name
		}
		if req.Description != nil {
			watchlist.Description = req.Description
		}
		watchlist.Touch(time.Now())

		if err := s.repo.Watchlist.Update(ctx, watchlist); err != nil {
			return storageErr("update watchlist", err)
		}
		updated = watchlist
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := response.WatchlistToResponse(updated)
	return &resp, nil
}

// DeleteWatchlist removes the list and all of its entries.
func (s *watchlistService) DeleteWatchlist(ctx context.Context, caller Caller, watchlistID string) error {
	err := s.withOwnedList(ctx, caller, watchlistID, func(ctx context.Context, watchlist *entity.Watchlist) error {
		if err := s.repo.Watchlist.Delete(ctx, watchlist.ID); err != nil {
			return storageErr("delete watchlist", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Watchlist deleted", zap.String("watchlist_id", watchlistID))
	return nil
}

// AddMovie is idempotent: adding a movie already on the list returns the existing entry.
func (s *watchlistService) AddMovie(ctx context.Context, caller Caller, watchlistID, movieID string) (*response.WatchlistEntryResponse, error) {
	movieUUID, err := parseID("movie ID", movieID)
	if err != nil {
		return nil, err
	}

	var entry *entity.WatchlistEntry
	err = s.withOwnedList(ctx, caller, watchlistID, func(ctx context.Context, watchlist *entity.Watchlist) error {
		if err := requireMovie(ctx, s.catalog, movieUUID); err != nil {
			return err
		}

		_, err := s.repo.Watchlist.AddEntry(ctx, &entity.WatchlistEntry{
			WatchlistID: watchlist.ID,
			MovieID:     movieUUID,
			AddedAt:     time.Now(),
		})
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("movie %s not found", movieID)
		}
		if err != nil {
			return storageErr("add movie to watchlist", err)
		}

		entry, err = s.repo.Watchlist.FindEntry(ctx, watchlist.ID, movieUUID)
		if err != nil {
			return storageErr("find watchlist entry", err)
		}
		if entry == nil {
			return apperrors.Internal("add movie to watchlist", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := response.WatchlistEntryToResponse(entry)
	return &resp, nil
}

// RemoveMovie is a no-op when the movie is not on the list.
func (s *watchlistService) RemoveMovie(ctx context.Context, caller Caller, watchlistID, movieID string) error {
	movieUUID, err := parseID("movie ID", movieID)
	if err != nil {
		return err
	}

	return s.withOwnedList(ctx, caller, watchlistID, func(ctx context.Context, watchlist *entity.Watchlist) error {
		if _, err := s.repo.Watchlist.RemoveEntry(ctx, watchlist.ID, movieUUID); err != nil {
			return storageErr("remove movie from watchlist", err)
		}
		return nil
	})
}

func (s *watchlistService) RemoveAll(ctx context.Context, caller Caller, watchlistID string) (*response.WatchlistClearedResponse, error) {
	var removed int64
	err := s.withOwnedList(ctx, caller, watchlistID, func(ctx context.Context, watchlist *entity.Watchlist) error {
		n, err := s.repo.Watchlist.RemoveAllEntries(ctx, watchlist.ID)
		if err != nil {
			return storageErr("clear watchlist", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response.WatchlistClearedResponse{WatchlistID: watchlistID, Removed: removed}, nil
}

func (s *watchlistService) MarkWatched(ctx context.Context, caller Caller, watchlistID, movieID string) (*response.WatchlistEntryResponse, error) {
	movieUUID, err := parseID("movie ID", movieID)
	if err != nil {
		return nil, err
	}

	var entry *entity.WatchlistEntry
	err = s.withOwnedList(ctx, caller, watchlistID, func(ctx context.Context, watchlist *entity.Watchlist) error {
		entry, err = s.repo.Watchlist.FindEntry(ctx, watchlist.ID, movieUUID)
		if err != nil {
			return storageErr("find watchlist entry", err)
		}
		if entry == nil {
			return apperrors.PreconditionFailed("movie %s is not in this watchlist", movieID)
		}
		if entry.Watched {
			return apperrors.Conflict("movie %s is already marked as watched in this watchlist", movieID)
		}

		changed, err := s.repo.Watchlist.MarkEntryWatched(ctx, watchlist.ID, movieUUID)
		if err != nil {
			return storageErr("mark watchlist entry watched", err)
		}
		if !changed {
			return apperrors.Conflict("movie %s is already marked as watched in this watchlist", movieID)
		}
		entry.Watched = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := response.WatchlistEntryToResponse(entry)
	return &resp, nil
}

func (s *watchlistService) ContainsMovie(ctx context.Context, watchlistID, movieID string) (*response.WatchlistContainsResponse, error) {
	id, err := parseID("watchlist ID", watchlistID)
	if err != nil {
		return nil, err
	}
	movieUUID, err := parseID("movie ID", movieID)
	if err != nil {
		return nil, err
	}

	watchlist, err := s.repo.Watchlist.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find watchlist", err)
	}
	if watchlist == nil {
		return nil, apperrors.NotFound("watchlist %s not found", watchlistID)
	}

	entry, err := s.repo.Watchlist.FindEntry(ctx, id, movieUUID)
	if err != nil {
		return nil, storageErr("find watchlist entry", err)
	}

	return &response.WatchlistContainsResponse{
		WatchlistID: watchlistID,
		MovieID:     movieID,
		Contains:    entry != nil,
	}, nil
}

// withOwnedList locks the list and runs fn in one transaction once the
// caller is confirmed as owner or admin.
func (s *watchlistService) withOwnedList(ctx context.Context, caller Caller, watchlistID string, fn func(ctx context.Context, watchlist *entity.Watchlist) error) error {
	id, err := parseID("watchlist ID", watchlistID)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		watchlist, err := s.repo.Watchlist.FindByIDForUpdate(ctx, id)
		if err != nil {
			return storageErr("find watchlist", err)
		}
		if watchlist == nil {
			return apperrors.NotFound("watchlist %s not found", watchlistID)
		}
		if !caller.CanModify(watchlist.UserID) {
			return apperrors.Forbidden("only the owner can modify this watchlist")
		}
		return fn(ctx, watchlist)
	})
}
