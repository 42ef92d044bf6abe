package usecase

import (
	"context"
	"errors"
	"time"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"
	"film-catalog/internal/dto/request"
	"film-catalog/internal/dto/response"
	"film-catalog/internal/events"
	"film-catalog/pkg/apperrors"
	"film-catalog/pkg/database"
	"film-catalog/pkg/metrics"

	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, caller Caller, movieID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetReview(ctx context.Context, caller Caller, reviewID string) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, caller Caller, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, caller Caller, reviewID string) error
	LikeReview(ctx context.Context, caller Caller, reviewID string) (*response.ReviewResponse, error)

	// Listings hide moderated reviews unless the caller is an admin.
	GetMovieReviews(ctx context.Context, caller Caller, movieID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetUserReviews(ctx context.Context, caller Caller, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)

	// Stats
	GetUserReviewStats(ctx context.Context, userID string) (*response.ReviewStatsResponse, error)
}

type reviewService struct {
	repo      *repository.Repository
	tx        database.Transactor
	catalog   CatalogService
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewReviewService(deps Dependencies, catalog CatalogService, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:      deps.Repo,
		tx:        deps.Tx,
		catalog:   catalog,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		log:       log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, caller Caller, movieID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	movieUUID, err := parseID("movie ID", movieID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review := &entity.Review{
		ID:        entity.NewUserMovieKey(caller.UserID, movieUUID),
		Content:   req.Content,
		Scores:    scoresFromRequest(req.Scores),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := requireUser(ctx, s.catalog, caller.UserID); err != nil {
			return err
		}
		if err := requireMovie(ctx, s.catalog, movieUUID); err != nil {
			return err
		}

		// The watched record is locked so a concurrent unwatch cannot slip in.
		watched, err := s.repo.Watched.FindByKeyForUpdate(ctx, review.ID)
		if err != nil {
			return storageErr("check watched", err)
		}
		if watched == nil {
			return apperrors.PreconditionFailed("movie not watched")
		}

		exists, err := s.repo.Review.Exists(ctx, review.ID)
		if err != nil {
			return storageErr("check review", err)
		}
		if exists {
			return apperrors.Conflict("review already exists")
		}

		if err := s.repo.Review.Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("review already exists")
			}
			return storageErr("create review", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReviewsCreated.Inc()
	publish(ctx, s.publisher, s.log, reviewEvent(events.ReviewCreated, review))

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.Int("general_score", review.Scores.General),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetReview(ctx context.Context, caller Caller, reviewID string) (*response.ReviewResponse, error) {
	id, err := parseReviewID(reviewID)
	if err != nil {
		return nil, err
	}

	review, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

// findVisible treats a hidden review as missing for anyone but its author and admins.
func (s *reviewService) findVisible(ctx context.Context, caller Caller, id entity.ReviewID) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find review", err)
	}
	if review == nil || (review.Hidden && !caller.CanModify(review.AuthorID())) {
		return nil, apperrors.NotFound("review %s not found", id.String())
	}
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, caller Caller, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseReviewID(reviewID)
	if err != nil {
		return nil, err
	}

	var updated *entity.Review
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		review, err := s.repo.Review.FindByIDForUpdate(ctx, id)
		if err != nil {
			return storageErr("find review", err)
		}
		if review == nil {
			return apperrors.NotFound("review %s not found", reviewID)
		}
		if review.AuthorID() != caller.UserID {
			return apperrors.Forbidden("only the author can edit this review")
		}

		review.Content = req.Content
		review.Scores = scoresFromRequest(req.Scores)
		review.UpdatedAt = time.Now()

		if err := s.repo.Review.Update(ctx, review); err != nil {
			return storageErr("update review", err)
		}
		updated = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Review updated", zap.String("review_id", reviewID))

	resp := response.ReviewToResponse(updated)
	return &resp, nil
}

// DeleteReview removes the review and its flags. The watched record stays.
func (s *reviewService) DeleteReview(ctx context.Context, caller Caller, reviewID string) error {
	id, err := parseReviewID(reviewID)
	if err != nil {
		return err
	}

	var deleted *entity.Review
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		review, err := s.repo.Review.FindByIDForUpdate(ctx, id)
		if err != nil {
			return storageErr("find review", err)
		}
		if review == nil {
			return apperrors.NotFound("review %s not found", reviewID)
		}
		if !caller.CanModify(review.AuthorID()) {
			return apperrors.Forbidden("only the author or an admin can delete this review")
		}

		if err := s.repo.Review.Delete(ctx, id); err != nil {
			return storageErr("delete review", err)
		}
		deleted = review
		return nil
	})
	if err != nil {
		return err
	}

	event := reviewEvent(events.ReviewDeleted, deleted)
	event.ActorID = caller.UserID.String()
	publish(ctx, s.publisher, s.log, event)

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("deleted_by", caller.UserID.String()),
	)
	return nil
}

// LikeReview adds exactly one like in a single atomic update.
func (s *reviewService) LikeReview(ctx context.Context, caller Caller, reviewID string) (*response.ReviewResponse, error) {
	id, err := parseReviewID(reviewID)
	if err != nil {
		return nil, err
	}

	if _, err := s.findVisible(ctx, caller, id); err != nil {
		return nil, err
	}

	review, err := s.repo.Review.IncrementLikes(ctx, id)
	if err != nil {
		return nil, storageErr("like review", err)
	}
	if review == nil {
		return nil, apperrors.NotFound("review %s not found", reviewID)
	}

	s.metrics.ReviewLikes.Inc()

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetMovieReviews(ctx context.Context, caller Caller, movieID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if err := validatePage(req); err != nil {
		return nil, err
	}

	movieUUID, err := parseID("movie ID", movieID)
	if err != nil {
		return nil, err
	}
	if err := requireMovie(ctx, s.catalog, movieUUID); err != nil {
		return nil, err
	}

	q := reviewQuery(caller, req)

	reviews, err := s.repo.Review.FindByMovieID(ctx, movieUUID, q)
	if err != nil {
		return nil, storageErr("list movie reviews", err)
	}

	total, err := s.repo.Review.CountByMovieID(ctx, movieUUID, q.IncludeHidden)
	if err != nil {
		return nil, storageErr("count movie reviews", err)
	}

	return reviewPage(reviews, req, q, total), nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, caller Caller, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if err := validatePage(req); err != nil {
		return nil, err
	}

	userUUID, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.catalog, userUUID); err != nil {
		return nil, err
	}

	q := reviewQuery(caller, req)

	reviews, err := s.repo.Review.FindByUserID(ctx, userUUID, q)
	if err != nil {
		return nil, storageErr("list user reviews", err)
	}

	total, err := s.repo.Review.CountByUserID(ctx, userUUID, q.IncludeHidden)
	if err != nil {
		return nil, storageErr("count user reviews", err)
	}

	return reviewPage(reviews, req, q, total), nil
}

func (s *reviewService) GetUserReviewStats(ctx context.Context, userID string) (*response.ReviewStatsResponse, error) {
	userUUID, err := parseID("user ID", userID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.catalog, userUUID); err != nil {
		return nil, err
	}

	stats, err := s.repo.Review.GetUserStats(ctx, userUUID)
	if err != nil {
		return nil, storageErr("review stats", err)
	}

	return &response.ReviewStatsResponse{
		UserID:                 userID,
		ReviewCount:            stats.ReviewCount,
		TotalLikes:             stats.TotalLikes,
		AvgDirectionScore:      stats.AvgDirectionScore,
		AvgScreenplayScore:     stats.AvgScreenplayScore,
		AvgCinematographyScore: stats.AvgCinematographyScore,
		AvgGeneralScore:        stats.AvgGeneralScore,
	}, nil
}

func scoresFromRequest(req request.ScoresRequest) entity.Scores {
	return entity.Scores{
		Direction:      req.Direction,
		Screenplay:     req.Screenplay,
		Cinematography: req.Cinematography,
		General:        req.General,
	}
}

func reviewQuery(caller Caller, req *request.PaginatedRequest) repository.ReviewQuery {
	sort := repository.ReviewSort(req.Sort)
	if sort == "" {
		sort = repository.SortNewest
	}
	return repository.ReviewQuery{
		IncludeHidden: caller.IsAdmin(),
		Sort:          sort,
		Ascending:     req.Ascending(),
		Limit:         req.Limit(),
		Offset:        req.Offset(),
	}
}

func reviewPage(reviews []*entity.Review, req *request.PaginatedRequest, q repository.ReviewQuery, total int64) *response.PaginatedResponse[response.ReviewResponse] {
	items := make([]response.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, response.ReviewToResponse(review))
	}
	return response.NewPaginatedResponse(items, req.PageNumber(), req.Limit(), total).WithSort(string(q.Sort))
}
