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
	"film-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ModerationService interface {
	// FlagReview records one flag and hides the review once the flag count
	// reaches the auto-hide threshold, all in one transaction.
	FlagReview(ctx context.Context, reporterID uuid.UUID, reviewID string, req *request.FlagReviewRequest) (*response.FlagResponse, error)

	// Admin actions
	Hide(ctx context.Context, caller Caller, reviewID string) (*response.ReviewResponse, error)
	Unhide(ctx context.Context, caller Caller, reviewID string) (*response.ReviewResponse, error)
	ListHeavilyFlagged(ctx context.Context, caller Caller, minFlags int, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FlaggedReviewResponse], error)
	ListFlags(ctx context.Context, caller Caller, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FlagResponse], error)
}

type moderationService struct {
	repo      *repository.Repository
	tx        database.Transactor
	publisher events.Publisher
	metrics   *metrics.Metrics
	threshold int64
	log       *zap.Logger
}

func NewModerationService(deps Dependencies, config utils.ModerationConfig, log *zap.Logger) ModerationService {
	return &moderationService{
		repo:      deps.Repo,
		tx:        deps.Tx,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		threshold: int64(config.AutoHideThreshold),
		log:       log.With(zap.String("service", "moderation")),
	}
}

func (s *moderationService) FlagReview(ctx context.Context, reporterID uuid.UUID, reviewID string, req *request.FlagReviewRequest) (*response.FlagResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseReviewID(reviewID)
	if err != nil {
		return nil, err
	}

	flag := &entity.Flag{
		ReporterID: reporterID,
		ReviewID:   id,
		Reason:     req.Reason,
		CreatedAt:  time.Now(),
	}

	var (
		review     *entity.Review
		count      int64
		autoHidden bool
	)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Locking the review serializes concurrent flags and admin actions on it.
		review, err = s.repo.Review.FindByIDForUpdate(ctx, id)
		if err != nil {
			return storageErr("find review", err)
		}
		if review == nil {
			return apperrors.NotFound("review %s not found", reviewID)
		}

		reporterExists, err := s.repo.User.Exists(ctx, reporterID)
		if err != nil {
			return storageErr("check reporter", err)
		}
		if !reporterExists {
			return apperrors.NotFound("user %s not found", reporterID)
		}

		if review.AuthorID() == reporterID {
			return apperrors.Forbidden("cannot flag your own review")
		}

		flagged, err := s.repo.Flag.Exists(ctx, flag.Key())
		if err != nil {
			return storageErr("check flag", err)
		}
		if flagged {
			return apperrors.Conflict("review already flagged by this user")
		}

		if err := s.repo.Flag.Create(ctx, flag); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.Conflict("review already flagged by this user")
			}
			return storageErr("create flag", err)
		}

		count, err = s.repo.Flag.CountByReview(ctx, id)
		if err != nil {
			return storageErr("count flags", err)
		}

		if count >= s.threshold && !review.Hidden {
			if err := s.repo.Review.SetHidden(ctx, id, true); err != nil {
				return storageErr("auto-hide review", err)
			}
			review.Hidden = true
			autoHidden = true
		}
		return nil
	})
	if err != nil {
		if apperrors.Is(err, apperrors.KindForbidden) || apperrors.Is(err, apperrors.KindConflict) {
			s.log.Warn("Flag rejected",
				zap.Error(err),
				zap.String("reporter_id", reporterID.String()),
				zap.String("review_id", reviewID),
			)
		}
		return nil, err
	}

	s.metrics.FlagsRecorded.Inc()

	event := reviewEvent(events.ReviewFlagged, review)
	event.ActorID = reporterID.String()
	event.FlagCount = count
	publish(ctx, s.publisher, s.log, event)

	s.log.Info("Review flagged",
		zap.String("review_id", reviewID),
		zap.String("reporter_id", reporterID.String()),
		zap.Int64("flag_count", count),
	)

	if autoHidden {
		s.metrics.AutoHides.Inc()

		hiddenEvent := reviewEvent(events.ReviewAutoHidden, review)
		hiddenEvent.FlagCount = count
		publish(ctx, s.publisher, s.log, hiddenEvent)

		s.log.Info("Review auto-hidden",
			zap.String("review_id", reviewID),
			zap.Int64("flag_count", count),
			zap.Int64("threshold", s.threshold),
		)
	}

	resp := response.FlagToResponse(flag)
	resp.FlagCount = count
	resp.AutoHidden = autoHidden
	return &resp, nil
}

func (s *moderationService) Hide(ctx context.Context, caller Caller, reviewID string) (*response.ReviewResponse, error) {
	return s.setVisibility(ctx, caller, reviewID, true)
}

// Unhide makes the review visible again. Flags are kept, so the next new
// flag on a review still at or over the threshold hides it again.
func (s *moderationService) Unhide(ctx context.Context, caller Caller, reviewID string) (*response.ReviewResponse, error) {
	return s.setVisibility(ctx, caller, reviewID, false)
}

func (s *moderationService) setVisibility(ctx context.Context, caller Caller, reviewID string, hidden bool) (*response.ReviewResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required")
	}

	id, err := parseReviewID(reviewID)
	if err != nil {
		return nil, err
	}

	var review *entity.Review
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		review, err = s.repo.Review.FindByIDForUpdate(ctx, id)
		if err != nil {
			return storageErr("find review", err)
		}
		if review == nil {
			return apperrors.NotFound("review %s not found", reviewID)
		}
		if review.Hidden == hidden {
			if hidden {
				return apperrors.InvalidState("review is already hidden")
			}
			return apperrors.InvalidState("review is already visible")
		}

		if err := s.repo.Review.SetHidden(ctx, id, hidden); err != nil {
			return storageErr("set review visibility", err)
		}
		review.Hidden = hidden
		return nil
	})
	if err != nil {
		return nil, err
	}

	action, eventType := "unhide", events.ReviewUnhidden
	if hidden {
		action, eventType = "hide", events.ReviewHidden
	}

	s.metrics.ModerationActions.WithLabelValues(action).Inc()

	event := reviewEvent(eventType, review)
	event.ActorID = caller.UserID.String()
	publish(ctx, s.publisher, s.log, event)

	s.log.Info("Review visibility changed by admin",
		zap.String("review_id", reviewID),
		zap.String("action", action),
		zap.String("admin_id", caller.UserID.String()),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *moderationService) ListHeavilyFlagged(ctx context.Context, caller Caller, minFlags int, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FlaggedReviewResponse], error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required")
	}
	if minFlags < 1 {
		return nil, apperrors.Validation("min_flags must be at least 1")
	}
	if err := validatePage(req); err != nil {
		return nil, err
	}

	flagged, err := s.repo.Review.FindHeavilyFlagged(ctx, int64(minFlags), req.Limit(), req.Offset())
	if err != nil {
		return nil, storageErr("list flagged reviews", err)
	}

	total, err := s.repo.Review.CountHeavilyFlagged(ctx, int64(minFlags))
	if err != nil {
		return nil, storageErr("count flagged reviews", err)
	}

	items := make([]response.FlaggedReviewResponse, 0, len(flagged))
	for _, fr := range flagged {
		items = append(items, response.FlaggedReviewResponse{
			ReviewResponse: response.ReviewToResponse(&fr.Review),
			FlagCount:      fr.FlagCount,
		})
	}

	return response.NewPaginatedResponse(items, req.PageNumber(), req.Limit(), total).WithSort("flag_count"), nil
}

func (s *moderationService) ListFlags(ctx context.Context, caller Caller, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FlagResponse], error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required")
	}
	if err := validatePage(req); err != nil {
		return nil, err
	}

	id, err := parseReviewID(reviewID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Review.Exists(ctx, id)
	if err != nil {
		return nil, storageErr("check review", err)
	}
	if !exists {
		return nil, apperrors.NotFound("review %s not found", reviewID)
	}

	flags, err := s.repo.Flag.FindByReview(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, storageErr("list flags", err)
	}

	total, err := s.repo.Flag.CountByReview(ctx, id)
	if err != nil {
		return nil, storageErr("count flags", err)
	}

	items := make([]response.FlagResponse, 0, len(flags))
	for _, flag := range flags {
		items = append(items, response.FlagToResponse(flag))
	}

	return response.NewPaginatedResponse(items, req.PageNumber(), req.Limit(), total), nil
}
