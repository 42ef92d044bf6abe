package usecase

import (
	"context"
	"errors"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository"
	"film-catalog/internal/dto/request"
	"film-catalog/internal/events"
	"film-catalog/pkg/apperrors"
	"film-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid %s format %q", field, value)
	}
	return id, nil
}

func parseReviewID(value string) (entity.ReviewID, error) {
	id, err := entity.ParseUserMovieKey(value)
	if err != nil {
		return entity.ReviewID{}, apperrors.Validation("invalid review ID %q", value)
	}
	return id, nil
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperrors.Validation("validation failed: %s", utils.FormatValidationErrors(errs)).WithFields(errs)
	}
	return nil
}

func validatePage(req *request.PaginatedRequest) error {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = 10
	}
	return validate(req)
}

// storageErr maps repository sentinels to kinds and wraps everything else
// as internal. Already-typed errors pass through.
func storageErr(message string, err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.New(apperrors.KindNotFound, message, err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.New(apperrors.KindConflict, message, err)
	default:
		return apperrors.Internal(message, err)
	}
}

// publish delivers an event after commit. Delivery failures are logged only.
func publish(ctx context.Context, publisher events.Publisher, log *zap.Logger, event events.ReviewEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish review event",
			zap.Error(err),
			zap.String("type", string(event.Type)),
			zap.String("review_id", event.ReviewID),
		)
	}
}

func reviewEvent(t events.Type, review *entity.Review) events.ReviewEvent {
	return events.ReviewEvent{
		Type:     t,
		ReviewID: review.ID.String(),
		AuthorID: review.ID.UserID.String(),
		MovieID:  review.ID.MovieID.String(),
	}
}
