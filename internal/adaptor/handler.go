package adaptor

import (
	"film-catalog/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Watch      *WatchHandler
	Review     *ReviewHandler
	Moderation *ModerationHandler
	Watchlist  *WatchlistHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Watch:      NewWatchHandler(service.Watch, log),
		Review:     NewReviewHandler(service.Review, log),
		Moderation: NewModerationHandler(service.Moderation, log),
		Watchlist:  NewWatchlistHandler(service.Watchlist, log),
	}
}
