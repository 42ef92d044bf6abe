package adaptor

import (
	"net/http"

	"film-catalog/internal/dto/response"
	"film-catalog/internal/usecase"
	"film-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WatchHandler struct {
	service usecase.WatchService
	log     *zap.Logger
}

func NewWatchHandler(service usecase.WatchService, log *zap.Logger) *WatchHandler {
	return &WatchHandler{
		service: service,
		log:     log.With(zap.String("handler", "watch")),
	}
}

// MarkWatched handles POST /api/movies/{movieId}/watched
func (h *WatchHandler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	record, err := h.service.MarkWatched(r.Context(), userID, chi.URLParam(r, "movieId"))
	if err != nil {
		writeError(w, h.log, err, "mark watched")
		return
	}

	utils.ResponseCreated(w, "Movie marked as watched", record)
}

// HasWatched handles GET /api/movies/{movieId}/watched
func (h *WatchHandler) HasWatched(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	movieID := chi.URLParam(r, "movieId")
	watched, err := h.service.HasWatched(r.Context(), userID, movieID)
	if err != nil {
		writeError(w, h.log, err, "has watched")
		return
	}

	utils.ResponseSuccess(w, "success", response.WatchedStatusResponse{MovieID: movieID, Watched: watched})
}

// UnmarkWatched handles DELETE /api/movies/{movieId}/watched
func (h *WatchHandler) UnmarkWatched(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.UnmarkWatched(r.Context(), userID, chi.URLParam(r, "movieId")); err != nil {
		writeError(w, h.log, err, "unmark watched")
		return
	}

	utils.ResponseSuccess(w, "Movie unmarked as watched", nil)
}

// ListWatched handles GET /api/user/watched
func (h *WatchHandler) ListWatched(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	records, err := h.service.ListWatched(r.Context(), userID, pageParams(r))
	if err != nil {
		writeError(w, h.log, err, "list watched")
		return
	}

	utils.ResponseSuccess(w, "success", records)
}
