package adaptor

import (
	"net/http"

	"film-catalog/internal/dto/request"
	"film-catalog/internal/usecase"
	"film-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WatchlistHandler struct {
	service usecase.WatchlistService
	log     *zap.Logger
}

func NewWatchlistHandler(service usecase.WatchlistService, log *zap.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service: service,
		log:     log.With(zap.String("handler", "watchlist")),
	}
}

// CreateWatchlist handles POST /api/watchlists
func (h *WatchlistHandler) CreateWatchlist(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateWatchlistRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	watchlist, err := h.service.CreateWatchlist(r.Context(), caller, &req)
	if err != nil {
		writeError(w, h.log, err, "create watchlist")
		return
	}

	utils.ResponseCreated(w, "Watchlist created", watchlist)
}

// ListMyWatchlists handles GET /api/watchlists
func (h *WatchlistHandler) ListMyWatchlists(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	watchlists, err := h.service.ListUserWatchlists(r.Context(), caller.UserID.String(), pageParams(r))
	if err != nil {
		writeError(w, h.log, err, "list watchlists")
		return
	}

	utils.ResponseSuccess(w, "success", watchlists)
}

// GetWatchlist handles GET /api/watchlists/{id}
func (h *WatchlistHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	watchlist, err := h.service.GetWatchlist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err, "get watchlist")
		return
	}

	utils.ResponseSuccess(w, "success", watchlist)
}

// UpdateWatchlist handles PUT /api/watchlists/{id}
func (h *WatchlistHandler) UpdateWatchlist(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateWatchlistRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	watchlist, err := h.service.UpdateWatchlist(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeError(w, h.log, err, "update watchlist")
		return
	}

	utils.ResponseSuccess(w, "Watchlist updated", watchlist)
}

// DeleteWatchlist handles DELETE /api/watchlists/{id}
func (h *WatchlistHandler) DeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteWatchlist(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err, "delete watchlist")
		return
	}

	utils.ResponseSuccess(w, "Watchlist deleted", nil)
}

// AddMovie handles POST /api/watchlists/{id}/movies
func (h *WatchlistHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.WatchlistMovieRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	entry, err := h.service.AddMovie(r.Context(), caller, chi.URLParam(r, "id"), req.MovieID)
	if err != nil {
		writeError(w, h.log, err, "add movie to watchlist")
		return
	}

	utils.ResponseSuccess(w, "Movie added to watchlist", entry)
}

// RemoveMovie handles DELETE /api/watchlists/{id}/movies/{movieId}
func (h *WatchlistHandler) RemoveMovie(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.RemoveMovie(r.Context(), caller, chi.URLParam(r, "id"), chi.URLParam(r, "movieId")); err != nil {
		writeError(w, h.log, err, "remove movie from watchlist")
		return
	}

	utils.ResponseSuccess(w, "Movie removed from watchlist", nil)
}

// RemoveAll handles DELETE /api/watchlists/{id}/movies
func (h *WatchlistHandler) RemoveAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	cleared, err := h.service.RemoveAll(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err, "clear watchlist")
		return
	}

	utils.ResponseSuccess(w, "Watchlist cleared", cleared)
}

// MarkWatched handles POST /api/watchlists/{id}/movies/{movieId}/watched
func (h *WatchlistHandler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	entry, err := h.service.MarkWatched(r.Context(), caller, chi.URLParam(r, "id"), chi.URLParam(r, "movieId"))
	if err != nil {
		writeError(w, h.log, err, "mark watchlist entry watched")
		return
	}

	utils.ResponseSuccess(w, "Movie marked as watched in watchlist", entry)
}

// ContainsMovie handles GET /api/watchlists/{id}/movies/{movieId}
func (h *WatchlistHandler) ContainsMovie(w http.ResponseWriter, r *http.Request) {
	contains, err := h.service.ContainsMovie(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "movieId"))
	if err != nil {
		writeError(w, h.log, err, "watchlist contains movie")
		return
	}

	utils.ResponseSuccess(w, "success", contains)
}

// ListUserWatchlists handles GET /api/users/{userId}/watchlists
func (h *WatchlistHandler) ListUserWatchlists(w http.ResponseWriter, r *http.Request) {
	watchlists, err := h.service.ListUserWatchlists(r.Context(), chi.URLParam(r, "userId"), pageParams(r))
	if err != nil {
		writeError(w, h.log, err, "list user watchlists")
		return
	}

	utils.ResponseSuccess(w, "success", watchlists)
}
