package adaptor

import (
	"net/http"

	"film-catalog/internal/dto/request"
	"film-catalog/internal/usecase"
	"film-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/movies/{movieId}/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.CreateReview(r.Context(), caller, chi.URLParam(r, "movieId"), &req)
	if err != nil {
		writeError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created", review)
}

// GetReview handles GET /api/reviews/{userId}/{movieId} (public)
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r)

	review, err := h.service.GetReview(r.Context(), caller, reviewIDParam(r))
	if err != nil {
		writeError(w, h.log, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// UpdateReview handles PUT /api/reviews/{userId}/{movieId} (owner only)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), caller, reviewIDParam(r), &req)
	if err != nil {
		writeError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated", review)
}

// DeleteReview handles DELETE /api/reviews/{userId}/{movieId} (owner or admin)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteReview(r.Context(), caller, reviewIDParam(r)); err != nil {
		writeError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted", nil)
}

// LikeReview handles POST /api/reviews/{userId}/{movieId}/like
func (h *ReviewHandler) LikeReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	review, err := h.service.LikeReview(r.Context(), caller, reviewIDParam(r))
	if err != nil {
		writeError(w, h.log, err, "like review")
		return
	}

	utils.ResponseSuccess(w, "Review liked", review)
}

// GetMovieReviews handles GET /api/movies/{movieId}/reviews (public)
func (h *ReviewHandler) GetMovieReviews(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r)

	reviews, err := h.service.GetMovieReviews(r.Context(), caller, chi.URLParam(r, "movieId"), pageParams(r))
	if err != nil {
		writeError(w, h.log, err, "get movie reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetUserReviews handles GET /api/users/{userId}/reviews (public)
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r)

	reviews, err := h.service.GetUserReviews(r.Context(), caller, chi.URLParam(r, "userId"), pageParams(r))
	if err != nil {
		writeError(w, h.log, err, "get user reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetUserReviewStats handles GET /api/users/{userId}/review-stats (public)
func (h *ReviewHandler) GetUserReviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetUserReviewStats(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, h.log, err, "get user review stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
