package adaptor

import (
	"net/http"

	"film-catalog/internal/dto/request"
	"film-catalog/internal/usecase"
	"film-catalog/pkg/utils"

	"go.uber.org/zap"
)

type ModerationHandler struct {
	service usecase.ModerationService
	log     *zap.Logger
}

func NewModerationHandler(service usecase.ModerationService, log *zap.Logger) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		log:     log.With(zap.String("handler", "moderation")),
	}
}

// FlagReview handles POST /api/reviews/{userId}/{movieId}/flags
func (h *ModerationHandler) FlagReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.FlagReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	flag, err := h.service.FlagReview(r.Context(), caller.UserID, reviewIDParam(r), &req)
	if err != nil {
		writeError(w, h.log, err, "flag review")
		return
	}

	utils.ResponseCreated(w, "Review flagged", flag)
}

// Hide handles POST /api/admin/reviews/{userId}/{movieId}/hide
func (h *ModerationHandler) Hide(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r)

	review, err := h.service.Hide(r.Context(), caller, reviewIDParam(r))
	if err != nil {
		writeError(w, h.log, err, "hide review")
		return
	}

	utils.ResponseSuccess(w, "Review hidden", review)
}

// Unhide handles POST /api/admin/reviews/{userId}/{movieId}/unhide
func (h *ModerationHandler) Unhide(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r)

	review, err := h.service.Unhide(r.Context(), caller, reviewIDParam(r))
	if err != nil {
		writeError(w, h.log, err, "unhide review")
		return
	}

	utils.ResponseSuccess(w, "Review visible", review)
}

// ListHeavilyFlagged handles GET /api/admin/reviews/flagged?min_flags=
func (h *ModerationHandler) ListHeavilyFlagged(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r)
	minFlags, err := utils.QueryIntStrict(r.URL.Query(), "min_flags", 1)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	reviews, err := h.service.ListHeavilyFlagged(r.Context(), caller, minFlags, pageParams(r))
	if err != nil {
		writeError(w, h.log, err, "list flagged reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// ListFlags handles GET /api/admin/reviews/{userId}/{movieId}/flags
func (h *ModerationHandler) ListFlags(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r)

	flags, err := h.service.ListFlags(r.Context(), caller, reviewIDParam(r), pageParams(r))
	if err != nil {
		writeError(w, h.log, err, "list review flags")
		return
	}

	utils.ResponseSuccess(w, "success", flags)
}
