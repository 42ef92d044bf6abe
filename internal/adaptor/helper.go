package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"film-catalog/internal/dto/request"
	"film-catalog/internal/usecase"
	"film-catalog/pkg/apperrors"
	"film-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// writeError maps an error kind to its HTTP status.
func writeError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var appErr *apperrors.AppError
	message := "Internal server error"
	if errors.As(err, &appErr) {
		message = appErr.Message()
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		utils.ResponseNotFound(w, message)
	case apperrors.KindConflict:
		utils.ResponseConflict(w, message)
	case apperrors.KindPreconditionFailed, apperrors.KindInvalidState:
		utils.ResponseUnprocessable(w, message)
	case apperrors.KindForbidden:
		utils.ResponseForbidden(w, message)
	case apperrors.KindValidation:
		utils.ResponseBadRequest(w, message, appErr.Fields())
	default:
		log.Error("Request failed",
			zap.Error(err),
			zap.String("operation", operation),
		)
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// callerFrom returns the identity set by the auth middleware. Anonymous
// requests get a zero Caller.
func callerFrom(r *http.Request) (usecase.Caller, bool) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		return usecase.Caller{}, false
	}
	return usecase.Caller{UserID: identity.UserID, Role: identity.Role}, true
}

// reviewIDParam joins the {userId}/{movieId} path segments into a review key.
func reviewIDParam(r *http.Request) string {
	return chi.URLParam(r, "userId") + ":" + chi.URLParam(r, "movieId")
}

func pageParams(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.QueryInt(query, "page", 1),
		PerPage: utils.QueryInt(query, "per_page", 10),
		Sort:    query.Get("sort"),
		Order:   query.Get("order"),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
