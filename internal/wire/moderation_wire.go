package wire

import (
	"film-catalog/internal/adaptor"
	"film-catalog/internal/data/repository"
	"film-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireModeration(
	r chi.Router,
	moderationHandler *adaptor.ModerationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.With(middleware.AuthSession(repo.Session, repo.User, log)).
		Post("/api/reviews/{userId}/{movieId}/flags", moderationHandler.FlagReview)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reviews", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Get("/flagged", moderationHandler.ListHeavilyFlagged)
		r.Get("/{userId}/{movieId}/flags", moderationHandler.ListFlags)
		r.Post("/{userId}/{movieId}/hide", moderationHandler.Hide)
		r.Post("/{userId}/{movieId}/unhide", moderationHandler.Unhide)
	})
}
