package wire

import (
	"film-catalog/internal/adaptor"
	"film-catalog/internal/data/repository"
	"film-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// A token is optional here; authors and admins still see hidden reviews.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(repo.Session, repo.User, log))

		r.Get("/api/movies/{movieId}/reviews", reviewHandler.GetMovieReviews)
		r.Get("/api/users/{userId}/reviews", reviewHandler.GetUserReviews)
		r.Get("/api/users/{userId}/review-stats", reviewHandler.GetUserReviewStats)
		r.Get("/api/reviews/{userId}/{movieId}", reviewHandler.GetReview)
	})

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/api/movies/{movieId}/reviews", reviewHandler.CreateReview)
		r.Put("/api/reviews/{userId}/{movieId}", reviewHandler.UpdateReview)    // owner only
		r.Delete("/api/reviews/{userId}/{movieId}", reviewHandler.DeleteReview) // owner or admin
		r.Post("/api/reviews/{userId}/{movieId}/like", reviewHandler.LikeReview)
	})
}
