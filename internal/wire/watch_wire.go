package wire

import (
	"film-catalog/internal/adaptor"
	"film-catalog/internal/data/repository"
	"film-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWatch(
	r chi.Router,
	watchHandler *adaptor.WatchHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/api/movies/{movieId}/watched", watchHandler.MarkWatched)
		r.Get("/api/movies/{movieId}/watched", watchHandler.HasWatched)
		r.Delete("/api/movies/{movieId}/watched", watchHandler.UnmarkWatched)

		// GET /api/user/watched - the caller's watch history
		r.Get("/api/user/watched", watchHandler.ListWatched)
	})
}
