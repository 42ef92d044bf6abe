package wire

import (
	"film-catalog/internal/adaptor"
	"film-catalog/internal/data/repository"
	"film-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWatchlist(
	r chi.Router,
	watchlistHandler *adaptor.WatchlistHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Get("/api/users/{userId}/watchlists", watchlistHandler.ListUserWatchlists)

	r.Route("/api/watchlists", func(r chi.Router) {
		// Reads are open to everyone.
		r.Get("/{id}", watchlistHandler.GetWatchlist)
		r.Get("/{id}/movies/{movieId}", watchlistHandler.ContainsMovie)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthSession(repo.Session, repo.User, log))

			r.Get("/", watchlistHandler.ListMyWatchlists)
			r.Post("/", watchlistHandler.CreateWatchlist)
			r.Put("/{id}", watchlistHandler.UpdateWatchlist)
			r.Delete("/{id}", watchlistHandler.DeleteWatchlist)

			r.Post("/{id}/movies", watchlistHandler.AddMovie)
			r.Delete("/{id}/movies", watchlistHandler.RemoveAll)
			r.Delete("/{id}/movies/{movieId}", watchlistHandler.RemoveMovie)
			r.Post("/{id}/movies/{movieId}/watched", watchlistHandler.MarkWatched)
		})
	})
}
