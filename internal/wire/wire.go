package wire

import (
	"net/http"

	"film-catalog/internal/adaptor"
	"film-catalog/internal/data/repository"
	"film-catalog/internal/usecase"
	"film-catalog/pkg/metrics"
	"film-catalog/pkg/middleware"
	"film-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds the services, handlers and router on top of deps.
func Wiring(deps usecase.Dependencies, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, deps.Repo, deps.Metrics, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	m *metrics.Metrics,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	wireWatch(r, handler.Watch, repo, logger)
	wireReview(r, handler.Review, repo, logger)
	wireModeration(r, handler.Moderation, repo, logger)
	wireWatchlist(r, handler.Watchlist, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	return r
}
