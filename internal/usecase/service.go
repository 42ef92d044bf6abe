package usecase

import (
	"film-catalog/internal/data/repository"
	"film-catalog/internal/events"
	"film-catalog/pkg/cache"
	"film-catalog/pkg/database"
	"film-catalog/pkg/metrics"
	"film-catalog/pkg/utils"

	"go.uber.org/zap"
)

// Dependencies are the collaborators shared by every service.
type Dependencies struct {
	Repo      *repository.Repository
	Tx        database.Transactor
	Cache     cache.Client
	Publisher events.Publisher
	Metrics   *metrics.Metrics
}

type Service struct {
	Catalog    CatalogService
	Watch      WatchService
	Review     ReviewService
	Moderation ModerationService
	Watchlist  WatchlistService
}

func NewService(deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	catalog := NewCatalogService(deps.Repo, deps.Cache, config.Redis.TTL, log)

	return &Service{
		Catalog:    catalog,
		Watch:      NewWatchService(deps.Repo, deps.Tx, catalog, log),
		Review:     NewReviewService(deps, catalog, log),
		Moderation: NewModerationService(deps, config.Moderation, log),
		Watchlist:  NewWatchlistService(deps.Repo, deps.Tx, catalog, log),
	}
}
