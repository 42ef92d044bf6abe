package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"film-catalog/cmd"
	"film-catalog/internal/data/repository"
	"film-catalog/internal/data/repository/memory"
	"film-catalog/internal/events"
	"film-catalog/internal/usecase"
	"film-catalog/internal/wire"
	"film-catalog/pkg/cache"
	"film-catalog/pkg/database"
	"film-catalog/pkg/metrics"
	"film-catalog/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Int("auto_hide_threshold", config.Moderation.AutoHideThreshold),
	)

	deps := usecase.Dependencies{Metrics: metrics.New()}

	switch config.Database.Driver {
	case utils.DriverMemory:
		store := memory.New()
		deps.Repo = store.Repository()
		deps.Tx = store.Transactor()
		logger.Warn("Using in-memory storage; data is lost on restart")
	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		logger.Info("Database connected successfully")

		if config.Database.Migrate {
			if err := database.Migrate(ctx, db, logger); err != nil {
				logger.Fatal("Failed to migrate database", zap.Error(err))
			}
		}

		deps.Repo = repository.NewRepository(db, logger)
		deps.Tx = database.NewTransactor(db)
	}

	redisClient, err := cache.NewRedisClient(config.Redis.Addr, config.Redis.Password, config.Redis.DB)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", zap.Error(err))
		redisClient, _ = cache.NewRedisClient("", "", 0)
	}
	defer redisClient.Close()
	deps.Cache = redisClient

	if config.Kafka.Enabled() {
		deps.Publisher = events.NewKafkaPublisher(config.Kafka.Brokers, config.Kafka.Topic, logger)
		logger.Info("Publishing moderation events", zap.Strings("brokers", config.Kafka.Brokers))
	} else {
		deps.Publisher = events.NoopPublisher{}
	}
	defer deps.Publisher.Close()

	// Wire all dependencies
	app := wire.Wiring(deps, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("HTTP server failed", zap.Error(err))
	}
}
