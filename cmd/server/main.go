package main

import (
	"log"
	"strings"

	"anoa.com/kulupportal/internal/bootstrap"
	"anoa.com/kulupportal/internal/config"
	"anoa.com/kulupportal/internal/server"
	"anoa.com/kulupportal/pkg/cache"
	"anoa.com/kulupportal/pkg/database"
	"anoa.com/kulupportal/pkg/logger"
	"anoa.com/kulupportal/pkg/metrics"
	"anoa.com/kulupportal/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	lg := logger.GetLogger()

	db, err := database.Connect(cfg.DSN(), !cfg.IsProduction())
	if err != nil {
		lg.Fatal("database connection failed", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		lg.Fatal("migration failed", zap.Error(err))
	}

	if cfg.AppEnv == "development" && cfg.FounderEmail != "" {
		if err := bootstrap.SeedFounder(db, cfg.FounderEmail, cfg.SeedFounderPassword); err != nil {
			lg.Fatal("failed to seed founder", zap.Error(err))
		}
	}

	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		lg.Warn("redis unavailable, running without cache and events", zap.Error(err))
		redisClient = nil
	}

	var meiliClient meilisearch.ServiceManager
	if host := cfg.MeiliSearchHost; host != "" {
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
	if err != nil {
		lg.Warn("image storage disabled", zap.Error(err))
		imageStorage = nil
	}

	srv := server.NewServer(cfg, server.Deps{
		DB:      db,
		Redis:   redisClient,
		Meili:   meiliClient,
		Storage: imageStorage,
		Metrics: metrics.NewRegistry(),
	})

	lg.Info("server starting", zap.String("port", cfg.Port))
	if err := srv.Run(":" + cfg.Port); err != nil {
		lg.Fatal("server exited with error", zap.Error(err))
	}
}
