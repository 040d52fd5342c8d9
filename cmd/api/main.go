package main

import (
	"context"
	"time"

	"ihub-asset-api-server/config"
	"ihub-asset-api-server/internal/api/routes"
	"ihub-asset-api-server/internal/database"
	"ihub-asset-api-server/internal/logger"
	"ihub-asset-api-server/internal/s3"
	"ihub-asset-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.New())
	defer func() { _ = log.Sync() }()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("failed to ensure indexes", zap.Error(err))
	}

	if err := database.SeedAdmin(ctx, db, cfg, log.Named("seeder")); err != nil {
		log.Fatal("failed to seed admin user", zap.Error(err))
	}

	s3Uploader, err := s3.NewUploader(cfg.S3)
	if err != nil {
		log.Fatal("failed to initialize S3 uploader", zap.Error(err))
	}

	wsHub := socket.NewHub(log.Named("socket.hub"))

	router := routes.SetupRouter(cfg, db, s3Uploader, wsHub, log)

	log.Info("starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("failed to run server", zap.Error(err))
	}
}
