package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/artmarket/artwork-service/internal/adapter/httpapi"
	natsadapter "github.com/artmarket/artwork-service/internal/adapter/messaging/nats"
	"github.com/artmarket/artwork-service/internal/adapter/repository/cache"
	"github.com/artmarket/artwork-service/internal/adapter/repository/mongodb"
	"github.com/artmarket/artwork-service/internal/adapter/storage/s3"
	"github.com/artmarket/artwork-service/internal/artwork/usecase"
	"github.com/artmarket/artwork-service/internal/config"
	"github.com/artmarket/artwork-service/internal/mailer"
	"github.com/artmarket/artwork-service/internal/platform/tracer"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		tp, err := tracer.Init(ctx, cfg.OTLPEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("Tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	listingRepo := mongodb.NewListingRepository(mongoClient.Database(cfg.MongoDB))
	if err := listingRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to ensure listing indexes", zap.Error(err))
	}

	storage, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	listingCache, err := cache.NewListingCache(cfg.RedisAddress, cfg.CacheTTL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	publisher, err := natsadapter.NewPublisher(cfg.NATSURL)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	var notifier usecase.Notifier
	if cfg.SMTPEmail != "" {
		notifier = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	}

	submitUc := usecase.NewSubmitUsecase(listingRepo, storage, publisher, logger)
	queryUc := usecase.NewQueryUsecase(listingRepo, storage, listingCache, cfg.SignURLTTL, logger)
	moderationUc := usecase.NewModerationUsecase(listingRepo, listingCache, notifier, logger)

	consumer, err := natsadapter.NewModerationConsumer(cfg.NATSURL, moderationUc, logger)
	if err != nil {
		logger.Fatal("Failed to create moderation consumer", zap.Error(err))
	}
	if err := consumer.Start(); err != nil {
		logger.Fatal("Failed to subscribe to moderation results", zap.Error(err))
	}
	defer consumer.Close()

	r := chi.NewRouter()
	handler := httpapi.NewHandler(submitUc, queryUc, logger)
	httpapi.SetupRoutes(r, handler, cfg.JWTSecret, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
