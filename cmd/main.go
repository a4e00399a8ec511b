package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aDp08/web-gallery-backend/internal/api"
	"github.com/aDp08/web-gallery-backend/internal/config"
	"github.com/aDp08/web-gallery-backend/internal/events"
	"github.com/aDp08/web-gallery-backend/internal/handlers"
	"github.com/aDp08/web-gallery-backend/internal/metrics"
	"github.com/aDp08/web-gallery-backend/internal/middleware"
	"github.com/aDp08/web-gallery-backend/internal/repository"
	service "github.com/aDp08/web-gallery-backend/internal/services"
	"github.com/aDp08/web-gallery-backend/internal/storage"
	utils "github.com/aDp08/web-gallery-backend/internal/utis"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// load config
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	// logger
	logger, err := utils.NewLogger(cfg.Development(), cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	// Mongo
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatalf("mongo connect: %v", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		logger.Fatalf("mongo ping: %v", err)
	}
	logger.Info("database connection established")
	col := mc.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	repo := repository.NewImageRepo(col)

	// media host
	host, err := newHost(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalf("media host init: %v", err)
	}

	// lifecycle events
	var pub events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Infow("publishing image events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	// rate limiting
	var limiter *middleware.RateLimiter
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		limiter = middleware.NewRateLimiter(rdb, logger, "gallery:ratelimit", cfg.Redis.RateLimit, cfg.RateWindow)
	}

	// service
	isvc := service.NewImageService(repo, host, pub, logger, cfg.Media.MaxPayloadBytes)

	// fiber app & routes
	m := metrics.New()
	app, err := api.NewServer(handlers.NewHandler(isvc, logger, m), api.Options{
		BodyLimit:   cfg.BodyLimit(),
		StaticDir:   cfg.App.StaticDir,
		RequestLog:  cfg.App.RequestLog,
		Metrics:     m,
		RateLimiter: limiter,
	})
	if err != nil {
		logger.Fatalf("server init: %v", err)
	}

	// start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infof("server running on %s (media provider %s)", addr, cfg.Media.Provider)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("listen failed: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown requested")
	timeoutCtx, cancel2 := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel2()

	if err := app.ShutdownWithContext(timeoutCtx); err != nil {
		logger.Warnw("http shutdown", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Warnw("event publisher close", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = mc.Disconnect(timeoutCtx)
	logger.Info("shutdown completed")
}

func newHost(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (storage.Host, error) {
	switch cfg.Media.Provider {
	case config.ProviderS3:
		client, err := storage.NewS3Client(ctx, cfg.AWS.Region, cfg.AWS.Endpoint)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Host(client, storage.S3Options{
			Bucket:        cfg.AWS.Bucket,
			Region:        cfg.AWS.Region,
			Folder:        cfg.Media.Folder,
			PublicBaseURL: cfg.S3.PublicBaseURL,
			Thumbnails:    cfg.S3.Thumbnails,
		}), nil
	default:
		return storage.NewCloudinaryHost(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Media.Folder, log)
	}
}
