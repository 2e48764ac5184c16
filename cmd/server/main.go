package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	post_service "blog-post-service/internal/application/service/post"
	ports "blog-post-service/internal/domain/ports/output"
	post_repository "blog-post-service/internal/domain/ports/output/post"
	"blog-post-service/internal/infrastructure/config"
	delivery_grpc "blog-post-service/internal/infrastructure/inbound/grpc"
	delivery_http "blog-post-service/internal/infrastructure/inbound/http"
	post_http "blog-post-service/internal/infrastructure/inbound/http/post"
	metrics_server "blog-post-service/internal/infrastructure/inbound/metrics"
	"blog-post-service/internal/infrastructure/logger"
	redis_cache "blog-post-service/internal/infrastructure/outbound/cache/redis"
	prometheus_metrics "blog-post-service/internal/infrastructure/outbound/metrics/prometheus"
	mongo_client "blog-post-service/internal/infrastructure/outbound/repository/mongo"
	post_repository_memory "blog-post-service/internal/infrastructure/outbound/repository/post/memory"
	post_repository_mongo "blog-post-service/internal/infrastructure/outbound/repository/post/mongo"
	post_repository_postgres "blog-post-service/internal/infrastructure/outbound/repository/post/postgres"
	"blog-post-service/internal/infrastructure/outbound/repository/postgres/migrations"
)

func main() {
	cfg := config.MustLoad()
	ctx := context.Background()
	log := logger.New(cfg.Env)

	if cfg.Env != "local" && cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	postRepo, closeStorage, err := openStorage(ctx, cfg, log, metrics)
	if err != nil {
		log.Error("Failed to open storage", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	postService := post_service.NewPostService(postRepo, log, metrics)

	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := redis_cache.NewClient(cfg.Redis, log)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()

		postCache := redis_cache.NewPostCache(redisClient, cfg.Redis.TTL, log)
		postService = post_service.NewPostServiceCacheDecorator(postService, postCache, log, metrics)
	}

	httpServer := delivery_http.NewServer(cfg.HTTPServer, post_http.NewPostAPI(postService, log), postRepo, log, metrics)
	grpcServer := delivery_grpc.NewServer(cfg.GRPCServer, postRepo, log, metrics)
	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	httpDone := make(chan bool, 1)
	grpcDone := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		httpDone <- true
	}()

	go func() {
		if err := grpcServer.Run(); err != nil {
			log.Error("gRPC server error", slog.String("error", err.Error()))
		}
		grpcDone <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := grpcServer.Shutdown(); err != nil {
		log.Error("gRPC server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-httpDone
	<-grpcDone
	<-metricsDone

	log.Info("Server exited")
}

// openStorage builds the post repository for the configured driver and returns its closer.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger, metrics ports.MetricsProvider) (post_repository.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongo_client.Connect(ctx, cfg.Mongo.URI, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error("Failed to disconnect from MongoDB", slog.String("error", err.Error()))
			}
		}
		collection := mongo_client.Collection(client, cfg.Mongo)
		return post_repository_mongo.NewPostRepository(collection, log, metrics), closeFn, nil

	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := migrations.Up(dsn, log); err != nil {
			return nil, nil, err
		}

		poolConfig, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("parse postgres pool config: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("create postgres pool: %w", err)
		}
		return post_repository_postgres.NewPostRepository(pool, log, metrics), pool.Close, nil

	case config.DriverMemory:
		log.Warn("Using in-memory storage, posts are lost on restart")
		return post_repository_memory.NewPostRepository(log), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
