package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/finrestructure/consolidation-service/internal/application/usecase"
	"github.com/finrestructure/consolidation-service/internal/domain/port"
	"github.com/finrestructure/consolidation-service/internal/domain/service"
	"github.com/finrestructure/consolidation-service/internal/infrastructure/cache"
	"github.com/finrestructure/consolidation-service/internal/infrastructure/config"
	"github.com/finrestructure/consolidation-service/internal/infrastructure/messaging"
	"github.com/finrestructure/consolidation-service/internal/infrastructure/persistence/flatfile"
	pgRepo "github.com/finrestructure/consolidation-service/internal/infrastructure/persistence/postgres"
	"github.com/finrestructure/consolidation-service/internal/presentation/rest"
	pkgkafka "github.com/finrestructure/consolidation-service/pkg/kafka"
	"github.com/finrestructure/consolidation-service/pkg/observability"
	pkgpostgres "github.com/finrestructure/consolidation-service/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting consolidation-service",
		"http_port", cfg.HTTPPort,
		"data_backend", cfg.DataBackend,
	)

	metrics := observability.NewMetrics(cfg.ServiceName)

	// Wire the data backend.
	var (
		profileRepo port.ProfileRepository
		offerRepo   port.OfferRepository
		readiness   []rest.ReadinessCheck
	)
	switch cfg.DataBackend {
	case config.BackendPostgres:
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := pkgpostgres.NewPool(dbCtx, pkgpostgres.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
		})
		dbCancel()
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("connected to database")

		dsn := pkgpostgres.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
		}.DSN()
		if err := pkgpostgres.RunMigrations(dsn, "file://internal/infrastructure/persistence/postgres/migrations"); err != nil {
			logger.Warn("migration warning", "error", err)
		}

		profileRepo = pgRepo.NewProfileRepo(pool)
		offerRepo = pgRepo.NewOfferRepo(pool)
		readiness = append(readiness, func(ctx context.Context) error {
			return pkgpostgres.HealthCheck(ctx, pool)
		})
	default:
		repo, err := flatfile.NewRepository(cfg.DataDir)
		if err != nil {
			logger.Error("failed to load flat-file dataset", "error", err, "data_dir", cfg.DataDir)
			os.Exit(1)
		}
		profileRepo = repo
		offerRepo = repo
	}

	// Evaluation cache: Redis when configured, in-process otherwise.
	var evalCache port.EvaluationCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		defer redisCache.Close()
		evalCache = redisCache
		readiness = append(readiness, redisCache.Ping)
		logger.Info("using redis evaluation cache", "addr", cfg.Redis.Addr)
	} else {
		evalCache = cache.NewMemoryCache(cfg.Redis.TTL)
	}

	// Event publishing is optional; skipped when no brokers are configured.
	var publisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.Kafka.Brokers})
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger)
		logger.Info("publishing events to kafka", "topic", cfg.Kafka.Topic)
	}

	// Load and validate the offer catalog up front.
	offers, err := offerRepo.Offers(ctx)
	if err != nil {
		logger.Error("failed to load offer catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("offer catalog loaded", "offers", len(offers))

	engine := service.NewEligibilityEngine(offers)
	composer := service.NewScenarioComposer()

	evaluateUC := usecase.NewEvaluateCustomerUseCase(
		profileRepo, engine, composer, evalCache, publisher, metrics, logger,
	)
	listOffersUC := usecase.NewListOffersUseCase(offerRepo)

	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	rest.NewHealthHandler(cfg.ServiceName, readiness...).RegisterRoutes(router)

	api := router.NewRoute().Subrouter()
	api.Use(rest.LoggingMiddleware(logger, metrics))
	api.Use(rest.APIKeyMiddleware(cfg.APIKey))
	rest.NewHandler(evaluateUC, listOffersUC, logger).RegisterRoutes(api)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("consolidation-service stopped")
}
