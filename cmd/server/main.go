package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/internal/infrastructure/config"
	"flightwatch-service/internal/infrastructure/oauth"
	"flightwatch-service/internal/infrastructure/persistence"
	"flightwatch-service/internal/infrastructure/router"
	"flightwatch-service/internal/interface/cache"
	"flightwatch-service/internal/interface/events"
	"flightwatch-service/internal/interface/handler"
	repo "flightwatch-service/internal/interface/repository"
	"flightwatch-service/internal/usecase"
	"flightwatch-service/pkg/flightstatus"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"
	"flightwatch-service/pkg/timeutil"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Flightwatch Service", "version", cfg.AppVersion)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics("flightwatch", prometheus.DefaultRegisterer)

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, persistence.MongoOptions{
		URI:      cfg.MongoURI,
		Username: cfg.MongoUser,
		Password: cfg.MongoPassword,
		AppName:  "flightwatch-service",
	})
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	subscriptionRepository := repo.NewMongoSubscriptionRepository(db)
	txLogRepository := repo.NewMongoTransactionLogRepository(db)

	// Reference data is optional: without it carrier codes and the default
	// timezone are shown.
	var airlineRepository repository.AirlineRepository
	var timezoneRepository repository.TimezoneRepository
	if cfg.PostgresDSN != "" {
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		if err := repo.MigrateReferenceData(gormDB); err != nil {
			log.Fatal("Failed to migrate reference data", "error", err)
		}
		airlineRepository = repo.NewGormAirlineRepository(gormDB)
		timezoneRepository = repo.NewGormTimezoneRepository(gormDB)
	} else {
		log.Warn("POSTGRES_DSN not set, airline and timezone lookups disabled")
	}

	// Search cache
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("Redis unavailable, search cache disabled", "error", err)
			redisClient = nil
		}
	}
	flightCache := cache.NewFlightCache(redisClient, log)

	// Backend flight service
	backendOAuth := oauth.NewBackendOAuth(
		cfg.BackendClientID,
		cfg.BackendClientSecret,
		cfg.BackendTokenURL,
		cfg.BackendScopes,
		log,
	)
	flightService := repo.NewHTTPFlightService(cfg.BackendBaseURL, backendOAuth.HTTPClient(ctx, cfg.BackendTimeout), log)

	oracle := repo.NewOracleContract(cfg.OracleEnabled, cfg.OracleURL, cfg.OracleAPIKey, log)
	publisher := events.NewEventPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue, log)

	// Use cases
	classifier := flightstatus.NewClassifier(log, flightstatus.WithUnknownHook(m.UnknownPhaseCode))
	views := usecase.NewFlightViewBuilder(classifier, airlineRepository, timezoneRepository, cfg.DefaultTimezone, time.Now, log)
	queries := usecase.NewFlightQueryService(flightService, subscriptionRepository, flightCache, cfg.CacheTTL, m, log)
	subscriptions := usecase.NewSubscriptionService(flightService, oracle, subscriptionRepository, txLogRepository, publisher, m, log)

	sessions := usecase.NewSessionStore(
		usecase.ControllerDeps{
			Source:       queries,
			Subscriber:   subscriptions,
			Unsubscriber: subscriptions,
			Logger:       log,
			Metrics:      m,
		},
		usecase.ControllerOptions{
			PageSize:             cfg.DefaultPageSize,
			CloseDialogOnFailure: cfg.CloseDialogOnFailure,
		},
		cfg.SessionTTL,
		log,
	)
	go sessions.Run(ctx, time.Minute)

	// Set up HTTP server
	timeFormat := timeutil.ParseFormat(cfg.TimeFormat)
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	router.RegisterRoutes(e, router.Handlers{
		Sessions: handler.NewSessionHandler(sessions, views, timeFormat, log),
		Flights:  handler.NewFlightHandler(queries, subscriptions, views, timeFormat, log),
	}, cfg.JWTSecret, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if closer, ok := publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Error("RabbitMQ close error", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", "error", err)
		}
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Flightwatch Service stopped")
}
