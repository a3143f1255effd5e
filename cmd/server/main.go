package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dharmasatrya/tripplanner/internal/budget"
	"github.com/dharmasatrya/tripplanner/internal/cache"
	"github.com/dharmasatrya/tripplanner/internal/catalog"
	"github.com/dharmasatrya/tripplanner/internal/config"
	"github.com/dharmasatrya/tripplanner/internal/handler"
	"github.com/dharmasatrya/tripplanner/internal/notify"
	"github.com/dharmasatrya/tripplanner/internal/orchestrator"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
	"github.com/dharmasatrya/tripplanner/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	snapshot, err := catalog.LoadEmbedded()
	if err != nil {
		logger.Error("failed to load catalog snapshot", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog snapshot loaded", "version", snapshot.Version(), "currency", snapshot.Currency())

	var resultCache cache.Cache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
			Prefix:   cache.DefaultRedisConfig().Prefix,
		})
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		resultCache = redisCache
		logger.Info("catalog cache enabled", "host", cfg.Redis.Host, "port", cfg.Redis.Port, "ttl", cfg.Redis.TTL)
	} else {
		logger.Info("catalog cache disabled")
	}

	allocator, err := budget.NewAllocator(budget.DefaultPolicy().Merge(cfg.Budget.Policies), snapshot.Currency())
	if err != nil {
		logger.Error("invalid budget policy", "error", err)
		os.Exit(1)
	}

	limiter, err := ratelimit.NewCatalogLimiterFromConfig(cfg.RateLimit.Default, cfg.RateLimit.Categories)
	if err != nil {
		logger.Error("invalid rate limits", "error", err)
		os.Exit(1)
	}

	planner := orchestrator.New(
		catalog.NewSnapshotAdapters(snapshot, resultCache),
		allocator,
		plannerConfig(cfg, limiter),
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(orchestrator.NewMetrics(reg)),
	)

	itineraries, closeStore, err := openStore(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to open itinerary store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	publisher := openPublisher(cfg.Kafka, logger)
	defer publisher.Close()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout

	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	itineraryHandler := handler.NewItineraryHandler(planner, snapshot, itineraries, publisher, logger)
	itineraryHandler.Register(e.Group("/api/v1"))
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	go func() {
		logger.Info("server starting", "port", cfg.HTTP.Port)
		if err := e.Start(":" + cfg.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func plannerConfig(cfg *config.Config, limiter *ratelimit.CatalogLimiter) orchestrator.Config {
	return orchestrator.Config{
		CatalogTimeout:    cfg.Planner.CatalogTimeout,
		MaxRetries:        cfg.Planner.MaxRetries,
		RetryDelays:       cfg.Planner.RetryDelays,
		RateLimiter:       limiter,
		DefaultOrigin:     cfg.Planner.DefaultOrigin,
		ReferenceAttempts: cfg.Planner.ReferenceAttempts,
	}
}

// openStore uses Postgres when a database URL is configured and an
// in-memory store otherwise. Migrations run before the pool is handed out.
func openStore(ctx context.Context, cfg config.Postgres, logger *slog.Logger) (store.Store, func(), error) {
	if !cfg.Enabled() {
		logger.Warn("no database configured; itineraries are kept in memory")
		return store.NewMemoryStore(), func() {}, nil
	}

	sqlDB, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	err = store.Migrate(ctx, sqlDB)
	sqlDB.Close()
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("database connection established")

	return store.NewPostgresStore(pool), pool.Close, nil
}

func openPublisher(cfg config.Kafka, logger *slog.Logger) notify.Publisher {
	if !cfg.Enabled() {
		logger.Info("confirmation hand-off disabled")
		return notify.NewNoOpPublisher()
	}
	logger.Info("confirmation hand-off enabled", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return notify.NewKafkaPublisher(notify.KafkaConfig{Brokers: cfg.Brokers, Topic: cfg.Topic})
}
