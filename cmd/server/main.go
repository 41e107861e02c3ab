package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gps-monitor/internal/api/routes"
	"gps-monitor/internal/config"
	"gps-monitor/internal/dashboard"
	"gps-monitor/internal/repository"
	"gps-monitor/internal/services"
	"gps-monitor/internal/websocket"
	"gps-monitor/pkg/cache"
	"gps-monitor/pkg/database"
	"gps-monitor/pkg/logger"
	"gps-monitor/pkg/ratelimit"
	"gps-monitor/pkg/redis"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	// Display timezones must resolve on hosts without a zoneinfo database
	_ "time/tzdata"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("Server exited")
	}
}

// run wires the server and blocks until it stops. Every error is returned
// so deferred cleanup runs before the process exits.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	overrides, err := ratelimit.ParseOverrides(cfg.RateLimitOverrides)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_OVERRIDES: %w", err)
	}

	location, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load display timezone: %w", err)
	}
	locale, err := dashboard.LookupLocale(cfg.Display.Locale)
	if err != nil {
		return fmt.Errorf("failed to load display locale: %w", err)
	}

	ctx := context.Background()

	provider, closeProvider, err := openProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s data provider: %w", cfg.DataSource, err)
	}
	defer closeProvider()

	service := services.NewDashboardService(provider, dashboard.NewFormatter(location, locale))
	service.SetChangeDistance(cfg.ChangeDistanceMeters)

	// Initialize Redis client
	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient = redis.NewClient(cfg.Redis)
		defer redisClient.Close()

		healthStatus := redisClient.HealthCheck(ctx)
		if healthStatus.IsConnected {
			log.WithField("addr", healthStatus.ConnectionInfo).Info("Redis connected successfully")
		} else {
			log.WithField("error", healthStatus.Error).Warn("Redis connection failed, will retry automatically")
		}
	}

	if cfg.Cache.Enabled {
		service.SetCache(cache.NewDefaultSnapshotCache(redisClient, cfg.Cache.SnapshotTTL))
		log.WithField("ttl", cfg.Cache.SnapshotTTL).Info("Snapshot cache enabled")
	}

	hub := websocket.NewHub(cfg.AllowedOrigins)
	hub.Start()
	defer hub.Stop()
	service.SetNotifier(hub)

	var limiter ratelimit.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = newRateLimiter(ctx, cfg, redisClient, overrides)
		defer limiter.Close()
	}

	if cfg.AutoRefreshInterval > 0 {
		refresher := services.NewRefresher(service, cfg.AutoRefreshInterval)
		go refresher.Start()
		defer refresher.Stop()
	}

	router, err := routes.NewRouter(routes.Dependencies{
		Service:        service,
		Hub:            hub,
		Limiter:        limiter,
		Redis:          redisClient,
		AllowedOrigins: cfg.AllowedOrigins,
		AutoRefresh:    cfg.AutoRefreshInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	log.WithFields(log.Fields{"port": cfg.Port, "data_source": cfg.DataSource}).Info("Server starting")
	return serve(server, quit, 15*time.Second)
}

// serve runs server until a signal arrives on quit or the listener fails,
// then shuts it down gracefully. A listener failure is returned.
func serve(server *http.Server, quit <-chan os.Signal, grace time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var failure error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down server")
	case err := <-serverErr:
		log.WithError(err).Error("Server failed, shutting down")
		failure = fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	return failure
}

// openProvider connects the configured data source. The returned func
// releases it.
func openProvider(ctx context.Context, cfg *config.Config) (repository.Provider, func(), error) {
	switch cfg.DataSource {
	case config.DataSourceMongo:
		db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := database.DisconnectMongo(db.Client()); err != nil {
				log.WithError(err).Warn("Failed to disconnect MongoDB")
			}
		}
		return repository.NewMongoProvider(db), closeFn, nil

	case config.DataSourcePostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresProvider(pool), pool.Close, nil

	default:
		log.Info("Serving the built-in demo dataset")
		return repository.NewStaticProvider(nil), func() {}, nil
	}
}

func newRateLimiter(ctx context.Context, cfg *config.Config, redisClient *redis.Client, overrides []ratelimit.Override) ratelimit.RateLimiter {
	limitConfig := ratelimit.DefaultConfig()

	if cfg.RateLimitBackend == config.RateLimitBackendRedis && redisClient != nil {
		limiter := ratelimit.NewRedisRateLimiter(redisClient.GetClient(), limitConfig)
		if err := limiter.LoadCustomLimits(ctx); err != nil {
			log.WithError(err).Warn("Failed to load custom rate limits")
		}
		log.Info("Using Redis rate limiter")
		applyOverrides(ctx, limiter, overrides)
		return limiter
	}

	log.Info("Using in-memory rate limiter")
	limiter := ratelimit.NewMemoryRateLimiter(limitConfig)
	applyOverrides(ctx, limiter, overrides)
	return limiter
}

func applyOverrides(ctx context.Context, limiter ratelimit.RateLimiter, overrides []ratelimit.Override) {
	if len(overrides) == 0 {
		return
	}
	if err := ratelimit.ApplyOverrides(ctx, limiter, overrides); err != nil {
		log.WithError(err).Warn("Failed to apply rate limit overrides")
		return
	}
	log.WithField("count", len(overrides)).Info("Rate limit overrides applied")
}
