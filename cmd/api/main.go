// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/soundvault/internal/admin"
	"github.com/carterperez-dev/soundvault/internal/auth"
	"github.com/carterperez-dev/soundvault/internal/collection"
	"github.com/carterperez-dev/soundvault/internal/config"
	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/core/migrations"
	"github.com/carterperez-dev/soundvault/internal/download"
	"github.com/carterperez-dev/soundvault/internal/entitlement"
	"github.com/carterperez-dev/soundvault/internal/favorite"
	"github.com/carterperez-dev/soundvault/internal/health"
	"github.com/carterperez-dev/soundvault/internal/middleware"
	"github.com/carterperez-dev/soundvault/internal/notification"
	"github.com/carterperez-dev/soundvault/internal/server"
	"github.com/carterperez-dev/soundvault/internal/sound"
	"github.com/carterperez-dev/soundvault/internal/storage"
	"github.com/carterperez-dev/soundvault/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.ApplyMigrations(ctx, db.DB, migrations.FS); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	store, localStore, err := setupStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("blob store ready", "driver", cfg.Storage.Driver)

	hasher, err := core.NewPasswordHasher(cfg.Security)
	if err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	policy := entitlement.Policy{
		FreeDailyLimit:       cfg.Quota.FreeDailyLimit,
		SubscribedDailyLimit: cfg.Quota.SubscribedDailyLimit,
		Location:             cfg.Quota.Location(),
	}
	logger.Info("download quota policy",
		"free", policy.FreeDailyLimit,
		"subscribed", policy.SubscribedDailyLimit,
		"timezone", policy.Location.String(),
	)

	userSvc := user.NewService(user.NewRepository(db.DB), policy)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(
		auth.NewRepository(redis.Client),
		jwtManager,
		userSvc,
		hasher,
	)
	authHandler := auth.NewHandler(authSvc)

	soundSvc := sound.NewService(sound.NewRepository(db.DB), store, cfg.Storage)
	soundHandler := sound.NewHandler(soundSvc, cfg.Storage.MaxUploadSize)

	downloadSvc := download.NewService(
		download.NewRepository(db.DB),
		soundSvc,
		store,
		policy,
	)
	downloadHandler := download.NewHandler(downloadSvc)

	collectionSvc := collection.NewService(
		collection.NewRepository(db.DB),
		soundSvc,
	)
	collectionHandler := collection.NewHandler(collectionSvc)

	favoriteHandler := favorite.NewHandler(
		favorite.NewService(db.DB, core.Transactor(db.DB)),
	)

	notificationHandler := notification.NewHandler(
		notification.NewService(notification.NewRepository(db.DB)),
	)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
		health.Dependency{Name: "storage", Checker: store},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:     db.Stats,
		RedisStats:  redis.PoolStats,
		DBPing:      db.Ping,
		RedisPing:   redis.Ping,
		StoragePing: store.Ping,
		Users:       userSvc,
		Sounds:      soundSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)

	credentialLimit := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.AuthRequests,
				cfg.RateLimit.AuthBurst,
			),
			KeyFunc: middleware.KeyByIPAndEndpoint,
		},
	).Handler

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	if localStore != nil && strings.HasPrefix(localStore.PublicBase(), "/") {
		router.Handle(localStore.PublicBase()+"/*", localStore.FileServer())
	}

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, credentialLimit)
		userHandler.RegisterRoutes(r, authenticator)

		soundHandler.RegisterRoutes(r)
		downloadHandler.RegisterRoutes(r, authenticator)
		collectionHandler.RegisterRoutes(r, authenticator)
		favoriteHandler.RegisterRoutes(r, authenticator)
		notificationHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		soundHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		notificationHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// setupStorage returns the configured blob store. The second value is
// non-nil only for the local driver, whose files this process serves.
func setupStorage(
	ctx context.Context,
	cfg config.StorageConfig,
) (storage.Store, *storage.LocalStore, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		s3Store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return s3Store, nil, nil
	case config.StorageDriverLocal:
		localStore, err := storage.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return localStore, localStore, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
