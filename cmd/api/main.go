// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Scolaria HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire the session stack and domain handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/scolaria/internal/api"
	"github.com/taibuivan/scolaria/internal/core/etablissement"
	"github.com/taibuivan/scolaria/internal/platform/config"
	"github.com/taibuivan/scolaria/internal/platform/constants"
	"github.com/taibuivan/scolaria/internal/platform/migration"
	pgstore "github.com/taibuivan/scolaria/internal/platform/postgres"
	redisstore "github.com/taibuivan/scolaria/internal/platform/redis"
	"github.com/taibuivan/scolaria/internal/platform/sec"
	"github.com/taibuivan/scolaria/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("root_domain", cfg.RootDomain),
		slog.Bool("login_throttle", cfg.LoginThrottleEnabled),
		slog.Bool("trust_proxy_headers", cfg.TrustProxyHeaders),
	)

	// A misconfigured dependency should fail startup quickly rather than hang.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives as long as the process; stops background goroutines on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Session Stack ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	cookies := auth.NewCookieScoper(cfg.RootDomain, cfg.BaseURL, cfg.IsProduction(), log).
		WithTrustedProxy(cfg.TrustProxyHeaders)
	codec := auth.NewCodec(tokens, cookies, cfg.SessionMaxAge, cfg.SessionUpdateAge)
	csrf := sec.NewCSRFSigner(cfg.SessionSecret)

	// ── 7. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(log,
		api.DependencyCheck{Name: "postgres", Check: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}},
		api.DependencyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}},
	)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, loginThrottle(cfg, rdb))
	guard := auth.NewGuard(userRepository)

	authHandler := auth.NewHandler(authService, codec, cookies, csrf, auth.HandlerConfig{
		SignInPath: cfg.SignInPath,
		ErrorPath:  cfg.ErrorPath,
		BaseURL:    cfg.BaseURL,
		RootDomain: cfg.RootDomain,
	})

	etablissementService := etablissement.NewService(etablissement.NewPostgresRepository(pool), log)
	etablissementHandler := etablissement.NewHandler(etablissementService, guard)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, codec, api.Handlers{
		Liveness:      liveness,
		Readiness:     readiness,
		Auth:          authHandler,
		Etablissement: etablissementHandler,
	})

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// loginThrottle returns the Redis throttle, or nil when it is disabled.
func loginThrottle(cfg *config.Config, client *goredis.Client) auth.LoginThrottle {
	if !cfg.LoginThrottleEnabled {
		return nil
	}
	return auth.NewLoginThrottle(client, cfg.LoginThrottleLimit, cfg.LoginThrottleWindow)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Only for startup wiring. After startup, errors are returned and handled.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
