package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mavenapp/admin-gateway/internal/backend"
	"github.com/mavenapp/admin-gateway/internal/config"
	"github.com/mavenapp/admin-gateway/internal/database"
	"github.com/mavenapp/admin-gateway/internal/handler"
	"github.com/mavenapp/admin-gateway/internal/jobs"
	"github.com/mavenapp/admin-gateway/internal/middleware"
	"github.com/mavenapp/admin-gateway/internal/redis"
	"github.com/mavenapp/admin-gateway/internal/repository"
	"github.com/mavenapp/admin-gateway/internal/service"
	"github.com/mavenapp/admin-gateway/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("APP_ENV") == "production"

	// A misconfigured session backend is a deployment error; refuse to
	// serve rather than fall back to an insecure mode.
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	var (
		store      session.Store
		cleanupJob *jobs.CleanupJob
		healthPing func(context.Context) error
	)

	switch cfg.SessionBackend {
	case config.SessionBackendCookie:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
		if err := db.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ping database")
		}
		cancel()
		log.Info().Msg("database connected")

		revocationRepo := repository.NewRevokedSessionRepository(db.DB)
		store = session.NewCookieStore(cfg.SessionSecret, revocationRepo, isProduction)
		cleanupJob = jobs.NewCleanupJob(revocationRepo, config.CleanupJobInterval)
		healthPing = db.Ping

	case config.SessionBackendLocal:
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected")

		store = session.NewLocalStore(session.NewRedisKV(redisClient), isProduction)
		healthPing = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	backendClient := backend.NewClient(cfg.BackendBaseURL, cfg.LoginTimeout())
	authService := service.NewAuthService(backendClient)
	authHandler := handler.NewAuthHandler(authService, store)

	apiProxy, err := handler.NewAPIProxy(cfg.BackendBaseURL, store)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid backend base url")
	}

	guardMiddleware := middleware.NewGuardMiddleware(store)
	csrfMiddleware := middleware.NewCSRFMiddleware(isProduction)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)
	spa := handler.NewSPAHandler(cfg.StaticDir)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := healthPing(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    status,
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)
		r.Use(csrfMiddleware.Handler)
		r.Use(guardMiddleware.Handler)

		r.Mount("/auth/api", authHandler.Routes())
		r.Handle("/api/*", apiProxy)

		// Pages: /, /auth, /dashboard and its subtree. The guard has
		// already decided allow/redirect before the bundle is served.
		r.NotFound(spa.ServeHTTP)
	})

	if cleanupJob != nil {
		cleanupJob.Start()
		defer cleanupJob.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("backend", cfg.SessionBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
