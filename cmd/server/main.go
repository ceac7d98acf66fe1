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

	"github.com/pimentellima/mockdata-server/internal/config"
	"github.com/pimentellima/mockdata-server/internal/database"
	"github.com/pimentellima/mockdata-server/internal/genai"
	"github.com/pimentellima/mockdata-server/internal/handler"
	"github.com/pimentellima/mockdata-server/internal/jobs"
	"github.com/pimentellima/mockdata-server/internal/middleware"
	"github.com/pimentellima/mockdata-server/internal/redis"
	"github.com/pimentellima/mockdata-server/internal/repository"
	"github.com/pimentellima/mockdata-server/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

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

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	accountRepo := repository.NewAccountRepository(db.DB)
	runRepo := repository.NewRunRepository(db.DB)
	resultRepo := repository.NewNamedResultRepository(db.DB)
	tokenRepo := repository.NewRefreshTokenRepository(db.DB)

	generator := genai.NewOpenAIClient(cfg)
	policy := service.NewCreditPolicy(cfg.ItemsPerCredit)

	accountService := service.NewAccountService(accountRepo, cfg.InitialCreditsMilli())
	sessionService := service.NewSessionService(
		tokenRepo, cfg.SessionSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL(),
	)
	generationService := service.NewGenerationService(
		db, accountRepo, runRepo, resultRepo, generator, policy,
	)
	datasetService := service.NewDatasetService(runRepo, resultRepo)

	sessionMiddleware := middleware.NewSessionMiddleware(
		sessionService, cfg.RefreshTokenTTL(), isProduction,
	)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(redisClient.Client, cfg.RateLimitPerMin)
	publicRateLimitMiddleware := middleware.NewIPRateLimitMiddleware(
		redisClient.Client, cfg.PublicRateLimitPerMin, "mock",
	)
	billingSignatureMiddleware := middleware.NewBillingSignatureMiddleware(cfg.BillingWebhookSecret)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	authHandler := handler.NewAuthHandler(accountService, sessionService, sessionMiddleware)
	generateHandler := handler.NewGenerateHandler(generationService)
	runsHandler := handler.NewRunsHandler(datasetService)
	creditsHandler := handler.NewCreditsHandler(accountService)
	accountHandler := handler.NewAccountHandler(accountService, sessionService)
	mockHandler := handler.NewMockHandler(datasetService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/v1/auth", func(r chi.Router) {
		r.Mount("/", authHandler.Routes())
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(sessionMiddleware.Handler)
		r.Use(rateLimitMiddleware.Handler)
		r.Mount("/generate", generateHandler.Routes())
		r.Mount("/runs", runsHandler.Routes())
		r.Mount("/credits", creditsHandler.Routes())
		r.Mount("/account", accountHandler.Routes())
	})

	r.Route("/api/mock", func(r chi.Router) {
		r.Use(publicRateLimitMiddleware.Handler)
		r.Mount("/", mockHandler.Routes())
	})

	r.Route("/webhooks", func(r chi.Router) {
		r.Use(billingSignatureMiddleware.Handler)
		r.Post("/billing", creditsHandler.BillingWebhook)
	})

	cleanupJob := jobs.NewCleanupJob(tokenRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
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
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
