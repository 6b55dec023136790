package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bank-ledger/config"
	httpHandler "bank-ledger/internal/adapter/http/handler"
	"bank-ledger/internal/adapter/http/middleware"
	pgStorage "bank-ledger/internal/adapter/storage/postgres"
	redisStorage "bank-ledger/internal/adapter/storage/redis"
	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"
	"bank-ledger/internal/service"
	"bank-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("LEDGER_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("ledger", cfg.Ledger.Name).
		Msg("Starting bank ledger")

	ctx := context.Background()

	defaults, err := cfg.Ledger.Defaults()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid ledger defaults")
	}
	ledger := domain.NewLedger(cfg.Ledger.Name, cfg.Ledger.FirstAccountNumber, defaults)

	var (
		accountRepo    ports.AccountRepository
		txRepo         ports.TransactionRepository
		transactor     ports.DBTransactor
		idempCache     ports.IdempotencyCache
		rateLimitStore *redisStorage.RateLimitStore
		healthCheckers []ports.HealthChecker
	)

	// PostgreSQL keeps the durable copy of the ledger.
	if cfg.Database.Enabled {
		if err := pgStorage.Migrate(cfg.Database, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate PostgreSQL schema")
		}
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		accountRepo = pgStorage.NewAccountRepo(pool)
		txRepo = pgStorage.NewTransactionRepo(pool)
		transactor = pgStorage.NewTransactor(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
	} else {
		log.Warn().Msg("PostgreSQL disabled, ledger state will not survive a restart")
	}

	// Redis backs idempotency and rate limiting.
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		idempCache = redisStorage.NewIdempotencyCache(rdb)
		if cfg.RateLimit.Enabled {
			rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		}
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled, idempotency keys and rate limits are ignored")
	}

	ledgerSvc := service.NewLedgerService(
		ledger,
		accountRepo,
		txRepo,
		transactor,
		idempCache,
		cfg.Idempotency.TTL,
		logger.Component(log, "ledger"),
	)

	restored, err := ledgerSvc.Restore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to restore ledger")
	}
	if cfg.Database.Enabled {
		log.Info().Int("accounts", restored).Msg("Ledger restored")
	}

	var tokenSvc ports.TokenService
	if cfg.JWT.Secret != "" {
		tokenSvc = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	} else {
		log.Warn().Msg("jwt.secret not set, API is unauthenticated")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		RateLimitRules: middleware.RateLimitRules(cfg.RateLimit.ReadsPerMinute, cfg.RateLimit.MutationsPerMinute),
		HealthCheckers: healthCheckers,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
