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

	"balcao/internal/config"
	"balcao/internal/domain/auth"
	"balcao/internal/domain/catalog"
	"balcao/internal/domain/ledger"
	"balcao/internal/domain/receivables"
	"balcao/internal/domain/stats"
	"balcao/internal/infrastructure/cache"
	v1 "balcao/internal/infrastructure/http/v1"
	"balcao/internal/infrastructure/http/v1/handlers"
	"balcao/internal/infrastructure/http/v1/middleware"
	"balcao/internal/infrastructure/storage/postgres"
	"balcao/internal/infrastructure/storage/postgres/auth_repo"
	"balcao/internal/infrastructure/storage/postgres/catalog_repo"
	"balcao/internal/infrastructure/storage/postgres/ledger_repo"
	"balcao/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	ctx = logger.WithLogger(ctx, log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	txManager := postgres.NewTxManager(pool)

	productRepo := catalog_repo.NewProductRepo(txManager)
	movementRepo := ledger_repo.NewMovementRepo(txManager)
	accountRepo := auth_repo.NewAccountRepo(txManager)

	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	if cfg.JWTTTL > 0 {
		jwtConfig.AccessTokenTTL = cfg.JWTTTL
	}
	jwtService := auth.NewJWTService(jwtConfig)

	healthChecks := map[string]handlers.Pinger{"postgres": pool}

	var statsCache stats.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisStatsCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = redisCache.Close() }()
		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		statsCache = redisCache
		healthChecks["redis"] = redisCache
	}

	authService := auth.NewService(accountRepo, jwtService)
	catalogService := catalog.NewService(productRepo)
	ledgerService := ledger.NewService(productRepo, movementRepo, txManager)
	receivablesService := receivables.NewService(movementRepo, txManager)
	statsService := stats.NewService(movementRepo, statsCache)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		TokenValidator: jwtService,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Auth:           handlers.NewAuthHandler(authService),
		Products:       handlers.NewProductHandler(catalogService),
		Movement:       handlers.NewMovementHandler(ledgerService, receivablesService, statsService),
		Stats:          handlers.NewStatsHandler(statsService),
		Health:         handlers.NewHealthHandler(healthChecks),
		Debug:          cfg.IsDevelopment(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server listening", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info(ctx, "server stopped")
	return nil
}
