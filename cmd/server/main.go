package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"express-ledger-service/internal/adapters/cache"
	"express-ledger-service/internal/adapters/repositories"
	"express-ledger-service/internal/api"
	"express-ledger-service/internal/config"
	"express-ledger-service/internal/platform/db"
	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/metrics"
	"express-ledger-service/internal/ports"
	"express-ledger-service/internal/services"
)

const shutdownTimeout = 15 * time.Second

// main is the application composition root.
// It wires concrete adapters (SQL store, stats cache) behind ports and starts the HTTP server.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := metrics.New()
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	dialect := repositories.DialectFor(cfg.DBDriver)
	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect, cfg.SeedPath); err != nil {
		return err
	}

	statsCache, closeCache, err := newStatsCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	express := services.NewExpressService(
		repositories.NewSQLExpressRepository(conn, dialect, logger.Named("express_repo")),
		statsCache, ports.SystemClock, logger.Named("express"), m)
	ledger := services.NewLedgerService(
		repositories.NewSQLLedgerRepository(conn, dialect, logger.Named("ledger_repo")),
		ports.SystemClock, logger.Named("ledger"), m)

	router := api.NewRouter(api.Deps{
		Express: express,
		Ledger:  ledger,
		Pinger:  conn,
		Clock:   ports.SystemClock,
		Log:     logger.Named("http"),
		Metrics: m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			logging.String("addr", srv.Addr),
			logging.String("db_driver", cfg.DBDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, d repositories.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if seedPath == "" {
		return nil
	}
	if err := repositories.SeedLedgerFromFile(ctx, conn, d, seedPath, time.Now()); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	return nil
}

// newStatsCache uses Redis when REDIS_ADDR is set and an in-process LRU
// otherwise. The returned func releases the cache's resources.
func newStatsCache(ctx context.Context, cfg config.Config, logger logging.Logger) (ports.StatsCache, func(), error) {
	if cfg.RedisAddr == "" {
		c := cache.NewLRUStatsCache(cache.DefaultLRUSize, cfg.StatsCacheTTL)
		logger.Info("stats cache", logging.String("kind", "lru"))
		return c, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("stats cache: ping redis %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("stats cache", logging.String("kind", "redis"), logging.String("addr", cfg.RedisAddr))
	return cache.NewRedisStatsCache(client, cfg.StatsCacheTTL, logger.Named("stats_cache")),
		func() { _ = client.Close() }, nil
}
