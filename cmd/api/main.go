// cmd/api/main.go
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

	"clubnexus/internal/api"
	"clubnexus/internal/audit"
	"clubnexus/internal/club"
	"clubnexus/internal/config"
	"clubnexus/internal/logger"
	"clubnexus/internal/seed"
	"clubnexus/internal/session"
	"clubnexus/internal/store/memory"
	"clubnexus/internal/store/postgres"
	"clubnexus/internal/telemetry"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "clubnexus-api")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "clubnexus-api", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	var (
		store    club.Store
		auditLog audit.Log
		demo     bool
	)
	switch cfg.StoreDriver {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		store = postgres.NewStore(db)
		auditLog = audit.NewPostgresLog(db)
	default:
		store = memory.New()
		auditLog = audit.NewMemoryLog()
		demo = true
	}

	var registry session.Registry = session.NewMemoryRegistry()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		registry = session.NewRedisRegistry(rdb)
	}

	services := api.NewServices(store, auditLog, registry, session.Options{
		Secret:          cfg.JWTSecret,
		TTL:             cfg.SessionTTL,
		LoginsPerMinute: cfg.LoginRatePerMinute,
	}, lg)

	if demo {
		if err := seed.Load(ctx, store); err != nil {
			return err
		}
		if err := seed.LoadUsers(ctx, services.Sessions); err != nil {
			return err
		}
		lg.Info("loaded demo club into memory store")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(services, store, auditLog, lg.Named("http")),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting club API", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		lg.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
