// cmd/seed/main.go
package main

import (
	"context"
	"database/sql"
	"log"

	"clubnexus/internal/config"
	"clubnexus/internal/logger"
	"clubnexus/internal/seed"
	"clubnexus/internal/session"
	"clubnexus/internal/store/postgres"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// seed loads the demo club and its logins into an empty PostgreSQL database.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "clubnexus-seed")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		lg.Fatal("migrate", zap.Error(err))
	}

	ctx := context.Background()
	store := postgres.NewStore(db)
	if err := seed.Load(ctx, store); err != nil {
		lg.Fatal("seed club", zap.Error(err))
	}

	sessions := session.NewService(store, session.NewMemoryRegistry(), session.Options{
		Secret: cfg.JWTSecret,
		TTL:    cfg.SessionTTL,
	}, lg)
	if err := seed.LoadUsers(ctx, sessions); err != nil {
		lg.Fatal("seed users", zap.Error(err))
	}
	lg.Info("demo club loaded", zap.Int("users", len(seed.Users())))
}
