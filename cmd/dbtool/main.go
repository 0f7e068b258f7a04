package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"transport-route-service/internal/adapters/repositories"
	"transport-route-service/internal/config"
	"transport-route-service/internal/platform/db"
	"transport-route-service/internal/platform/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// dbtool creates the Postgres schema and loads the seed file.
func main() {
	log := logger.NewLogger("info")
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := initAndSeed(ctx, log, sqlDB, cfg.SeedPath); err != nil {
		log.Fatal("database setup failed", "error", err)
	}
}

func initAndSeed(ctx context.Context, log logger.Logger, sqlDB *sql.DB, seedPath string) error {
	log.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Info("schema ready")

	log.Info("seeding database", "seed", seedPath)
	if err := repositories.SeedFromJSON(ctx, sqlDB, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Info("seeding complete")

	return nil
}
