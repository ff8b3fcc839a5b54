package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/xebia-france/xskillz-v2/internal/config"
	"github.com/xebia-france/xskillz-v2/internal/database/migration"
	"github.com/xebia-france/xskillz-v2/internal/database/postgres"
	"github.com/xebia-france/xskillz-v2/internal/database/seeder"
	"github.com/xebia-france/xskillz-v2/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	runner := migration.Runner{FS: migrations.FS}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	err = seeder.Seed(
		ctx,
		db,
		os.Getenv("ADMIN_EMAIL"),
		os.Getenv("ADMIN_NAME"),
		os.Getenv("ADMIN_PASSWORD"),
		log.Default(),
	)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Printf("migrations and seed applied")
}
