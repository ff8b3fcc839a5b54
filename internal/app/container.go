package app

import (
	"context"
	"log"
	"time"

	"github.com/xebia-france/xskillz-v2/internal/config"
	"github.com/xebia-france/xskillz-v2/internal/database"
	"github.com/xebia-france/xskillz-v2/internal/database/migration"
	dbpostgres "github.com/xebia-france/xskillz-v2/internal/database/postgres"
	"github.com/xebia-france/xskillz-v2/internal/infrastructure/cache"
	"github.com/xebia-france/xskillz-v2/migrations"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Me     *cache.MeCache
}

func NewContainer(cfg config.Config) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{FS: migrations.FS}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	me := cache.NewMeCache(cfg.Redis, log.Default())

	return &Container{Config: cfg, DB: db, Me: me}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Me != nil {
		_ = c.Me.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
