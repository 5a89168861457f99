package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/tileset/config"
	"github.com/questx-lab/tileset/internal/entity"
	"github.com/questx-lab/tileset/pkg/logger"
	"github.com/questx-lab/tileset/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Every connection to ":memory:" opens a new database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Default()
	cfg.Env = "test"
	cfg.ApiServer.MaxLimit = 50
	cfg.ApiServer.DefaultLimit = 1
	cfg.Auth.TokenSecret = "secret"
	cfg.Auth.TokenExpiration = time.Minute
	cfg.Redis.CacheTTL = time.Minute
	cfg.Search.IndexDir = ""
	cfg.Autotile.MaxCells = 64 * 64

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithAdmin(name string) context.Context {
	return xcontext.WithRequestAdmin(MockContext(), name)
}
