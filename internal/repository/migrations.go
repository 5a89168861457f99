package repository

import (
	"context"
	"embed"
	"errors"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/questx-lab/tileset/pkg/logger"
	"github.com/questx-lab/tileset/pkg/xcontext"
)

//go:embed migration/*.sql
var migrationsFS embed.FS

type dbLogger struct {
	logger logger.Logger
}

func (l *dbLogger) Printf(format string, v ...any) {
	l.logger.Infof(format, v...)
}

func (l *dbLogger) Verbose() bool {
	return false
}

func newMigrate(ctx context.Context) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migration")
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, xcontext.Configs(ctx).Database.MigrationURL())
	if err != nil {
		return nil, err
	}

	m.Log = &dbLogger{logger: xcontext.Logger(ctx)}
	return m, nil
}

// DoSqlMigration applies the embedded sql migrations to the configured mysql
// database. Steps below zero roll back that many migrations, zero applies all.
func DoSqlMigration(ctx context.Context, steps int) error {
	m, err := newMigrate(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	if steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(steps)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}

	xcontext.Logger(ctx).Infof("Database schema is at version %d (dirty=%t)", version, dirty)
	return nil
}
