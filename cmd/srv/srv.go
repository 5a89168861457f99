package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/questx-lab/tileset/config"
	"github.com/questx-lab/tileset/internal/domain"
	"github.com/questx-lab/tileset/internal/domain/catalog"
	"github.com/questx-lab/tileset/internal/domain/search"
	"github.com/questx-lab/tileset/internal/entity"
	"github.com/questx-lab/tileset/internal/middleware"
	"github.com/questx-lab/tileset/internal/repository"
	"github.com/questx-lab/tileset/pkg/kafka"
	"github.com/questx-lab/tileset/pkg/logger"
	"github.com/questx-lab/tileset/pkg/pubsub"
	"github.com/questx-lab/tileset/pkg/router"
	"github.com/questx-lab/tileset/pkg/storage"
	"github.com/questx-lab/tileset/pkg/token"
	"github.com/questx-lab/tileset/pkg/xcontext"
	"github.com/questx-lab/tileset/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	storage     storage.Storage
	publisher   pubsub.Publisher
	redisClient xredis.Client
	indexer     search.Indexer
	catalog     *catalog.Catalog

	tilesetRepo repository.TilesetRepository

	tilesetDomain  domain.TilesetDomain
	autotileDomain domain.AutotileDomain
	previewDomain  domain.PreviewDomain
	paintDomain    domain.PaintDomain

	adminVerifier *middleware.AdminVerifier
	router        *router.Router
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
	return nil
}

func (s *srv) loadLogger() {
	level := logger.ParseLevel(xcontext.Configs(s.ctx).LogLevel)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) newDatabase() (*gorm.DB, error) {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.ConnectionString())
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return db, nil
}

func (s *srv) loadDatabase() error {
	db, err := s.newDatabase()
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

// migrateDB keeps the schema up to date. Mysql uses the versioned sql files,
// sqlite is migrated from the entities.
func (s *srv) migrateDB(steps int) error {
	if xcontext.Configs(s.ctx).Database.Driver == "mysql" {
		return repository.DoSqlMigration(s.ctx, steps)
	}

	return entity.MigrateTable(s.ctx)
}

func (s *srv) loadStorage() error {
	var err error
	s.storage, err = storage.NewS3Storage(xcontext.Configs(s.ctx).Storage)
	return err
}

func (s *srv) loadRedisClient() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot connect to redis, caching is disabled: %v", err)
		return
	}

	s.redisClient = client
}

func (s *srv) loadPublisher() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if len(cfg.Addrs) == 0 {
		s.publisher = pubsub.NewNopPublisher()
		return nil
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, cfg.Addrs)
	if err != nil {
		return err
	}

	s.publisher = publisher
	return nil
}

func (s *srv) loadIndexer() {
	s.indexer = search.NewBleveIndex(s.ctx)
}

func (s *srv) loadRepos() {
	s.tilesetRepo = repository.NewTilesetRepository(s.redisClient)
}

func (s *srv) loadDomains() {
	s.catalog = catalog.New()
	s.tilesetDomain = domain.NewTilesetDomain(s.tilesetRepo, s.catalog, s.indexer, s.storage, s.publisher)
	s.autotileDomain = domain.NewAutotileDomain(s.tilesetRepo, s.catalog)
	s.previewDomain = domain.NewPreviewDomain(s.tilesetRepo, s.catalog, s.storage)
	s.paintDomain = domain.NewPaintDomain(s.tilesetRepo, s.catalog)
	s.adminVerifier = middleware.NewAdminVerifier(token.NewEngine(xcontext.Configs(s.ctx).Auth.TokenSecret))
}

// loadService prepares everything the catalog service needs.
func (s *srv) loadService(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadLogger()

	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.migrateDB(0); err != nil {
		return err
	}

	if err := s.loadStorage(); err != nil {
		return err
	}

	s.loadRedisClient()
	if err := s.loadPublisher(); err != nil {
		return err
	}

	s.loadIndexer()
	s.loadRepos()
	s.loadDomains()
	return nil
}

func (s *srv) close() {
	if s.indexer != nil {
		s.indexer.Close()
	}

	if s.catalog != nil {
		s.catalog.Close()
	}
}

// handleSignal closes the search index before exiting, bleve keeps a lock on
// its directory.
func (s *srv) handleSignal() {
	go func() {
		termSignal := make(chan os.Signal, 1)
		signal.Notify(termSignal, syscall.SIGINT, syscall.SIGTERM)
		sig := <-termSignal
		xcontext.Logger(s.ctx).Infof("Got a signal of %s", sig.String())
		s.close()
		os.Exit(1)
	}()
}
