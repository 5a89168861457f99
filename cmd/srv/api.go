package main

import (
	"net/http"

	"github.com/questx-lab/tileset/internal/middleware"
	"github.com/questx-lab/tileset/pkg/router"
	"github.com/questx-lab/tileset/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadService(cctx); err != nil {
		return err
	}
	defer s.close()
	s.handleSignal()

	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	httpSrv := &http.Server{
		Addr:    cfg.Address(),
		Handler: s.router.Handler(cfg),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.Address())
	var err error
	if cfg.Cert != "" && cfg.Key != "" {
		err = httpSrv.ListenAndServeTLS(cfg.Cert, cfg.Key)
	} else {
		err = httpSrv.ListenAndServe()
	}

	if err != nil && err != http.ErrServerClosed {
		xcontext.Logger(s.ctx).Errorf("A error occurs when running server: %v", err)
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(s.adminVerifier.Middleware())
	s.router.AddCloser(middleware.Logger())

	// Tileset API
	{
		router.GET(s.router, "/getTileset", s.tilesetDomain.Get)
		router.GET(s.router, "/getTilesets", s.tilesetDomain.GetList)
		router.GET(s.router, "/searchTilesets", s.tilesetDomain.Search)
		router.GET(s.router, "/exportTileset", s.tilesetDomain.Export)
		router.POST(s.router, "/validateTileset", s.tilesetDomain.Validate)
		router.POST(s.router, "/importTileset", s.tilesetDomain.Import)
		router.POST(s.router, "/deleteTileset", s.tilesetDomain.Delete)
		router.POST(s.router, "/generatePreviews", s.previewDomain.Generate)
	}

	// Autotile API
	{
		router.POST(s.router, "/resolveAutotile", s.autotileDomain.Resolve)
		router.POST(s.router, "/randomFill", s.autotileDomain.RandomFill)
		router.Websocket(s.router, "/paint", s.paintDomain.ServePaint)
	}
}
