package main

import (
	"github.com/questx-lab/tileset/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadLogger()

	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.migrateDB(cctx.Int("steps")); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot migrate database: %v", err)
		return err
	}

	return nil
}
