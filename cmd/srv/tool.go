package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/questx-lab/tileset/internal/domain/autotile"
	"github.com/questx-lab/tileset/internal/domain/catalog"
	"github.com/questx-lab/tileset/internal/domain/tilemap"
	"github.com/questx-lab/tileset/internal/domain/tileset"
	"github.com/questx-lab/tileset/internal/model"
	"github.com/questx-lab/tileset/pkg/token"
	"github.com/questx-lab/tileset/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func loadTileset(ctx context.Context, path string) (*tileset.Tileset, error) {
	c := catalog.New()
	if path == "" {
		return c.Default(ctx)
	}

	return c.Load(ctx, path, catalog.FileLoader(path))
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

func (s *srv) validate(cctx *cli.Context) error {
	ts, err := loadTileset(cctx.Context, cctx.Args().First())
	if err != nil {
		return err
	}

	report := tileset.Validate(ts)
	for _, issue := range report.Issues {
		fmt.Fprintln(cctx.App.Writer, issue.String())
	}

	if err := printJSON(cctx.App.Writer, ts.Summary()); err != nil {
		return err
	}

	return report.Err()
}

func (s *srv) export(cctx *cli.Context) error {
	ts, err := loadTileset(cctx.Context, cctx.Args().First())
	if err != nil {
		return err
	}

	var out []byte
	switch cctx.String("format") {
	case "tsx":
		out, err = ts.MarshalTSX()
	case "json":
		out, err = json.MarshalIndent(ts, "", " ")
	default:
		return fmt.Errorf("unsupported format %s", cctx.String("format"))
	}

	if err != nil {
		return err
	}

	if path := cctx.String("out"); path != "" {
		return os.WriteFile(path, out, 0o644)
	}

	_, err = cctx.App.Writer.Write(out)
	return err
}

func (s *srv) autotile(cctx *cli.Context) error {
	if cctx.Args().Len() != 1 {
		return errors.New("autotile needs the path of a corner grid")
	}

	b, err := os.ReadFile(cctx.Args().First())
	if err != nil {
		return err
	}

	var corners [][]int
	if err := json.Unmarshal(b, &corners); err != nil {
		return fmt.Errorf("invalid corner grid: %w", err)
	}

	ts, err := loadTileset(cctx.Context, cctx.String("tileset"))
	if err != nil {
		return err
	}

	terrain, err := autotile.NewTerrainFromCorners(corners)
	if err != nil {
		return err
	}

	resolver, err := autotile.NewResolver(ts, cctx.String("wangset"))
	if err != nil {
		return err
	}

	layer, err := resolver.Resolve(terrain, cctx.Int64("seed"))
	if err != nil {
		return err
	}

	for _, cell := range resolver.Inexact(terrain) {
		fmt.Fprintf(cctx.App.ErrWriter, "no exact tile at (%d,%d), using %d\n", cell.X, cell.Y, cell.Tile)
	}

	if path := cctx.String("map"); path != "" {
		m, err := tilemap.NewMap(layer.Width, layer.Height, ts.TileWidth, ts.TileHeight, ts.Name+".tsx")
		if err != nil {
			return err
		}

		if _, err := m.AddTileLayer(cctx.String("wangset"), layer.Tiles, "csv", ""); err != nil {
			return err
		}

		out, err := m.Marshal()
		if err != nil {
			return err
		}

		if err := os.WriteFile(path, out, 0o644); err != nil {
			return err
		}
	}

	return printJSON(cctx.App.Writer, layer.Rows())
}

func (s *srv) fill(cctx *cli.Context) error {
	ts, err := loadTileset(cctx.Context, cctx.String("tileset"))
	if err != nil {
		return err
	}

	var picker *autotile.Picker
	if tiles := cctx.IntSlice("tiles"); len(tiles) > 0 {
		picker, err = autotile.NewPicker(ts, tiles)
	} else if set := cctx.String("wangset"); set != "" {
		picker, err = autotile.NewWangSetPicker(ts, set, cctx.Int("color"))
	} else {
		return errors.New("either --tiles or --wangset is required")
	}

	if err != nil {
		return err
	}

	layer, err := picker.Fill(cctx.Int("width"), cctx.Int("height"), cctx.Int64("seed"))
	if err != nil {
		return err
	}

	return printJSON(cctx.App.Writer, layer.Rows())
}

func (s *srv) startImport(cctx *cli.Context) error {
	tsxPath := cctx.String("tsx")
	ts, err := tileset.ParseFile(tsxPath)
	if err != nil {
		return err
	}

	imagePath := cctx.String("image")
	if imagePath == "" {
		imagePath = filepath.Join(filepath.Dir(tsxPath), filepath.FromSlash(ts.Image.Source))
	}

	tsx, err := os.ReadFile(tsxPath)
	if err != nil {
		return err
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return err
	}

	if err := s.loadService(cctx); err != nil {
		return err
	}
	defer s.close()

	ctx := xcontext.WithRequestAdmin(s.ctx, cctx.String("admin"))
	resp, err := s.tilesetDomain.Import(ctx, &model.ImportTilesetRequest{
		Name:  cctx.String("name"),
		TSX:   string(tsx),
		Image: image,
	})
	if err != nil {
		return err
	}

	return printJSON(cctx.App.Writer, resp)
}

func (s *srv) startToken(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	cfg := xcontext.Configs(s.ctx).Auth
	if cfg.TokenSecret == "" {
		return errors.New("token secret is not configured")
	}

	expiration := cctx.Duration("expiration")
	if expiration == 0 {
		expiration = cfg.TokenExpiration
	}

	tkn, err := token.NewEngine(cfg.TokenSecret).Generate(expiration, token.AdminClaims{Name: cctx.String("name")})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cctx.App.Writer, tkn)
	return err
}

type mapLayer struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type mapSummary struct {
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	PixelWidth  int             `json:"pixel_width"`
	PixelHeight int             `json:"pixel_height"`
	Layers      []mapLayer      `json:"layers"`
	Objects     int             `json:"objects"`
	Spawn       *tilemap.Object `json:"spawn,omitempty"`
	Tiles       map[string]int  `json:"tiles"`
	Blocked     *int            `json:"blocked,omitempty"`
}

func (s *srv) inspectMap(cctx *cli.Context) error {
	if cctx.Args().Len() != 1 {
		return errors.New("map needs the path of a Tiled json or tmx map")
	}

	m, err := tilemap.ParseMapFile(cctx.Args().First())
	if err != nil {
		return err
	}

	summary := mapSummary{
		Width:   m.Width,
		Height:  m.Height,
		Objects: len(m.Objects()),
		Tiles:   map[string]int{},
	}
	summary.PixelWidth, summary.PixelHeight = m.PixelSize()

	for _, l := range m.AllLayers() {
		summary.Layers = append(summary.Layers, mapLayer{Name: l.Name, Type: l.Type})
		for _, gid := range l.GIDs {
			if ref, _, ok := m.LocalTile(gid); ok {
				summary.Tiles[ref.Source]++
			}
		}
	}

	if spawn, ok := m.Spawn(); ok {
		summary.Spawn = spawn
	}

	if name := cctx.String("collision"); name != "" {
		c, err := m.CollisionLayer(name)
		if err != nil {
			return err
		}

		blocked := 0
		for x := 0; x < c.Width; x++ {
			for y := 0; y < c.Height; y++ {
				if c.IsBlocked(x, y) {
					blocked++
				}
			}
		}
		summary.Blocked = &blocked
	}

	return printJSON(cctx.App.Writer, summary)
}
