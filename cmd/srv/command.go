package main

import (
	"time"

	"github.com/urfave/cli/v2"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path of the toml config file",
	EnvVars: []string{"TILESET_CONFIG"},
}

var tilesetFlag = &cli.StringFlag{
	Name:    "tileset",
	Aliases: []string{"t"},
	Usage:   "path of a tsx file, the embedded tileset when empty",
}

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "tileset"
	app.Usage = "Tiled tileset toolkit and catalog service"
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{configFlag},
			Category:    "Service",
			Description: `Serves the tileset catalog, autotile and paint apis.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Category:    "Service",
			Description: `Applies the sql migrations on mysql, or migrates the entities on sqlite.`,
			Flags: []cli.Flag{
				configFlag,
				&cli.IntFlag{Name: "steps", Usage: "number of migrations to apply, negative to roll back"},
			},
		},
		{
			Action:      s.startImport,
			Name:        "import",
			Usage:       "Import a tileset into the catalog",
			Category:    "Service",
			Description: `Validates and stores a tsx file with its image, like the import api.`,
			Flags: []cli.Flag{
				configFlag,
				&cli.StringFlag{Name: "tsx", Usage: "path of the tsx file", Required: true},
				&cli.StringFlag{Name: "image", Usage: "path of the tileset image, resolved from the tsx when empty"},
				&cli.StringFlag{Name: "name", Usage: "catalog name, the tileset name when empty"},
				&cli.StringFlag{Name: "admin", Usage: "name recorded in the imported event", Value: "cli"},
			},
		},
		{
			Action:      s.startToken,
			Name:        "token",
			Usage:       "Generate an admin token",
			Category:    "Service",
			Description: `Prints a token accepted by the admin apis.`,
			Flags: []cli.Flag{
				configFlag,
				&cli.StringFlag{Name: "name", Usage: "admin name", Required: true},
				&cli.DurationFlag{Name: "expiration", Usage: "token lifetime, the configured one when zero"},
			},
		},
		{
			Action:      s.validate,
			Name:        "validate",
			Usage:       "Validate a tsx file",
			ArgsUsage:   "<tsxPath>",
			Category:    "Tools",
			Description: `Prints the validation issues and summary; fails on errors.`,
		},
		{
			Action:      s.export,
			Name:        "export",
			Usage:       "Re-encode a tileset",
			ArgsUsage:   "<tsxPath>",
			Category:    "Tools",
			Description: `Writes the tileset as tsx or json.`,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Usage: "tsx or json", Value: "tsx"},
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
			},
		},
		{
			Action:      s.autotile,
			Name:        "autotile",
			Usage:       "Resolve a corner grid into wang tiles",
			ArgsUsage:   "<cornersPath>",
			Category:    "Tools",
			Description: `Reads a json array of corner rows and prints the resolved tile rows.`,
			Flags: []cli.Flag{
				tilesetFlag,
				&cli.StringFlag{Name: "wangset", Aliases: []string{"w"}, Usage: "wang set name", Required: true},
				&cli.Int64Flag{Name: "seed", Usage: "random seed", Value: time.Now().UnixNano()},
				&cli.StringFlag{Name: "map", Usage: "also write a Tiled json map to this path"},
			},
		},
		{
			Action:      s.fill,
			Name:        "fill",
			Usage:       "Fill a layer with random tiles",
			Category:    "Tools",
			Description: `Picks tiles weighted by their probability, from a list or a wang set color.`,
			Flags: []cli.Flag{
				tilesetFlag,
				&cli.IntSliceFlag{Name: "tiles", Usage: "tile ids to pick from"},
				&cli.StringFlag{Name: "wangset", Aliases: []string{"w"}, Usage: "wang set of the interior tiles"},
				&cli.IntFlag{Name: "color", Usage: "wang color of the interior tiles", Value: 1},
				&cli.IntFlag{Name: "width", Usage: "layer width", Required: true},
				&cli.IntFlag{Name: "height", Usage: "layer height", Required: true},
				&cli.Int64Flag{Name: "seed", Usage: "random seed", Value: time.Now().UnixNano()},
			},
		},
		{
			Action:      s.inspectMap,
			Name:        "map",
			Usage:       "Inspect a Tiled json or tmx map",
			ArgsUsage:   "<mapPath>",
			Category:    "Tools",
			Description: `Prints the layers, the spawn object and the tile count per tileset of a map.`,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "collision", Usage: "layer whose blocked cells are counted"},
			},
		},
	}

	s.app = app
}
