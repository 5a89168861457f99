package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/questx-lab/tileset/internal/domain/catalog"
	"github.com/questx-lab/tileset/internal/domain/tileset"
	"github.com/questx-lab/tileset/internal/repository"
	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/xcontext"
	"gorm.io/gorm"
)

// DefaultTilesetID refers to the embedded tileset in every request taking a
// tileset id.
const DefaultTilesetID = "default"

var tilesetNameRegex = regexp.MustCompile(`^[A-Za-z0-9_\-. ]*$`)

func checkTilesetName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return errorx.New(errorx.BadRequest, "Tileset name is required")
	}

	if len(name) > 64 {
		return errorx.New(errorx.BadRequest, "Tileset name too long (at most 64 characters)")
	}

	if !tilesetNameRegex.MatchString(name) {
		return errorx.New(errorx.BadRequest, "Tileset name contains invalid characters")
	}

	return nil
}

func tilesetCacheKey(id string) string {
	return "tileset:" + id
}

// loadTileset returns the parsed tileset of the catalog entry id, parsing the
// stored TSX at most once.
func loadTileset(
	ctx context.Context,
	tilesetRepo repository.TilesetRepository,
	cat *catalog.Catalog,
	id string,
) (*tileset.Tileset, error) {
	if id == "" || id == DefaultTilesetID {
		ts, err := cat.Default(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load default tileset: %v", err)
			return nil, errorx.Unknown
		}

		return ts, nil
	}

	ts, err := cat.Load(ctx, tilesetCacheKey(id), func(ctx context.Context) (*tileset.Tileset, error) {
		e, err := tilesetRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		return tileset.ParseBytes(e.Content)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found tileset")
		}

		xcontext.Logger(ctx).Errorf("Cannot load tileset %s: %v", id, err)
		return nil, errorx.Unknown
	}

	return ts, nil
}

func checkLimit(ctx context.Context, limit int) (int, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		limit = apiCfg.DefaultLimit
	}

	if limit < 0 {
		return 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > apiCfg.MaxLimit {
		return 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	return limit, nil
}
