package domain

import (
	"testing"

	"github.com/questx-lab/tileset/internal/domain/autotile"
	"github.com/questx-lab/tileset/internal/domain/tilemap"
	"github.com/questx-lab/tileset/internal/model"
	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func corners(width, height, color int) [][]int {
	rows := make([][]int, height+1)
	for y := range rows {
		rows[y] = make([]int, width+1)
		for x := range rows[y] {
			rows[y][x] = color
		}
	}

	return rows
}

func Test_autotileDomain_Resolve(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains(ctx)

	t.Run("full grass", func(t *testing.T) {
		resp, err := d.autotile.Resolve(ctx, &model.ResolveAutotileRequest{
			WangSet: "Grass",
			Corners: corners(3, 2, 1),
			Seed:    7,
		})
		require.NoError(t, err)
		require.Equal(t, 3, resp.Width)
		require.Equal(t, 2, resp.Height)
		require.Equal(t, [][]int{{89, 89, 89}, {89, 89, 89}}, resp.Tiles)
		require.Empty(t, resp.Inexact)
		require.Nil(t, resp.Map)
	})

	t.Run("single corner with map", func(t *testing.T) {
		grid := corners(2, 2, 0)
		grid[1][1] = 1

		resp, err := d.autotile.Resolve(ctx, &model.ResolveAutotileRequest{
			TilesetID: DefaultTilesetID,
			WangSet:   "Grass",
			Corners:   grid,
			WithMap:   true,
		})
		require.NoError(t, err)
		require.Equal(t, [][]int{{26, 25}, {4, 3}}, resp.Tiles)

		m, err := tilemap.ParseMap(resp.Map)
		require.NoError(t, err)
		require.Equal(t, "StarRealmsCozyForestPack24x24.tsx", m.Tilesets[0].Source)

		gid, ok := m.TileAt("Grass", 1, 1)
		require.True(t, ok)
		require.Equal(t, uint32(4), gid)
	})

	t.Run("empty cells", func(t *testing.T) {
		resp, err := d.autotile.Resolve(ctx, &model.ResolveAutotileRequest{
			WangSet: "Water",
			Corners: corners(1, 1, 0),
		})
		require.NoError(t, err)
		require.Equal(t, [][]int{{autotile.Empty}}, resp.Tiles)
	})

	tests := []struct {
		name    string
		req     *model.ResolveAutotileRequest
		wantErr errorx.Code
	}{
		{
			name:    "too small",
			req:     &model.ResolveAutotileRequest{WangSet: "Grass", Corners: [][]int{{1}}},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "too many cells",
			req:     &model.ResolveAutotileRequest{WangSet: "Grass", Corners: corners(65, 64, 1)},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "ragged grid",
			req:     &model.ResolveAutotileRequest{WangSet: "Grass", Corners: [][]int{{1, 1}, {1}}},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "unknown wang set",
			req:     &model.ResolveAutotileRequest{WangSet: "Lava", Corners: corners(1, 1, 1)},
			wantErr: errorx.NotFound,
		},
		{
			name:    "undeclared color",
			req:     &model.ResolveAutotileRequest{WangSet: "Grass", Corners: corners(1, 1, 3)},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "unknown tileset",
			req:     &model.ResolveAutotileRequest{TilesetID: "missing", WangSet: "Grass", Corners: corners(1, 1, 1)},
			wantErr: errorx.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.autotile.Resolve(ctx, tt.req)
			require.Error(t, err)
			require.Equal(t, tt.wantErr, err.(errorx.Error).Code)
		})
	}
}

func Test_autotileDomain_RandomFill(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains(ctx)

	resp, err := d.autotile.RandomFill(ctx, &model.RandomFillRequest{
		WangSet: "Water",
		Color:   1,
		Width:   4,
		Height:  2,
		Seed:    1,
	})
	require.NoError(t, err)
	require.Equal(t, [][]int{{23, 23, 23, 23}, {23, 23, 23, 23}}, resp.Tiles)

	resp, err = d.autotile.RandomFill(ctx, &model.RandomFillRequest{
		Tiles:  []int{89, 113},
		Width:  8,
		Height: 8,
		Seed:   3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Tiles, 8)
	for _, row := range resp.Tiles {
		for _, id := range row {
			require.Contains(t, []int{89, 113}, id)
		}
	}

	again, err := d.autotile.RandomFill(ctx, &model.RandomFillRequest{
		Tiles:  []int{89, 113},
		Width:  8,
		Height: 8,
		Seed:   3,
	})
	require.NoError(t, err)
	require.Equal(t, resp, again)

	tests := []struct {
		name string
		req  *model.RandomFillRequest
	}{
		{name: "no source", req: &model.RandomFillRequest{Width: 1, Height: 1}},
		{name: "zero size", req: &model.RandomFillRequest{Tiles: []int{1}}},
		{name: "too many cells", req: &model.RandomFillRequest{Tiles: []int{1}, Width: 100, Height: 100}},
		{name: "overflowing size", req: &model.RandomFillRequest{Tiles: []int{89}, Width: 1 << 62, Height: 4}},
		{name: "overflowing height", req: &model.RandomFillRequest{Tiles: []int{89}, Width: 4, Height: 1 << 62}},
		{name: "tile out of range", req: &model.RandomFillRequest{Tiles: []int{528}, Width: 1, Height: 1}},
		{name: "no interior tile", req: &model.RandomFillRequest{WangSet: "Water", Color: 2, Width: 1, Height: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.autotile.RandomFill(ctx, tt.req)
			require.Error(t, err)
			require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
		})
	}
}
