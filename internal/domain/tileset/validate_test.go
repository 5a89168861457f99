package tileset

import (
	"errors"
	"math"
	"testing"

	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/stretchr/testify/require"
)

func TestValidate_DefaultTileset(t *testing.T) {
	report := Validate(parseDefault(t))

	require.Empty(t, report.Errors())
	require.NoError(t, report.Err())

	warnings := report.Warnings()
	require.Len(t, warnings, 1)
	require.Equal(t, IssueImageWidth, warnings[0].Code)
	require.Contains(t, warnings[0].Message, "550")
	require.Contains(t, warnings[0].Message, "528")
	require.Equal(t, "warning: image_width: image width 550 differs from 528 px of tiles", warnings[0].String())
}

func TestValidate_DefaultTilesetProperties(t *testing.T) {
	ts := parseDefault(t)

	for _, tile := range ts.Tiles {
		require.NotNil(t, tile.Probability)
		require.GreaterOrEqual(t, *tile.Probability, 0.0)
		require.LessOrEqual(t, *tile.Probability, 1.0)
		require.True(t, ts.HasTile(tile.ID))
	}

	for _, ws := range ts.WangSets {
		for _, wt := range ws.Tiles {
			require.True(t, ts.HasTile(wt.TileID))
			require.Len(t, wt.WangID, WangIDSize)
			require.LessOrEqual(t, wt.WangID.MaxColor(), len(ws.Colors))
		}
	}

	require.Equal(t, ts.Image.Height, ts.Rows()*ts.TileHeight)
	require.NotEqual(t, ts.Image.Width, ts.Columns*ts.TileWidth)
}

func TestValidate_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(ts *Tileset)
		code   string
	}{
		{
			name: "probability above one",
			mutate: func(ts *Tileset) {
				p := 1.5
				ts.Tiles[0].Probability = &p
			},
			code: IssueProbability,
		},
		{
			name: "negative probability",
			mutate: func(ts *Tileset) {
				p := -0.1
				ts.Tiles[3].Probability = &p
			},
			code: IssueProbability,
		},
		{
			name:   "tile override out of range",
			mutate: func(ts *Tileset) { ts.Tiles[0].ID = 528 },
			code:   IssueTileRange,
		},
		{
			name:   "duplicate override",
			mutate: func(ts *Tileset) { ts.Tiles[1].ID = ts.Tiles[0].ID },
			code:   IssueDuplicateTile,
		},
		{
			name:   "wang tile out of range",
			mutate: func(ts *Tileset) { ts.WangSets[0].Tiles[0].TileID = 600 },
			code:   IssueTileRange,
		},
		{
			name:   "duplicate wang tile",
			mutate: func(ts *Tileset) { ts.WangSets[1].Tiles[1].TileID = ts.WangSets[1].Tiles[0].TileID },
			code:   IssueDuplicateTile,
		},
		{
			name:   "undeclared wang color",
			mutate: func(ts *Tileset) { ts.WangSets[2].Tiles[0].WangID[4] = 2 },
			code:   IssueWangIDColor,
		},
		{
			name:   "unknown wang set type",
			mutate: func(ts *Tileset) { ts.WangSets[0].Type = "diagonal" },
			code:   IssueWangSetType,
		},
		{
			name:   "wang set tile out of range",
			mutate: func(ts *Tileset) { ts.WangSets[0].Tile = 1000 },
			code:   IssueWangSetTile,
		},
		{
			name: "nan probability",
			mutate: func(ts *Tileset) {
				p := math.NaN()
				ts.Tiles[1].Probability = &p
			},
			code: IssueProbability,
		},
		{
			name:   "nan color probability",
			mutate: func(ts *Tileset) { ts.WangSets[1].Colors[0].Probability = math.NaN() },
			code:   IssueWangColorProb,
		},
		{
			name:   "infinite color probability",
			mutate: func(ts *Tileset) { ts.WangSets[2].Colors[0].Probability = math.Inf(1) },
			code:   IssueWangColorProb,
		},
		{
			name:   "negative color probability",
			mutate: func(ts *Tileset) { ts.WangSets[0].Colors[0].Probability = -1 },
			code:   IssueWangColorProb,
		},
		{
			name:   "zero columns",
			mutate: func(ts *Tileset) { ts.Columns = 0 },
			code:   IssueColumns,
		},
		{
			name:   "tile count not a multiple of columns",
			mutate: func(ts *Tileset) { ts.TileCount = 527 },
			code:   IssueTileCount,
		},
		{
			name:   "image too short",
			mutate: func(ts *Tileset) { ts.Image.Height = 552 },
			code:   IssueImageHeight,
		},
		{
			name:   "image too narrow",
			mutate: func(ts *Tileset) { ts.Image.Width = 500 },
			code:   IssueImageWidth,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ts := parseDefault(t)
			tt.mutate(ts)

			report := Validate(ts)
			require.True(t, report.HasCode(tt.code), "issues: %v", report.Issues)

			found := false
			for _, issue := range report.Errors() {
				if issue.Code == tt.code {
					found = true
				}
			}
			require.True(t, found)

			err := report.Err()
			require.Error(t, err)
			require.True(t, errors.Is(err, errorx.New(errorx.InvalidTileset, "")))
		})
	}
}

func TestValidate_WangTypeMisuse(t *testing.T) {
	ts := parseDefault(t)
	ts.WangSets[0].Type = WangSetCorner

	report := Validate(ts)
	require.NoError(t, report.Err())
	require.True(t, report.HasCode(IssueWangIDTypeMisuse))
}

func TestValidate_ParsedNaNProbability(t *testing.T) {
	ts, err := ParseBytes([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<tileset version="1.10" name="nan" tilewidth="24" tileheight="24" tilecount="4" columns="2">
 <image source="nan.png" width="48" height="48"/>
 <tile id="0" probability="NaN"/>
</tileset>
`))
	require.NoError(t, err)

	report := Validate(ts)
	require.True(t, report.HasCode(IssueProbability))
	require.Error(t, report.Err())
}
