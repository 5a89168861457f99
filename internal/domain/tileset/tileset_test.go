package tileset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/questx-lab/tileset/assets"
	"github.com/stretchr/testify/require"
)

func parseDefault(t *testing.T) *Tileset {
	ts, err := ParseBytes(assets.DefaultTileset)
	require.NoError(t, err)
	return ts
}

func TestParse_DefaultTileset(t *testing.T) {
	ts := parseDefault(t)

	require.Equal(t, "StarRealmsCozyForestPack24x24", ts.Name)
	require.Equal(t, "1.10", ts.Version)
	require.Equal(t, "1.10.2", ts.TiledVersion)
	require.Equal(t, 24, ts.TileWidth)
	require.Equal(t, 24, ts.TileHeight)
	require.Equal(t, 528, ts.TileCount)
	require.Equal(t, 22, ts.Columns)
	require.Equal(t, 24, ts.Rows())
	require.Equal(t, Image{Source: "../Textures/StarRealmsCozyForestPack24x24.png", Width: 550, Height: 576}, ts.Image)

	require.Len(t, ts.Tiles, 15)
	require.Len(t, ts.ProbabilityOverrides(), 15)
	require.Equal(t, 0.96, ts.Probability(89))
	require.Equal(t, 0.005, ts.Probability(73))
	require.Equal(t, 1.0, ts.Probability(0))

	require.Equal(t, []string{"Grass", "Path", "Water"}, ts.WangSetNames())

	grass, ok := ts.WangSet("Grass")
	require.True(t, ok)
	require.Equal(t, WangSetMixed, grass.Type)
	require.Equal(t, 89, grass.Tile)
	require.Len(t, grass.Tiles, 25)
	require.Equal(t, []WangColor{{Name: "", Color: "#ff0000", Tile: -1, Probability: 1}}, grass.Colors)

	id, ok := grass.WangIDOf(70)
	require.True(t, ok)
	require.Equal(t, WangID{1, 0, 1, 1, 1, 1, 1, 1}, id)

	_, ok = grass.WangIDOf(500)
	require.False(t, ok)

	_, ok = ts.WangSet("Lava")
	require.False(t, ok)

	summary := ts.Summary()
	require.Equal(t, 51, summary.WangTiles)
	require.Equal(t, 15, summary.Overrides)
	require.Equal(t, 24, summary.Rows)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{name: "not xml", data: "tileset"},
		{name: "wrong root", data: `<map tilewidth="1" tileheight="1"><image source="a.png"/></map>`},
		{name: "no tile size", data: `<tileset name="a"><image source="a.png"/></tileset>`},
		{name: "no image", data: `<tileset name="a" tilewidth="8" tileheight="8"></tileset>`},
		{
			name: "short wang id",
			data: `<tileset tilewidth="8" tileheight="8"><image source="a.png"/><wangsets>` +
				`<wangset name="a" type="corner" tile="-1"><wangtile tileid="0" wangid="1,1"/></wangset>` +
				`</wangsets></tileset>`,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), assets.DefaultTilesetName)
	require.NoError(t, os.WriteFile(path, assets.DefaultTileset, 0o644))

	ts, err := ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, 528, ts.TileCount)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.tsx"))
	require.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	ts := parseDefault(t)

	b, err := ts.MarshalTSX()
	require.NoError(t, err)
	require.Equal(t, string(assets.DefaultTileset), string(b))
}

const handmadeTSX = `<?xml version="1.0" encoding="UTF-8"?>
<tileset version="1.10" name="t&amp;s" tilewidth="16" tileheight="16" spacing="1" margin="2" tilecount="4" columns="2">
 <properties>
  <property name="biome" value="forest"/>
  <property name="solid" type="bool" value="true"/>
 </properties>
 <image source="t.png" width="37" height="37"/>
 <tile id="1" probability="0.5">
  <properties>
   <property name="kind" value="&quot;rock&quot;"/>
  </properties>
 </tile>
 <tile id="2"/>
 <wangsets>
  <wangset name="Empty" type="corner" tile="-1"/>
 </wangsets>
</tileset>
`

func TestEncode_Layout(t *testing.T) {
	half := 0.5
	ts := &Tileset{
		Version:    "1.10",
		Name:       "t&s",
		TileWidth:  16,
		TileHeight: 16,
		Spacing:    1,
		Margin:     2,
		TileCount:  4,
		Columns:    2,
		Properties: []Property{
			{Name: "biome", Value: "forest"},
			{Name: "solid", Type: "bool", Value: "true"},
		},
		Image: Image{Source: "t.png", Width: 37, Height: 37},
		Tiles: []Tile{
			{ID: 1, Probability: &half, Properties: []Property{{Name: "kind", Value: `"rock"`}}},
			{ID: 2},
		},
		WangSets: []WangSet{{Name: "Empty", Type: WangSetCorner, Tile: -1}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ts))
	require.Equal(t, handmadeTSX, buf.String())

	parsed, err := ParseBytes(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "t&s", parsed.Name)
	require.Equal(t, `"rock"`, parsed.Tiles[0].Properties[0].Value)

	again, err := parsed.MarshalTSX()
	require.NoError(t, err)
	require.Equal(t, handmadeTSX, string(again))

	require.Empty(t, Validate(parsed).Issues)
}

func TestFormatFloat(t *testing.T) {
	require.Equal(t, "0.01", formatFloat(0.01))
	require.Equal(t, "0.005", formatFloat(0.005))
	require.Equal(t, "0.96", formatFloat(0.96))
	require.Equal(t, "1", formatFloat(1))
	require.Equal(t, "0", formatFloat(0))
}
