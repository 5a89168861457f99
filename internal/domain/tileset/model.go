package tileset

import (
	"encoding/xml"
)

// Tileset is a Tiled external tileset (.tsx). Values are treated as read-only once
// parsed.
type Tileset struct {
	XMLName      xml.Name   `xml:"tileset" json:"-"`
	Version      string     `xml:"version,attr,omitempty" json:"version,omitempty"`
	TiledVersion string     `xml:"tiledversion,attr,omitempty" json:"tiledversion,omitempty"`
	Name         string     `xml:"name,attr" json:"name"`
	TileWidth    int        `xml:"tilewidth,attr" json:"tilewidth"`
	TileHeight   int        `xml:"tileheight,attr" json:"tileheight"`
	Spacing      int        `xml:"spacing,attr,omitempty" json:"spacing,omitempty"`
	Margin       int        `xml:"margin,attr,omitempty" json:"margin,omitempty"`
	TileCount    int        `xml:"tilecount,attr" json:"tilecount"`
	Columns      int        `xml:"columns,attr" json:"columns"`
	Properties   []Property `xml:"properties>property" json:"properties,omitempty"`
	Image        Image      `xml:"image" json:"image"`
	Tiles        []Tile     `xml:"tile" json:"tiles,omitempty"`
	WangSets     []WangSet  `xml:"wangsets>wangset" json:"wangsets,omitempty"`
}

type Image struct {
	Source string `xml:"source,attr" json:"source"`
	Width  int    `xml:"width,attr" json:"width"`
	Height int    `xml:"height,attr" json:"height"`
}

// Tile holds per-tile overrides. A nil Probability means the Tiled default of 1.
type Tile struct {
	ID          int        `xml:"id,attr" json:"id"`
	Probability *float64   `xml:"probability,attr" json:"probability,omitempty"`
	Properties  []Property `xml:"properties>property" json:"properties,omitempty"`
}

type Property struct {
	Name  string `xml:"name,attr" json:"name"`
	Type  string `xml:"type,attr,omitempty" json:"type,omitempty"`
	Value string `xml:"value,attr" json:"value"`
}

const (
	WangSetCorner = "corner"
	WangSetEdge   = "edge"
	WangSetMixed  = "mixed"
)

type WangSet struct {
	Name   string      `xml:"name,attr" json:"name"`
	Type   string      `xml:"type,attr" json:"type"`
	Tile   int         `xml:"tile,attr" json:"tile"`
	Colors []WangColor `xml:"wangcolor" json:"colors"`
	Tiles  []WangTile  `xml:"wangtile" json:"wangtiles"`
}

type WangColor struct {
	Name        string  `xml:"name,attr" json:"name"`
	Color       string  `xml:"color,attr" json:"color"`
	Tile        int     `xml:"tile,attr" json:"tile"`
	Probability float64 `xml:"probability,attr" json:"probability"`
}

type WangTile struct {
	TileID int    `xml:"tileid,attr" json:"tileid"`
	WangID WangID `xml:"wangid,attr" json:"wangid"`
}

// DefaultProbability is the weight of a tile without an override.
const DefaultProbability = 1.0

func (t *Tileset) Rows() int {
	if t.Columns <= 0 {
		return 0
	}

	return t.TileCount / t.Columns
}

func (t *Tileset) HasTile(id int) bool {
	return id >= 0 && id < t.TileCount
}

// Tile returns the override entry of id, if any.
func (t *Tileset) Tile(id int) (*Tile, bool) {
	for i := range t.Tiles {
		if t.Tiles[i].ID == id {
			return &t.Tiles[i], true
		}
	}

	return nil, false
}

// Probability returns the relative spawn weight of tile id.
func (t *Tileset) Probability(id int) float64 {
	if tile, ok := t.Tile(id); ok && tile.Probability != nil {
		return *tile.Probability
	}

	return DefaultProbability
}

// ProbabilityOverrides returns the explicit weights keyed by tile id.
func (t *Tileset) ProbabilityOverrides() map[int]float64 {
	m := make(map[int]float64)
	for _, tile := range t.Tiles {
		if tile.Probability != nil {
			m[tile.ID] = *tile.Probability
		}
	}

	return m
}

func (t *Tileset) WangSet(name string) (*WangSet, bool) {
	for i := range t.WangSets {
		if t.WangSets[i].Name == name {
			return &t.WangSets[i], true
		}
	}

	return nil, false
}

func (t *Tileset) WangSetNames() []string {
	names := make([]string, 0, len(t.WangSets))
	for _, ws := range t.WangSets {
		names = append(names, ws.Name)
	}

	return names
}

// WangIDOf returns the wang id assigned to tileID in this set.
func (ws *WangSet) WangIDOf(tileID int) (WangID, bool) {
	for _, wt := range ws.Tiles {
		if wt.TileID == tileID {
			return wt.WangID, true
		}
	}

	return WangID{}, false
}

// Color returns the color of a 1-based wang color index.
func (ws *WangSet) Color(index int) (*WangColor, bool) {
	if index < 1 || index > len(ws.Colors) {
		return nil, false
	}

	return &ws.Colors[index-1], true
}

type Summary struct {
	Name         string   `json:"name"`
	TileWidth    int      `json:"tile_width"`
	TileHeight   int      `json:"tile_height"`
	TileCount    int      `json:"tile_count"`
	Columns      int      `json:"columns"`
	Rows         int      `json:"rows"`
	Image        string   `json:"image"`
	Overrides    int      `json:"probability_overrides"`
	WangSets     []string `json:"wang_sets"`
	WangTiles    int      `json:"wang_tiles"`
	TiledVersion string   `json:"tiled_version"`
}

func (t *Tileset) Summary() Summary {
	wangTiles := 0
	for _, ws := range t.WangSets {
		wangTiles += len(ws.Tiles)
	}

	return Summary{
		Name:         t.Name,
		TileWidth:    t.TileWidth,
		TileHeight:   t.TileHeight,
		TileCount:    t.TileCount,
		Columns:      t.Columns,
		Rows:         t.Rows(),
		Image:        t.Image.Source,
		Overrides:    len(t.ProbabilityOverrides()),
		WangSets:     t.WangSetNames(),
		WangTiles:    wangTiles,
		TiledVersion: t.TiledVersion,
	}
}
