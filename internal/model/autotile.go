package model

import "encoding/json"

type AutotileCell struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Tile int `json:"tile"`
}

type ResolveAutotileRequest struct {
	TilesetID string `json:"tileset_id"`
	WangSet   string `json:"wang_set"`

	// Corners has height+1 rows of width+1 wang colors.
	Corners [][]int `json:"corners"`
	Seed    int64   `json:"seed"`

	// WithMap also returns a Tiled json map holding the resolved layer.
	WithMap bool `json:"with_map"`
}

type ResolveAutotileResponse struct {
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Tiles   [][]int         `json:"tiles"`
	Inexact []AutotileCell  `json:"inexact"`
	Map     json.RawMessage `json:"map,omitempty"`
}

type RandomFillRequest struct {
	TilesetID string `json:"tileset_id"`

	// Either explicit tiles, or the interior tiles of a wang set color.
	Tiles   []int  `json:"tiles"`
	WangSet string `json:"wang_set"`
	Color   int    `json:"color"`

	Width  int   `json:"width"`
	Height int   `json:"height"`
	Seed   int64 `json:"seed"`
}

type RandomFillResponse struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Tiles  [][]int `json:"tiles"`
}
