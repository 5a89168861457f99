package model

const (
	PaintInit  = "init"
	PaintCells = "cells"
	PaintError = "error"
)

// OpenPaintRequest is read from the query string of the websocket url.
type OpenPaintRequest struct {
	TilesetID string `json:"tileset_id"`
	WangSet   string `json:"wang_set"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`

	// Color initially fills every corner.
	Color int   `json:"color"`
	Seed  int64 `json:"seed"`
}

// PaintCommand sets one terrain corner.
type PaintCommand struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Color int `json:"color"`
}

type PaintCell struct {
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Tile  int  `json:"tile"`
	Exact bool `json:"exact"`
}

type PaintMessage struct {
	Type    string      `json:"type"`
	Session string      `json:"session,omitempty"`
	Width   int         `json:"width,omitempty"`
	Height  int         `json:"height,omitempty"`
	Tiles   [][]int     `json:"tiles,omitempty"`
	Cells   []PaintCell `json:"cells,omitempty"`
	Message string      `json:"message,omitempty"`
}
