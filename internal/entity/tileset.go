package entity

import "github.com/questx-lab/tileset/pkg/enum"

type Tileset struct {
	Base
	Name         string `gorm:"unique"`
	TiledVersion string
	TileWidth    int
	TileHeight   int
	TileCount    int
	Columns      int
	Spacing      int
	Margin       int
	ImageSource  string
	ImageWidth   int
	ImageHeight  int
	Properties   Map

	// Object storage keys of the uploaded files.
	TSXPath   string `gorm:"column:tsx_path"`
	ImagePath string `gorm:"column:image_path"`

	// Content is the raw TSX document.
	Content []byte `gorm:"type:longblob"`
}

type WangSetType string

var (
	WangSetCorner = enum.New(WangSetType("corner"), "corner")
	WangSetEdge   = enum.New(WangSetType("edge"), "edge")
	WangSetMixed  = enum.New(WangSetType("mixed"), "mixed")
)

type WangSet struct {
	Base
	TilesetID string
	Tileset   Tileset `gorm:"foreignKey:TilesetID"`
	Name      string
	Position  int
	Type      WangSetType
	Tile      int
	Colors    Array[string]
	TileCount int
}
