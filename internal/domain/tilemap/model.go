package tilemap

import (
	"encoding/json"
)

const (
	LayerTile   = "tilelayer"
	LayerObject = "objectgroup"
	LayerGroup  = "group"
	LayerImage  = "imagelayer"
)

// Map is a Tiled map in its JSON format.
type Map struct {
	Type         string       `json:"type,omitempty"`
	Version      string       `json:"version,omitempty"`
	TiledVersion string       `json:"tiledversion,omitempty"`
	Orientation  string       `json:"orientation"`
	RenderOrder  string       `json:"renderorder,omitempty"`
	Infinite     bool         `json:"infinite"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	TileWidth    int          `json:"tilewidth"`
	TileHeight   int          `json:"tileheight"`
	NextLayerID  int          `json:"nextlayerid,omitempty"`
	NextObjectID int          `json:"nextobjectid,omitempty"`
	Tilesets     []TilesetRef `json:"tilesets"`
	Layers       []*Layer     `json:"layers"`
	Properties   []Property   `json:"properties,omitempty"`
}

// TilesetRef points at an external tileset. Local tile ids of the tileset start
// at FirstGID in the map.
type TilesetRef struct {
	FirstGID int    `json:"firstgid"`
	Source   string `json:"source"`
}

type Layer struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Visible     bool            `json:"visible"`
	Opacity     float64         `json:"opacity"`
	X           int             `json:"x"`
	Y           int             `json:"y"`
	Width       int             `json:"width,omitempty"`
	Height      int             `json:"height,omitempty"`
	Encoding    string          `json:"encoding,omitempty"`
	Compression string          `json:"compression,omitempty"`
	RawData     json.RawMessage `json:"data,omitempty"`
	DrawOrder   string          `json:"draworder,omitempty"`
	Objects     []*Object       `json:"objects,omitempty"`
	Layers      []*Layer        `json:"layers,omitempty"`
	Properties  []Property      `json:"properties,omitempty"`

	// GIDs holds the decoded data of a tile layer, flip flags included.
	GIDs []uint32 `json:"-"`
}

type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Flip flags stored in the upper bits of a gid.
const (
	FlipHorizontal uint32 = 0x80000000
	FlipVertical   uint32 = 0x40000000
	FlipDiagonal   uint32 = 0x20000000
	RotateHex120   uint32 = 0x10000000

	flagMask = FlipHorizontal | FlipVertical | FlipDiagonal | RotateHex120
)

// ClearFlags strips the flip flags of a gid.
func ClearFlags(gid uint32) uint32 {
	return gid &^ flagMask
}

// Flags returns the flip flags of a gid.
func Flags(gid uint32) uint32 {
	return gid & flagMask
}

func (m *Map) PixelSize() (int, int) {
	return m.Width * m.TileWidth, m.Height * m.TileHeight
}

// Layer finds a layer by name, searching inside groups too.
func (m *Map) Layer(name string) (*Layer, bool) {
	return findLayer(m.Layers, name)
}

func findLayer(layers []*Layer, name string) (*Layer, bool) {
	for _, l := range layers {
		if l.Name == name {
			return l, true
		}

		if l.Type == LayerGroup {
			if found, ok := findLayer(l.Layers, name); ok {
				return found, true
			}
		}
	}

	return nil, false
}

// AllLayers flattens groups in drawing order.
func (m *Map) AllLayers() []*Layer {
	var out []*Layer
	var walk func(layers []*Layer)
	walk = func(layers []*Layer) {
		for _, l := range layers {
			out = append(out, l)
			if l.Type == LayerGroup {
				walk(l.Layers)
			}
		}
	}

	walk(m.Layers)
	return out
}

// TileAt returns the gid at cell (x, y) of a tile layer with flip flags removed.
// 0 means an empty cell.
func (m *Map) TileAt(layerName string, x, y int) (uint32, bool) {
	l, ok := m.Layer(layerName)
	if !ok || l.Type != LayerTile {
		return 0, false
	}

	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0, false
	}

	return ClearFlags(l.GIDs[y*l.Width+x]), true
}

// LocalTile maps a gid to the tileset it belongs to and the tile id inside it.
func (m *Map) LocalTile(gid uint32) (TilesetRef, int, bool) {
	gid = ClearFlags(gid)
	if gid == 0 {
		return TilesetRef{}, 0, false
	}

	var best TilesetRef
	found := false
	for _, ts := range m.Tilesets {
		if uint32(ts.FirstGID) <= gid && (!found || ts.FirstGID > best.FirstGID) {
			best = ts
			found = true
		}
	}

	if !found {
		return TilesetRef{}, 0, false
	}

	return best, int(gid) - best.FirstGID, true
}

// Objects returns the objects of every object layer.
func (m *Map) Objects() []*Object {
	var objects []*Object
	for _, l := range m.AllLayers() {
		if l.Type == LayerObject {
			objects = append(objects, l.Objects...)
		}
	}

	return objects
}
