package tilemap

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NewMap returns an empty orthogonal map using one external tileset.
func NewMap(width, height, tileWidth, tileHeight int, tilesetSource string) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid map size")
	}

	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, errors.New("invalid map tile size")
	}

	return &Map{
		Type:         "map",
		Version:      "1.10",
		Orientation:  "orthogonal",
		RenderOrder:  "right-down",
		Width:        width,
		Height:       height,
		TileWidth:    tileWidth,
		TileHeight:   tileHeight,
		NextLayerID:  1,
		NextObjectID: 1,
		Tilesets:     []TilesetRef{{FirstGID: 1, Source: tilesetSource}},
	}, nil
}

// AddTileLayer appends a layer of local tile ids of the first tileset. Negative
// ids are empty cells.
func (m *Map) AddTileLayer(name string, tiles []int, encoding, compression string) (*Layer, error) {
	if len(tiles) != m.Width*m.Height {
		return nil, fmt.Errorf("layer %s has %d tiles, map has %d cells", name, len(tiles), m.Width*m.Height)
	}

	if len(m.Tilesets) == 0 {
		return nil, errors.New("map has no tileset")
	}

	firstGID := m.Tilesets[0].FirstGID
	gids := make([]uint32, len(tiles))
	for i, id := range tiles {
		if id >= 0 {
			gids[i] = uint32(firstGID + id)
		}
	}

	l := &Layer{
		ID:          m.NextLayerID,
		Name:        name,
		Type:        LayerTile,
		Visible:     true,
		Opacity:     1,
		Width:       m.Width,
		Height:      m.Height,
		Encoding:    encoding,
		Compression: compression,
	}
	if err := encodeData(l, gids); err != nil {
		return nil, err
	}

	m.NextLayerID++
	m.Layers = append(m.Layers, l)
	return l, nil
}

// AddObjectLayer appends an object layer and assigns object ids.
func (m *Map) AddObjectLayer(name string, objects []*Object) *Layer {
	for _, o := range objects {
		o.ID = m.NextObjectID
		m.NextObjectID++
	}

	l := &Layer{
		ID:        m.NextLayerID,
		Name:      name,
		Type:      LayerObject,
		Visible:   true,
		Opacity:   1,
		DrawOrder: "topdown",
		Objects:   objects,
	}

	m.NextLayerID++
	m.Layers = append(m.Layers, l)
	return l
}

func (m *Map) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", " ")
}
