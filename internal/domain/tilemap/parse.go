package tilemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseMap reads a map in the Tiled JSON format.
func ParseMap(jsonContent []byte) (*Map, error) {
	m := &Map{}
	if err := json.Unmarshal(jsonContent, m); err != nil {
		return nil, err
	}

	if err := m.check(); err != nil {
		return nil, err
	}

	return m, nil
}

// ParseMapFile reads a map file, TMX when the extension is .tmx and JSON
// otherwise.
func ParseMapFile(path string) (*Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m *Map
	if strings.EqualFold(filepath.Ext(path), ".tmx") {
		m, err = ParseTMX(b)
	} else {
		m, err = ParseMap(b)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// check validates the map header and decodes the tile layers not decoded yet.
func (m *Map) check() error {
	if m.Width <= 0 || m.Height <= 0 {
		return errors.New("invalid map size")
	}

	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return errors.New("invalid map tile size")
	}

	if m.Infinite {
		return errors.New("infinite maps are not supported")
	}

	if len(m.Layers) == 0 {
		return errors.New("invalid map layers")
	}

	for _, l := range m.AllLayers() {
		if l.Type != LayerTile {
			continue
		}

		if l.GIDs == nil {
			gids, err := decodeData(l)
			if err != nil {
				return fmt.Errorf("layer %s: %w", l.Name, err)
			}
			l.GIDs = gids
		}

		if len(l.GIDs) != l.Width*l.Height {
			return fmt.Errorf("layer %s: invalid number of elements in layer data", l.Name)
		}
	}

	return nil
}
