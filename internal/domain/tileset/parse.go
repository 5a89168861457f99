package tileset

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// Parse decodes a TSX document. Elements the model does not know (tileoffset,
// grid, editorsettings) are ignored.
func Parse(r io.Reader) (*Tileset, error) {
	ts := &Tileset{}
	if err := xml.NewDecoder(r).Decode(ts); err != nil {
		return nil, fmt.Errorf("cannot decode tileset: %w", err)
	}

	if ts.TileWidth <= 0 || ts.TileHeight <= 0 {
		return nil, errors.New("tileset has no tile size")
	}

	if ts.Image.Source == "" {
		return nil, errors.New("tileset has no image source")
	}

	return ts, nil
}

func ParseBytes(b []byte) (*Tileset, error) {
	return Parse(bytes.NewReader(b))
}

func ParseFile(path string) (*Tileset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ts, nil
}
