package tilemap

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type tmxMap struct {
	XMLName      xml.Name        `xml:"map"`
	Version      string          `xml:"version,attr"`
	TiledVersion string          `xml:"tiledversion,attr"`
	Orientation  string          `xml:"orientation,attr"`
	RenderOrder  string          `xml:"renderorder,attr"`
	Width        int             `xml:"width,attr"`
	Height       int             `xml:"height,attr"`
	TileWidth    int             `xml:"tilewidth,attr"`
	TileHeight   int             `xml:"tileheight,attr"`
	Infinite     int             `xml:"infinite,attr"`
	NextLayerID  int             `xml:"nextlayerid,attr"`
	NextObjectID int             `xml:"nextobjectid,attr"`
	Tilesets     []tmxTilesetRef `xml:"tileset"`
	Properties   *tmxProperties  `xml:"properties"`
	Layers       []tmxLayer      `xml:",any"`
}

type tmxTilesetRef struct {
	FirstGID int    `xml:"firstgid,attr"`
	Source   string `xml:"source,attr"`
}

// tmxLayer is the union of the layer elements. Nested elements that are not
// layers land in Layers too and are dropped by their name.
type tmxLayer struct {
	XMLName    xml.Name
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Visible    *bool          `xml:"visible,attr"`
	Opacity    *float64       `xml:"opacity,attr"`
	X          int            `xml:"x,attr"`
	Y          int            `xml:"y,attr"`
	Width      int            `xml:"width,attr"`
	Height     int            `xml:"height,attr"`
	DrawOrder  string         `xml:"draworder,attr"`
	Properties *tmxProperties `xml:"properties"`
	Data       *tmxData       `xml:"data"`
	Objects    []tmxObject    `xml:"object"`
	Layers     []tmxLayer     `xml:",any"`
}

type tmxData struct {
	Encoding    string `xml:"encoding,attr"`
	Compression string `xml:"compression,attr"`
	Text        string `xml:",chardata"`
	Tiles       []struct {
		GID uint32 `xml:"gid,attr"`
	} `xml:"tile"`
	Chunks []struct{} `xml:"chunk"`
}

type tmxObject struct {
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	Class      string         `xml:"class,attr"`
	X          float64        `xml:"x,attr"`
	Y          float64        `xml:"y,attr"`
	Width      float64        `xml:"width,attr"`
	Height     float64        `xml:"height,attr"`
	Rotation   float64        `xml:"rotation,attr"`
	GID        uint32         `xml:"gid,attr"`
	Visible    *bool          `xml:"visible,attr"`
	Point      *struct{}      `xml:"point"`
	Properties *tmxProperties `xml:"properties"`
}

type tmxProperties struct {
	Property []tmxProperty `xml:"property"`
}

type tmxProperty struct {
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	Value      *string        `xml:"value,attr"`
	Text       string         `xml:",chardata"`
	Properties *tmxProperties `xml:"properties"`
}

var tmxLayerTypes = map[string]string{
	"layer":       LayerTile,
	"objectgroup": LayerObject,
	"group":       LayerGroup,
	"imagelayer":  LayerImage,
}

// ParseTMX reads a map in the Tiled XML format into the same model as
// ParseMap.
func ParseTMX(content []byte) (*Map, error) {
	var tm tmxMap
	if err := xml.Unmarshal(content, &tm); err != nil {
		return nil, err
	}

	m := &Map{
		Type:         "map",
		Version:      tm.Version,
		TiledVersion: tm.TiledVersion,
		Orientation:  tm.Orientation,
		RenderOrder:  tm.RenderOrder,
		Infinite:     tm.Infinite != 0,
		Width:        tm.Width,
		Height:       tm.Height,
		TileWidth:    tm.TileWidth,
		TileHeight:   tm.TileHeight,
		NextLayerID:  tm.NextLayerID,
		NextObjectID: tm.NextObjectID,
	}

	for _, ts := range tm.Tilesets {
		m.Tilesets = append(m.Tilesets, TilesetRef{FirstGID: ts.FirstGID, Source: ts.Source})
	}

	props, err := convertTMXProperties(tm.Properties)
	if err != nil {
		return nil, err
	}
	m.Properties = props

	m.Layers, err = convertTMXLayers(tm.Layers)
	if err != nil {
		return nil, err
	}

	if err := m.check(); err != nil {
		return nil, err
	}

	return m, nil
}

func convertTMXLayers(layers []tmxLayer) ([]*Layer, error) {
	var out []*Layer
	for _, tl := range layers {
		kind, ok := tmxLayerTypes[tl.XMLName.Local]
		if !ok {
			continue
		}

		l := &Layer{
			ID:        tl.ID,
			Name:      tl.Name,
			Type:      kind,
			Visible:   tl.Visible == nil || *tl.Visible,
			Opacity:   1,
			X:         tl.X,
			Y:         tl.Y,
			DrawOrder: tl.DrawOrder,
		}
		if tl.Opacity != nil {
			l.Opacity = *tl.Opacity
		}

		props, err := convertTMXProperties(tl.Properties)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", tl.Name, err)
		}
		l.Properties = props

		switch kind {
		case LayerTile:
			l.Width, l.Height = tl.Width, tl.Height
			if tl.Data == nil {
				return nil, fmt.Errorf("layer %s: missing layer data", tl.Name)
			}

			gids, err := decodeTMXData(tl.Data)
			if err != nil {
				return nil, fmt.Errorf("layer %s: %w", tl.Name, err)
			}

			l.Encoding, l.Compression = tl.Data.Encoding, tl.Data.Compression
			if err := encodeData(l, gids); err != nil {
				return nil, fmt.Errorf("layer %s: %w", tl.Name, err)
			}

		case LayerObject:
			for _, to := range tl.Objects {
				o, err := convertTMXObject(to)
				if err != nil {
					return nil, fmt.Errorf("layer %s: %w", tl.Name, err)
				}
				l.Objects = append(l.Objects, o)
			}

		case LayerGroup:
			l.Layers, err = convertTMXLayers(tl.Layers)
			if err != nil {
				return nil, err
			}
		}

		out = append(out, l)
	}

	return out, nil
}

func decodeTMXData(d *tmxData) ([]uint32, error) {
	if len(d.Chunks) > 0 {
		return nil, errors.New("chunked layer data is not supported")
	}

	switch d.Encoding {
	case "":
		gids := make([]uint32, len(d.Tiles))
		for i, t := range d.Tiles {
			gids[i] = t.GID
		}

		return gids, nil

	case EncodingCSV:
		fields := strings.Split(strings.TrimSpace(d.Text), ",")
		gids := make([]uint32, 0, len(fields))
		for _, f := range fields {
			gid, err := strconv.ParseUint(strings.TrimSpace(f), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid csv layer data: %w", err)
			}
			gids = append(gids, uint32(gid))
		}

		return gids, nil

	case EncodingBase64:
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(d.Text))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 layer data: %w", err)
		}

		raw, err = Decompress(d.Compression, raw)
		if err != nil {
			return nil, err
		}

		if len(raw)%4 != 0 {
			return nil, fmt.Errorf("layer data has %d bytes, not a multiple of 4", len(raw))
		}

		gids := make([]uint32, len(raw)/4)
		if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, gids); err != nil {
			return nil, err
		}

		return gids, nil
	}

	return nil, fmt.Errorf("unsupported layer encoding %q", d.Encoding)
}

func convertTMXObject(to tmxObject) (*Object, error) {
	props, err := convertTMXProperties(to.Properties)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", to.ID, err)
	}

	return &Object{
		ID:         to.ID,
		Name:       to.Name,
		Type:       to.Type,
		Class:      to.Class,
		X:          to.X,
		Y:          to.Y,
		Width:      to.Width,
		Height:     to.Height,
		Rotation:   to.Rotation,
		GID:        to.GID,
		Visible:    to.Visible == nil || *to.Visible,
		Point:      to.Point != nil,
		Properties: props,
	}, nil
}

// convertTMXProperties types the property values the way the JSON format
// carries them: numbers as float64, booleans as bool.
func convertTMXProperties(tp *tmxProperties) ([]Property, error) {
	if tp == nil {
		return nil, nil
	}

	var out []Property
	for _, p := range tp.Property {
		raw := p.Text
		if p.Value != nil {
			raw = *p.Value
		}

		prop := Property{Name: p.Name, Type: p.Type}
		if prop.Type == "" {
			prop.Type = "string"
		}

		switch prop.Type {
		case "int", "float", "object":
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", p.Name, err)
			}
			prop.Value = v

		case "bool":
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", p.Name, err)
			}
			prop.Value = v

		case "class":
			members, err := convertTMXProperties(p.Properties)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", p.Name, err)
			}

			value := make(map[string]any, len(members))
			for _, member := range members {
				value[member.Name] = member.Value
			}
			prop.Value = value

		default:
			prop.Value = raw
		}

		out = append(out, prop)
	}

	return out, nil
}
