package tileset

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

type attr struct {
	name  string
	value string
}

// tsxWriter writes elements the way Tiled lays them out: one space per level and
// self-closing empty elements. encoding/xml always emits explicit end tags.
type tsxWriter struct {
	w     *bufio.Writer
	depth int
}

func (e *tsxWriter) indent() {
	for i := 0; i < e.depth; i++ {
		e.w.WriteByte(' ')
	}
}

// start writes an opening tag. Empty elements are closed immediately and do not
// need a matching end call.
func (e *tsxWriter) start(name string, attrs []attr, empty bool) {
	e.indent()
	e.w.WriteByte('<')
	e.w.WriteString(name)
	for _, a := range attrs {
		e.w.WriteByte(' ')
		e.w.WriteString(a.name)
		e.w.WriteString(`="`)
		e.w.WriteString(escapeAttr(a.value))
		e.w.WriteByte('"')
	}

	if empty {
		e.w.WriteString("/>\n")
		return
	}

	e.w.WriteString(">\n")
	e.depth++
}

func (e *tsxWriter) end(name string) {
	e.depth--
	e.indent()
	e.w.WriteString("</")
	e.w.WriteString(name)
	e.w.WriteString(">\n")
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", "&#10;",
)

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// Encode writes ts in the TSX layout Tiled produces.
func Encode(w io.Writer, ts *Tileset) error {
	e := &tsxWriter{w: bufio.NewWriter(w)}
	e.w.WriteString(xmlHeader)

	attrs := []attr{}
	if ts.Version != "" {
		attrs = append(attrs, attr{"version", ts.Version})
	}
	if ts.TiledVersion != "" {
		attrs = append(attrs, attr{"tiledversion", ts.TiledVersion})
	}
	attrs = append(attrs,
		attr{"name", ts.Name},
		attr{"tilewidth", itoa(ts.TileWidth)},
		attr{"tileheight", itoa(ts.TileHeight)},
	)
	if ts.Spacing != 0 {
		attrs = append(attrs, attr{"spacing", itoa(ts.Spacing)})
	}
	if ts.Margin != 0 {
		attrs = append(attrs, attr{"margin", itoa(ts.Margin)})
	}
	attrs = append(attrs,
		attr{"tilecount", itoa(ts.TileCount)},
		attr{"columns", itoa(ts.Columns)},
	)

	e.start("tileset", attrs, false)
	e.properties(ts.Properties)
	e.start("image", []attr{
		{"source", ts.Image.Source},
		{"width", itoa(ts.Image.Width)},
		{"height", itoa(ts.Image.Height)},
	}, true)

	for _, tile := range ts.Tiles {
		attrs := []attr{{"id", itoa(tile.ID)}}
		if tile.Probability != nil {
			attrs = append(attrs, attr{"probability", formatFloat(*tile.Probability)})
		}

		empty := len(tile.Properties) == 0
		e.start("tile", attrs, empty)
		if !empty {
			e.properties(tile.Properties)
			e.end("tile")
		}
	}

	if len(ts.WangSets) > 0 {
		e.start("wangsets", nil, false)
		for _, ws := range ts.WangSets {
			e.wangSet(ws)
		}
		e.end("wangsets")
	}

	e.end("tileset")
	return e.w.Flush()
}

func (e *tsxWriter) properties(props []Property) {
	if len(props) == 0 {
		return
	}

	e.start("properties", nil, false)
	for _, p := range props {
		attrs := []attr{{"name", p.Name}}
		if p.Type != "" && p.Type != "string" {
			attrs = append(attrs, attr{"type", p.Type})
		}
		attrs = append(attrs, attr{"value", p.Value})
		e.start("property", attrs, true)
	}
	e.end("properties")
}

func (e *tsxWriter) wangSet(ws WangSet) {
	empty := len(ws.Colors) == 0 && len(ws.Tiles) == 0
	e.start("wangset", []attr{
		{"name", ws.Name},
		{"type", ws.Type},
		{"tile", itoa(ws.Tile)},
	}, empty)
	if empty {
		return
	}

	for _, c := range ws.Colors {
		e.start("wangcolor", []attr{
			{"name", c.Name},
			{"color", c.Color},
			{"tile", itoa(c.Tile)},
			{"probability", formatFloat(c.Probability)},
		}, true)
	}

	for _, wt := range ws.Tiles {
		e.start("wangtile", []attr{
			{"tileid", itoa(wt.TileID)},
			{"wangid", wt.WangID.String()},
		}, true)
	}

	e.end("wangset")
}

func (t *Tileset) MarshalTSX() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
