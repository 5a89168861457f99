package tileset

import (
	"fmt"
	"math"
	"strings"

	"github.com/questx-lab/tileset/pkg/enum"
	"github.com/questx-lab/tileset/pkg/errorx"
)

type Severity string

var (
	SeverityError   = enum.New(Severity("error"), "error")
	SeverityWarning = enum.New(Severity("warning"), "warning")
)

const (
	IssueTileSize         = "tile_size"
	IssueColumns          = "columns"
	IssueTileCount        = "tile_count"
	IssueImageWidth       = "image_width"
	IssueImageHeight      = "image_height"
	IssueProbability      = "probability"
	IssueTileRange        = "tile_range"
	IssueDuplicateTile    = "duplicate_tile"
	IssueWangSetType      = "wangset_type"
	IssueWangSetTile      = "wangset_tile"
	IssueWangColor        = "wang_color"
	IssueWangColorProb    = "wang_color_probability"
	IssueWangIDColor      = "wangid_color"
	IssueWangIDTypeMisuse = "wangid_type"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", enum.ToString(i.Severity), i.Code, i.Message)
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) add(s Severity, code, format string, a ...any) {
	r.Issues = append(r.Issues, Issue{Severity: s, Code: code, Message: fmt.Sprintf(format, a...)})
}

func (r Report) Errors() []Issue {
	return r.filter(SeverityError)
}

func (r Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}

	return out
}

func (r Report) HasCode(code string) bool {
	for _, i := range r.Issues {
		if i.Code == code {
			return true
		}
	}

	return false
}

// Err returns an InvalidTileset error listing every error issue, or nil when the
// report only carries warnings.
func (r Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(errs))
	for _, i := range errs {
		msgs = append(msgs, i.Message)
	}

	return errorx.New(errorx.InvalidTileset, "Invalid tileset: %s", strings.Join(msgs, "; "))
}

// Validate checks the integrity of ts. Wang id length is enforced when parsing.
func Validate(ts *Tileset) Report {
	r := Report{}

	if ts.TileWidth <= 0 || ts.TileHeight <= 0 {
		r.add(SeverityError, IssueTileSize, "tile size %dx%d is not positive", ts.TileWidth, ts.TileHeight)
	}

	if ts.Columns <= 0 {
		r.add(SeverityError, IssueColumns, "columns %d is not positive", ts.Columns)
	} else if ts.TileCount <= 0 || ts.TileCount%ts.Columns != 0 {
		r.add(SeverityError, IssueTileCount, "tilecount %d is not a positive multiple of columns %d",
			ts.TileCount, ts.Columns)
	}

	if !r.HasCode(IssueTileSize) && !r.HasCode(IssueColumns) {
		validateImage(ts, &r)
	}

	seen := map[int]bool{}
	for _, tile := range ts.Tiles {
		if seen[tile.ID] {
			r.add(SeverityError, IssueDuplicateTile, "tile %d is declared twice", tile.ID)
		}
		seen[tile.ID] = true

		if !ts.HasTile(tile.ID) {
			r.add(SeverityError, IssueTileRange, "tile %d is outside [0, %d]", tile.ID, ts.TileCount-1)
		}

		if tile.Probability != nil && !inUnitRange(*tile.Probability) {
			r.add(SeverityError, IssueProbability, "tile %d probability %s is outside [0, 1]",
				tile.ID, formatFloat(*tile.Probability))
		}
	}

	for i := range ts.WangSets {
		validateWangSet(ts, &ts.WangSets[i], &r)
	}

	return r
}

func validateImage(ts *Tileset, r *Report) {
	rows := ts.Rows()
	wantWidth := 2*ts.Margin + ts.Columns*ts.TileWidth + (ts.Columns-1)*ts.Spacing
	wantHeight := 2*ts.Margin + rows*ts.TileHeight + (rows-1)*ts.Spacing

	// Tiled derives the column count from the image, ignoring a remainder smaller
	// than one tile.
	fitColumns := (ts.Image.Width - 2*ts.Margin + ts.Spacing) / (ts.TileWidth + ts.Spacing)
	fitRows := (ts.Image.Height - 2*ts.Margin + ts.Spacing) / (ts.TileHeight + ts.Spacing)

	switch {
	case fitColumns != ts.Columns:
		r.add(SeverityError, IssueImageWidth, "image width %d holds %d columns, tileset declares %d",
			ts.Image.Width, fitColumns, ts.Columns)
	case ts.Image.Width != wantWidth:
		r.add(SeverityWarning, IssueImageWidth, "image width %d differs from %d px of tiles",
			ts.Image.Width, wantWidth)
	}

	if fitRows < rows {
		r.add(SeverityError, IssueImageHeight, "image height %d holds %d rows, tileset needs %d",
			ts.Image.Height, fitRows, rows)
	} else if ts.Image.Height != wantHeight {
		r.add(SeverityError, IssueImageHeight, "image height %d differs from %d px of tiles",
			ts.Image.Height, wantHeight)
	}
}

func validateWangSet(ts *Tileset, ws *WangSet, r *Report) {
	switch ws.Type {
	case WangSetCorner, WangSetEdge, WangSetMixed:
	default:
		r.add(SeverityError, IssueWangSetType, "wang set %q has unknown type %q", ws.Name, ws.Type)
	}

	if ws.Tile != -1 && !ts.HasTile(ws.Tile) {
		r.add(SeverityError, IssueWangSetTile, "wang set %q tile %d is outside [0, %d]",
			ws.Name, ws.Tile, ts.TileCount-1)
	}

	for i, c := range ws.Colors {
		if c.Tile != -1 && !ts.HasTile(c.Tile) {
			r.add(SeverityError, IssueWangColor, "wang set %q color %d tile %d is outside [0, %d]",
				ws.Name, i+1, c.Tile, ts.TileCount-1)
		}

		if math.IsNaN(c.Probability) || math.IsInf(c.Probability, 0) || c.Probability < 0 {
			r.add(SeverityError, IssueWangColorProb, "wang set %q color %d probability %s is not a finite non-negative number",
				ws.Name, i+1, formatFloat(c.Probability))
		}
	}

	seen := map[int]bool{}
	for _, wt := range ws.Tiles {
		if seen[wt.TileID] {
			r.add(SeverityError, IssueDuplicateTile, "wang set %q lists tile %d twice", ws.Name, wt.TileID)
		}
		seen[wt.TileID] = true

		if !ts.HasTile(wt.TileID) {
			r.add(SeverityError, IssueTileRange, "wang set %q tile %d is outside [0, %d]",
				ws.Name, wt.TileID, ts.TileCount-1)
		}

		for slot, color := range wt.WangID {
			if color < 0 || color > len(ws.Colors) {
				r.add(SeverityError, IssueWangIDColor, "wang set %q tile %d slot %d uses color %d of %d",
					ws.Name, wt.TileID, slot, color, len(ws.Colors))
			}
		}

		switch ws.Type {
		case WangSetCorner:
			if e := wt.WangID.Edges(); e != [4]int{} {
				r.add(SeverityWarning, IssueWangIDTypeMisuse, "corner set %q tile %d colors edges %v",
					ws.Name, wt.TileID, e)
			}
		case WangSetEdge:
			if c := wt.WangID.Corners(); c != [4]int{} {
				r.add(SeverityWarning, IssueWangIDTypeMisuse, "edge set %q tile %d colors corners %v",
					ws.Name, wt.TileID, c)
			}
		}
	}
}

func inUnitRange(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}
