package model

type Tileset struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	TiledVersion string         `json:"tiled_version"`
	TileWidth    int            `json:"tile_width"`
	TileHeight   int            `json:"tile_height"`
	TileCount    int            `json:"tile_count"`
	Columns      int            `json:"columns"`
	Spacing      int            `json:"spacing"`
	Margin       int            `json:"margin"`
	ImageSource  string         `json:"image_source"`
	ImageWidth   int            `json:"image_width"`
	ImageHeight  int            `json:"image_height"`
	Properties   map[string]any `json:"properties,omitempty"`
	TSXPath      string         `json:"tsx_path"`
	ImagePath    string         `json:"image_path,omitempty"`
	WangSets     []WangSet      `json:"wang_sets,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

type WangSet struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Tile      int      `json:"tile"`
	Colors    []string `json:"colors"`
	TileCount int      `json:"tile_count"`
}

type Issue struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// ImportTilesetRequest is either a json body or a multipart form with the files
// "tsx" and "image".
type ImportTilesetRequest struct {
	Name  string `json:"name"`
	TSX   string `json:"tsx"`
	Image []byte `json:"image"`
}

type ImportTilesetResponse struct {
	ID       string  `json:"id"`
	Warnings []Issue `json:"warnings"`
}

type GetTilesetRequest struct {
	ID string `json:"id"`
}

type GetTilesetResponse struct {
	Tileset Tileset `json:"tileset"`
}

type GetTilesetsRequest struct {
	Q      string `json:"q"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetTilesetsResponse struct {
	Tilesets []Tileset `json:"tilesets"`
}

type SearchTilesetsRequest struct {
	Q      string `json:"q"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type SearchTilesetsResponse struct {
	Tilesets []Tileset `json:"tilesets"`
}

type DeleteTilesetRequest struct {
	ID string `json:"id"`
}

type DeleteTilesetResponse struct{}

type ValidateTilesetRequest struct {
	TSX string `json:"tsx"`
}

type ValidateTilesetResponse struct {
	Valid   bool            `json:"valid"`
	Issues  []Issue         `json:"issues"`
	Summary *TilesetSummary `json:"summary,omitempty"`
}

type TilesetSummary struct {
	Name                 string   `json:"name"`
	TileWidth            int      `json:"tile_width"`
	TileHeight           int      `json:"tile_height"`
	TileCount            int      `json:"tile_count"`
	Columns              int      `json:"columns"`
	Rows                 int      `json:"rows"`
	Image                string   `json:"image"`
	ProbabilityOverrides int      `json:"probability_overrides"`
	WangSets             []string `json:"wang_sets"`
	WangTiles            int      `json:"wang_tiles"`
	TiledVersion         string   `json:"tiled_version"`
}

type ExportTilesetRequest struct {
	ID string `json:"id"`

	// Format is "tsx" or "json".
	Format string `json:"format"`
}

type ExportTilesetResponse struct {
	Name    string `json:"name"`
	Format  string `json:"format"`
	TSX     string `json:"tsx,omitempty"`
	Tileset any    `json:"tileset,omitempty"`
}

// TilesetEvent is published when the catalog changes.
type TilesetEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	By   string `json:"by"`
}
