package model

type GeneratePreviewsRequest struct {
	TilesetID string `json:"tileset_id"`

	// Tiles defaults to the representative tiles of the wang sets.
	Tiles []int `json:"tiles"`
}

type Preview struct {
	Tile int    `json:"tile"`
	URL  string `json:"url"`
}

type GeneratePreviewsResponse struct {
	Previews []Preview `json:"previews"`
}
