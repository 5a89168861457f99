package assets

import _ "embed"

// DefaultTilesetName is the file name of the tileset shipped with the repository.
const DefaultTilesetName = "StarRealmsCozyForestPack24x24.tsx"

//go:embed StarRealmsCozyForestPack24x24.tsx
var DefaultTileset []byte
