package worldstate

// TileGrid is the fixed-size terrain grid (Section 3 "TerrainTile": "Grid
// is fixed-size; tiles may transition type").
type TileGrid struct {
	Width, Height int
	tiles         []TerrainTile
}

// NewTileGrid allocates a grid of the given dimensions, every tile
// defaulting to grass/walkable.
func NewTileGrid(width, height int) *TileGrid {
	g := &TileGrid{Width: width, Height: height, tiles: make([]TerrainTile, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.tiles[y*width+x] = TerrainTile{TileX: x, TileY: y, Type: TerrainGrass, IsWalkable: true}
		}
	}
	return g
}

// InBounds reports whether (x,y) is within the grid.
func (g *TileGrid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// Get returns the tile at (x,y), or nil if out of bounds.
func (g *TileGrid) Get(x, y int) *TerrainTile {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.tiles[y*g.Width+x]
}

// Set overwrites the tile at (x,y). No-op if out of bounds.
func (g *TileGrid) Set(t TerrainTile) {
	if !g.InBounds(t.TileX, t.TileY) {
		return
	}
	g.tiles[t.TileY*g.Width+t.TileX] = t
}

// ConsumeWater drains up to the requested amount from an ocean tile's
// water volume and reports the amount actually consumed
// (Section 4.2 "tiles.consumeWater(tileX,tileY) -> consumed: u32").
func (g *TileGrid) ConsumeWater(tileX, tileY int, amount float64) float64 {
	tile := g.Get(tileX, tileY)
	if tile == nil || tile.Type != TerrainOcean {
		return 0
	}
	consumed := amount
	if consumed > tile.WaterVolume {
		consumed = tile.WaterVolume
	}
	if consumed <= 0 {
		return 0
	}
	tile.WaterVolume -= consumed
	if tile.WaterVolume <= 0 {
		tile.WaterVolume = 0
		tile.Type = TerrainDirt // drained ocean -> dirt, per Section 3
	}
	g.Set(*tile)
	return consumed
}

// Walkable reports whether (x,y) can be entered by movement.
func (g *TileGrid) Walkable(x, y int) bool {
	t := g.Get(x, y)
	return t != nil && t.IsWalkable
}
