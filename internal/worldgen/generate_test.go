package worldgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentforge/internal/worldstate"
)

func TestGenerateProducesFullyPopulatedGrid(t *testing.T) {
	cfg := SmallTestConfig()

	ws := Generate(cfg)

	require.NotNil(t, ws)
	require.NotNil(t, ws.Tiles)
	assert.Equal(t, cfg.Width, ws.Tiles.Width)
	assert.Equal(t, cfg.Height, ws.Tiles.Height)
}

func TestGenerateIsDeterministicForAFixedSeed(t *testing.T) {
	cfg := SmallTestConfig()

	a := Generate(cfg)
	b := Generate(cfg)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			ta, tb := a.Tiles.Get(x, y), b.Tiles.Get(x, y)
			require.NotNil(t, ta)
			require.NotNil(t, tb)
			assert.Equal(t, ta.Type, tb.Type, "tile (%d,%d) terrain differs across runs with the same seed", x, y)
		}
	}
}

func TestGenerateScattersSomeWorldResources(t *testing.T) {
	ws := Generate(SmallTestConfig())

	assert.NotEmpty(t, ws.AllResources())
}

func TestGenerateOnlyMarksOceanAndMountainTilesUnwalkable(t *testing.T) {
	ws := Generate(SmallTestConfig())

	for y := 0; y < ws.Tiles.Height; y++ {
		for x := 0; x < ws.Tiles.Width; x++ {
			tile := ws.Tiles.Get(x, y)
			require.NotNil(t, tile)
			if tile.Type == worldstate.TerrainOcean || tile.Type == worldstate.TerrainMountain {
				assert.False(t, tile.IsWalkable)
			} else {
				assert.True(t, tile.IsWalkable)
			}
		}
	}
}

func TestGeneratePlacesFoodWaterAndMarketStarterZones(t *testing.T) {
	ws := Generate(SmallTestConfig())

	zones := ws.AllZones()
	seen := make(map[worldstate.ZoneType]bool)
	for _, z := range zones {
		seen[z.Type] = true
	}
	assert.True(t, seen[worldstate.ZoneFood])
	assert.True(t, seen[worldstate.ZoneWater])
	assert.True(t, seen[worldstate.ZoneMarket])
}
