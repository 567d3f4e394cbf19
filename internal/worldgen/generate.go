// Package worldgen builds an initial WorldState: terrain, world resources,
// and starting zones, generated from layered simplex noise. Grounded on the
// teacher's hex-grid generator (internal/world/generation.go), reworked from
// axial hex coordinates onto the specification's fixed-size square
// TileGrid (Section 3 "TerrainTile: Grid is fixed-size").
package worldgen

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/agentforge/internal/worldstate"
)

// Config holds world generation parameters.
type Config struct {
	Width, Height int
	Seed          int64 // 0 = random

	SeaLevel    float64 // elevation threshold for ocean, [0,1]
	MountainLvl float64 // elevation threshold for mountains, [0,1]

	ResourceDensity float64 // fraction of eligible tiles seeded with a WorldResource, [0,1]
	ZoneCount       int     // number of starter zones of each functional type to place
}

// DefaultConfig returns the specification's reference world size and
// reasonable generation thresholds.
func DefaultConfig() Config {
	return Config{
		Width:           128,
		Height:          128,
		Seed:            0,
		SeaLevel:        0.25,
		MountainLvl:     0.72,
		ResourceDensity: 0.08,
		ZoneCount:       3,
	}
}

// SmallTestConfig returns a tiny deterministic world for tests and local
// iteration.
func SmallTestConfig() Config {
	return Config{
		Width:           32,
		Height:          32,
		Seed:            42,
		SeaLevel:        0.30,
		MountainLvl:     0.75,
		ResourceDensity: 0.12,
		ZoneCount:       2,
	}
}

// Generate produces a fresh WorldState with terrain, scattered world
// resources, and starter zones, ready for agents to be spawned into it.
func Generate(cfg Config) *worldstate.WorldState {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)

	tiles := worldstate.NewTileGrid(cfg.Width, cfg.Height)
	rng := rand.New(rand.NewSource(seed + 2))

	cx, cy := float64(cfg.Width)/2, float64(cfg.Height)/2
	maxDist := math.Sqrt(cx*cx + cy*cy)

	var scattered []pendingResource

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			elev := octaveNoise(elevNoise, float64(x), float64(y), 4, 0.06, 0.5)
			rain := octaveNoise(rainNoise, float64(x), float64(y), 3, 0.05, 0.5)

			// Continental shaping: pull elevation down near the map edges so
			// the world is bordered by ocean rather than clipped terrain.
			dist := math.Sqrt(math.Pow(float64(x)-cx, 2)+math.Pow(float64(y)-cy, 2)) / maxDist
			edgeFalloff := 1.0 - math.Pow(dist, 3.5)
			if edgeFalloff < 0 {
				edgeFalloff = 0
			}
			elev *= edgeFalloff

			terrain := deriveTerrain(elev, rain, cfg)
			walkable := terrain.DefaultWalkable()
			water := 0.0
			if terrain == worldstate.TerrainOcean {
				water = 1000 + rain*500
			}

			tiles.Set(worldstate.TerrainTile{
				TileX:       x,
				TileY:       y,
				Type:        terrain,
				IsWalkable:  walkable,
				WaterVolume: water,
			})

			if walkable && rng.Float64() < cfg.ResourceDensity {
				if typ, ok := pickResourceType(terrain, rng); ok {
					scattered = append(scattered, pendingResource{x: x, y: y, typ: typ})
				}
			}
		}
	}

	ws := worldstate.New(tiles)
	ws.Market = worldstate.NewMarket(worldstate.DefaultBasePrices())
	placeResources(ws, tiles, scattered, rng)
	placeStarterZones(ws, tiles, cfg, rng)
	return ws
}

func deriveTerrain(elev, rain float64, cfg Config) worldstate.TerrainType {
	switch {
	case elev < cfg.SeaLevel:
		return worldstate.TerrainOcean
	case elev > cfg.MountainLvl:
		return worldstate.TerrainMountain
	case rain < 0.25:
		return worldstate.TerrainSand
	case rain > 0.55:
		return worldstate.TerrainForest
	case rain < 0.4:
		return worldstate.TerrainDirt
	default:
		return worldstate.TerrainGrass
	}
}

// pendingResource records a tile flagged for a resource instance during the
// terrain pass, resolved into actual WorldResources once ws exists.
type pendingResource struct {
	x, y int
	typ  worldstate.ResourceType
}

func pickResourceType(terrain worldstate.TerrainType, rng *rand.Rand) (worldstate.ResourceType, bool) {
	var candidates []worldstate.ResourceType
	switch terrain {
	case worldstate.TerrainForest:
		candidates = []worldstate.ResourceType{worldstate.ResourceTypeTree, worldstate.ResourceTypeBerryBush}
	case worldstate.TerrainMountain:
		candidates = []worldstate.ResourceType{worldstate.ResourceTypeRock}
	case worldstate.TerrainGrass:
		candidates = []worldstate.ResourceType{worldstate.ResourceTypeBerryBush}
	case worldstate.TerrainDirt, worldstate.TerrainSand:
		candidates = []worldstate.ResourceType{worldstate.ResourceTypeRock}
	default:
		return 0, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

func placeResources(ws *worldstate.WorldState, tiles *worldstate.TileGrid, scattered []pendingResource, rng *rand.Rand) {
	for _, p := range scattered {
		maxYield := 50.0 + rng.Float64()*50.0
		ws.AddResource(worldstate.WorldResource{
			Type:           p.typ,
			Position:       worldstate.Position{X: p.x, Y: p.y},
			State:          worldstate.ResourcePristine,
			RemainingYield: maxYield,
			MaxYield:       maxYield,
		})
	}

	// About 15% of ocean tiles also get a harvestable water source at their
	// own coordinate, per Section 3's water-source resource type.
	for y := 0; y < tiles.Height; y++ {
		for x := 0; x < tiles.Width; x++ {
			t := tiles.Get(x, y)
			if t != nil && t.Type == worldstate.TerrainOcean && rng.Float64() < 0.15 {
				ws.AddResource(worldstate.WorldResource{
					Type:           worldstate.ResourceTypeWaterSource,
					Position:       worldstate.Position{X: x, Y: y},
					State:          worldstate.ResourcePristine,
					RemainingYield: 1e9,
					MaxYield:       1e9,
				})
			}
		}
	}
}

// placeStarterZones scatters cfg.ZoneCount instances of each functional
// zone type onto walkable ground, avoiding overlap with already-placed
// zones.
func placeStarterZones(ws *worldstate.WorldState, tiles *worldstate.TileGrid, cfg Config, rng *rand.Rand) {
	kinds := []worldstate.ZoneType{
		worldstate.ZoneFood, worldstate.ZoneWater, worldstate.ZoneRest,
		worldstate.ZoneShelter, worldstate.ZoneMarket, worldstate.ZoneWork,
		worldstate.ZoneStorage, worldstate.ZoneHygiene, worldstate.ZoneSocial,
		worldstate.ZoneFun, worldstate.ZoneMental,
	}

	const zoneSize = 4
	for _, kind := range kinds {
		for i := 0; i < cfg.ZoneCount; i++ {
			x, y, ok := findWalkableOrigin(tiles, rng, zoneSize)
			if !ok {
				continue
			}
			ws.AddZone(worldstate.Zone{
				Type: kind,
				Bounds: worldstate.Bounds{
					MinX: x, MinY: y,
					MaxX: x + zoneSize - 1, MaxY: y + zoneSize - 1,
				},
				Capacity:   8,
				AccessOpen: true,
			})
		}
	}
}

func findWalkableOrigin(tiles *worldstate.TileGrid, rng *rand.Rand, size int) (int, int, bool) {
	for attempt := 0; attempt < 64; attempt++ {
		x := rng.Intn(tiles.Width - size)
		y := rng.Intn(tiles.Height - size)
		if allWalkable(tiles, x, y, size) {
			return x, y, true
		}
	}
	return 0, 0, false
}

func allWalkable(tiles *worldstate.TileGrid, x, y, size int) bool {
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			if !tiles.Walkable(x+dx, y+dy) {
				return false
			}
		}
	}
	return true
}

// octaveNoise layers multiple noise frequencies into fractal terrain,
// identical in method to the teacher's generator.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
