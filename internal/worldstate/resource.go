package worldstate

// ResourceType enumerates world resource instances harvestable from the
// terrain (Glossary "World resource").
type ResourceType uint8

const (
	ResourceTypeTree ResourceType = iota
	ResourceTypeRock
	ResourceTypeBerryBush
	ResourceTypeWaterSource
)

// String renders a resource type for logs/snapshots.
func (t ResourceType) String() string {
	switch t {
	case ResourceTypeTree:
		return "tree"
	case ResourceTypeRock:
		return "rock"
	case ResourceTypeBerryBush:
		return "berry_bush"
	case ResourceTypeWaterSource:
		return "water_source"
	default:
		return "unknown"
	}
}

// YieldKind returns which ResourceKind harvesting this type produces.
func (t ResourceType) YieldKind() ResourceKind {
	switch t {
	case ResourceTypeTree:
		return ResourceWood
	case ResourceTypeRock:
		return ResourceOre
	case ResourceTypeBerryBush:
		return ResourceFood
	case ResourceTypeWaterSource:
		return ResourceWater
	default:
		return ResourceFood
	}
}

// ResourceState is the lifecycle state of a world resource instance.
type ResourceState uint8

const (
	ResourcePristine ResourceState = iota
	ResourceDepleted
)

// WorldResource is a harvestable instance in the world
// (Section 3 "WorldResource").
type WorldResource struct {
	ID             ResourceID
	Type           ResourceType
	Position       Position
	State          ResourceState
	RemainingYield float64
	MaxYield       float64
	RegrowTick     uint64 // valid only while State == ResourceDepleted and regrowth is enabled
	HasRegrow      bool
}

// ZoneType enumerates zone purposes (Glossary "Zone").
type ZoneType uint8

const (
	ZoneFood ZoneType = iota
	ZoneWater
	ZoneRest
	ZoneShelter
	ZoneMarket
	ZoneWork
	ZoneStorage
	ZoneHygiene
	ZoneSocial
	ZoneFun
	ZoneMental
)

// String renders a zone type for logs/snapshots.
func (t ZoneType) String() string {
	switch t {
	case ZoneFood:
		return "food"
	case ZoneWater:
		return "water"
	case ZoneRest:
		return "rest"
	case ZoneShelter:
		return "shelter"
	case ZoneMarket:
		return "market"
	case ZoneWork:
		return "work"
	case ZoneStorage:
		return "storage"
	case ZoneHygiene:
		return "hygiene"
	case ZoneSocial:
		return "social"
	case ZoneFun:
		return "fun"
	case ZoneMental:
		return "mental"
	default:
		return "unknown"
	}
}

// Bounds is an axis-aligned rectangle of tile coordinates, inclusive.
type Bounds struct {
	MinX, MinY, MaxX, MaxY int
}

// Contains reports whether a position falls inside the bounds.
func (b Bounds) Contains(p Position) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Center returns the integer-rounded center of the bounds.
func (b Bounds) Center() Position {
	return Position{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Zone is a rectangular region with a type that modifies agent interactions
// inside it (Section 3 "Zone"). Bounds are immutable after creation.
type Zone struct {
	ID         ZoneID
	Type       ZoneType
	Bounds     Bounds
	Capacity   int
	OwnerAgent AgentID
	HasOwner   bool
	AccessOpen bool // false = restricted to owner/faction
	Stockpile  Inventory
}

// TerrainType enumerates tile types on the square world grid.
type TerrainType uint8

const (
	TerrainGrass TerrainType = iota
	TerrainDirt
	TerrainForest
	TerrainMountain
	TerrainOcean
	TerrainSand
)

// TerrainTile is one cell of the fixed-size world grid
// (Section 3 "TerrainTile").
type TerrainTile struct {
	TileX, TileY int
	Type         TerrainType
	IsWalkable   bool
	WaterVolume  float64 // meaningful only for ocean tiles
}

// DefaultWalkable reports whether a terrain type is walkable absent any
// tile-specific override.
func (t TerrainType) DefaultWalkable() bool {
	return t != TerrainOcean && t != TerrainMountain
}
