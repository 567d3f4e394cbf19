package worldstate

// LifeStage is an agent's coarse age bracket; it drives the NeedsSystem
// age multiplier (Section 4.5).
type LifeStage uint8

const (
	StageChild LifeStage = iota
	StageAdult
	StageElder
)

// Role is an agent's job category, influencing planner priorities and
// work yields (Section 4.7, Glossary "Role").
type Role uint8

const (
	RoleIdle Role = iota
	RoleFarmer
	RoleLogger
	RoleQuarryman
	RoleHunter
	RoleBuilder
	RoleCraftsman
	RoleGuard
	RoleLeader
	RoleGatherer
)

// ExplorationType tags how an agent's curiosity personality trait
// manifests when the AI planner considers the explore goal.
type ExplorationType uint8

const (
	ExplorationCautious ExplorationType = iota
	ExplorationCurious
	ExplorationReckless
)

// Personality holds the stable traits that bias an agent's goal evaluation.
// Every trait is in [0,1]. Set at spawn, immutable afterward.
type Personality struct {
	Diligence       float64
	Curiosity       float64
	Agreeableness   float64
	Neuroticism     float64
	WorkEthic       float64
	ExplorationType ExplorationType
}

// Memory holds an agent's running recollection of the world, consulted by
// the AI planner when evaluating explore/retry goals.
type Memory struct {
	VisitedZones       map[ZoneID]struct{}
	FailedAttempts     map[string]int // goal type -> consecutive failure count
	HomeZoneID         ZoneID
	HasHomeZone        bool
	LastExplorationTick uint64
}

// NewMemory returns an empty memory record.
func NewMemory() Memory {
	return Memory{
		VisitedZones:   make(map[ZoneID]struct{}),
		FailedAttempts: make(map[string]int),
	}
}

// Reset clears a memory record back to empty. Used on respawn — spec.md
// Section 9 fixes the respawn contract as "same id, reset needs, memory
// reset to empty".
func (m *Memory) Reset() {
	m.VisitedZones = make(map[ZoneID]struct{})
	m.FailedAttempts = make(map[string]int)
	m.HomeZoneID = 0
	m.HasHomeZone = false
	m.LastExplorationTick = 0
}

// Stats holds an agent's mutable vitals outside the needs hierarchy.
type Stats struct {
	Health  float64 // 0..100
	Morale  float64 // 0..100
	Money   int64
}

// Position is an integer tile coordinate on the square world grid.
type Position struct {
	X int
	Y int
}

// Agent is the core entity representing one simulated person.
// WorldState owns the canonical record; every other system refers to an
// agent by AgentID and looks it up here — never by pointer across system
// boundaries (Section 9 "Design Notes").
type Agent struct {
	ID AgentID

	Position Position
	Velocity Position // tiles/tick, signed; usually -1,0,1 per axis

	Role      Role
	LifeStage LifeStage
	Age       int // sim-days

	IsDead      bool
	IsImmortal  bool
	RespawnTick uint64 // valid only when IsDead and respawn scheduled
	HasRespawn  bool

	Stats       Stats
	Personality Personality
	Memory      Memory

	HomeZoneID ZoneID
	HasHome    bool

	BornTick uint64
}

// AgeMultiplier returns the NeedsSystem decay age multiplier for this
// agent's life stage (Section 4.5: child 0.7, adult 1.0, elder 1.4).
func (s LifeStage) AgeMultiplier() float64 {
	switch s {
	case StageChild:
		return 0.7
	case StageElder:
		return 1.4
	default:
		return 1.0
	}
}
