// Package planner implements the AI decision pipeline named in Section
// 4.9 "AI Planner": GoalContext construction, declarative GoalRule
// evaluation via AIGoalValidator, and the ActionPlanner's declarative
// goal-type-to-action mapping. Grounded on the teacher's needs-driven
// Tier0Decide/decideSurvival/decideSafety/... dispatch
// (internal/agents/behavior.go), generalised from a fixed five-branch
// switch to a configurable, priority-ordered rule table.
package planner

import "github.com/talgya/agentforge/internal/worldstate"

// InventorySummary is the load/has-resource view a GoalRule condition reads.
type InventorySummary struct {
	Load     int
	Capacity int
	HasFood  bool
	HasWater bool
}

// Flags holds the boolean situational signals named in Section 4.9.
type Flags struct {
	IsInCombat           bool
	NearbyPredators       bool
	HasEnemiesNearby      bool
	HasExcessResources    bool
	HasCraftZone          bool
	CraftZoneID           worldstate.ZoneID
	HasDepositZone        bool
	DepositZoneID         worldstate.ZoneID
	HasActiveQuestGoal    bool
	HasContributableBuilding bool
}

// GoalContext is the per-agent, per-decision snapshot every GoalRule
// condition and priority function reads (Section 4.9 step 1).
type GoalContext struct {
	AgentID   worldstate.AgentID
	Position  worldstate.Position
	Role      worldstate.Role
	Needs     worldstate.AgentNeeds
	Inventory InventorySummary
	Flags     Flags

	NearestFood     worldstate.GoalTarget
	HasNearestFood  bool
	NearestWater    worldstate.GoalTarget
	HasNearestWater bool
	NearestAgent    worldstate.AgentID
	HasNearestAgent bool

	Tick uint64
}

// SpatialLookup is the read-only neighborhood view used to populate
// GoalContext's nearest-X fields — satisfied by internal/clock's per-tick
// agent lookup, kept as an interface here to avoid an import cycle.
type SpatialLookup interface {
	NearestAgent(from worldstate.Position, exclude worldstate.AgentID) (worldstate.AgentID, bool)
	NearestResourceOfType(from worldstate.Position, t worldstate.ResourceType) (worldstate.ResourceID, bool)
}

// BuildGoalContext assembles a GoalContext for one agent.
func BuildGoalContext(ws *worldstate.WorldState, id worldstate.AgentID, lookup SpatialLookup, tick uint64) (GoalContext, bool) {
	agent := ws.GetAgent(id)
	needs := ws.Needs(id)
	if agent == nil || needs == nil {
		return GoalContext{}, false
	}
	inv := ws.AgentInventory(id)

	ctx := GoalContext{
		AgentID:  id,
		Position: agent.Position,
		Role:     agent.Role,
		Needs:    *needs,
		Inventory: InventorySummary{
			Load:     inv.Total(),
			Capacity: inv.Capacity,
			HasFood:  inv.Get(worldstate.ResourceFood) > 0,
			HasWater: inv.Get(worldstate.ResourceWater) > 0,
		},
		Tick: tick,
	}

	if zone := ws.ZoneAt(agent.Position); zone != nil {
		switch zone.Type {
		case worldstate.ZoneWork:
			ctx.Flags.HasCraftZone = true
			ctx.Flags.CraftZoneID = zone.ID
		case worldstate.ZoneStorage:
			ctx.Flags.HasDepositZone = true
			ctx.Flags.DepositZoneID = zone.ID
		}
	}
	ctx.Flags.HasExcessResources = inv.Capacity > 0 && inv.Total() >= inv.Capacity

	if lookup != nil {
		if rid, ok := lookup.NearestResourceOfType(agent.Position, worldstate.ResourceTypeBerryBush); ok {
			ctx.NearestFood = worldstate.GoalTarget{HasResource: true, ResourceID: rid}
			ctx.HasNearestFood = true
		}
		if rid, ok := lookup.NearestResourceOfType(agent.Position, worldstate.ResourceTypeWaterSource); ok {
			ctx.NearestWater = worldstate.GoalTarget{HasResource: true, ResourceID: rid}
			ctx.HasNearestWater = true
		}
		if aid, ok := lookup.NearestAgent(agent.Position, id); ok {
			ctx.NearestAgent = aid
			ctx.HasNearestAgent = true
		}
	}

	return ctx, true
}
