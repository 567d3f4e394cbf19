package economy

import "github.com/talgya/agentforge/internal/worldstate"

// carryKey identifies a (agent, resource) fractional-yield carryover slot.
type carryKey struct {
	Agent worldstate.AgentID
	Kind  worldstate.ResourceKind
}

// YieldTracker carries fractional work-yield residue across ticks per
// (agent, resource) pair (Section 4.7 "Work yields... fractional residual
// is carried over across ticks").
type YieldTracker struct {
	residual map[carryKey]float64
}

// NewYieldTracker returns an empty tracker.
func NewYieldTracker() *YieldTracker {
	return &YieldTracker{residual: make(map[carryKey]float64)}
}

// baseYield is the raw per-tick yield for harvesting a resource type,
// before team/role bonuses.
func baseYield(t worldstate.ResourceType) float64 {
	switch t {
	case worldstate.ResourceTypeTree:
		return 0.3
	case worldstate.ResourceTypeRock:
		return 0.2
	case worldstate.ResourceTypeBerryBush:
		return 0.4
	case worldstate.ResourceTypeWaterSource:
		return 0.5
	default:
		return 0.2
	}
}

// roleBonus rewards agents working a zone matching their assigned role.
func roleBonus(role worldstate.Role, zoneType worldstate.ZoneType) float64 {
	matches := (role == worldstate.RoleFarmer && zoneType == worldstate.ZoneFood) ||
		(role == worldstate.RoleLogger && zoneType == worldstate.ZoneWork) ||
		(role == worldstate.RoleQuarryman && zoneType == worldstate.ZoneWork) ||
		(role == worldstate.RoleGatherer && zoneType == worldstate.ZoneFood)
	if matches {
		return 1.3
	}
	return 1.0
}

// teamBonus rewards agents working alongside others in the same zone
// (+0.1 per coworker, capped at 1.5).
func teamBonus(coworkers int) float64 {
	bonus := 1.0 + 0.1*float64(coworkers)
	if bonus > 1.5 {
		return 1.5
	}
	return bonus
}

// HandleWorkAction produces fractional yield for a work action in a zone
// and adds the integer part to the agent's inventory, overflowing to
// global materials when the agent is at capacity
// (Section 4.7 "handleWorkAction").
func (y *YieldTracker) HandleWorkAction(ws *worldstate.WorldState, agentID worldstate.AgentID, zone *worldstate.Zone, resourceType worldstate.ResourceType, coworkers int) int {
	agent := ws.GetAgent(agentID)
	if agent == nil {
		return 0
	}
	kind := resourceType.YieldKind()
	key := carryKey{Agent: agentID, Kind: kind}

	yield := baseYield(resourceType) * teamBonus(coworkers) * roleBonus(agent.Role, zone.Type)
	total := y.residual[key] + yield
	whole := int(total)
	y.residual[key] = total - float64(whole)
	if whole <= 0 {
		return 0
	}

	inv := ws.AgentInventory(agentID)
	added := inv.Add(kind, whole)
	if overflow := whole - added; overflow > 0 {
		ws.GlobalMaterials[kind] += overflow
	}
	return whole
}
