// Package inventory exposes the agent-facing inventory operations named
// in Section 4.7: addResource, removeFromAgent, transfer. The underlying
// storage lives on worldstate.Inventory; this package is the stable,
// narrow API other systems (needs, economy, planner) call instead of
// reaching into WorldState's inventory map directly.
package inventory

import "github.com/talgya/agentforge/internal/worldstate"

// System is a thin façade over WorldState's inventory operations.
type System struct{}

// New returns an inventory system. It holds no state of its own —
// WorldState owns every Inventory record.
func New() *System {
	return &System{}
}

// AddResource adds n units of kind to an agent's inventory, bounded by
// capacity, and reports whether the full amount was added
// (Section 4.7 "addResource(agent, kind, n) -> added: bool").
func (s *System) AddResource(ws *worldstate.WorldState, agent worldstate.AgentID, kind worldstate.ResourceKind, n int) bool {
	inv := ws.AgentInventory(agent)
	added := inv.Add(kind, n)
	return added == n
}

// RemoveFromAgent removes up to n units of kind and reports the amount
// actually removed (Section 4.7 "removeFromAgent(agent, kind, n) ->
// removed: u32").
func (s *System) RemoveFromAgent(ws *worldstate.WorldState, agent worldstate.AgentID, kind worldstate.ResourceKind, n int) int {
	inv := ws.AgentInventory(agent)
	return inv.Remove(kind, n)
}

// Transfer moves up to n units of kind from one agent's inventory to
// another's, respecting destination capacity
// (Section 4.7 "transfer(from, to, kind, n)").
func (s *System) Transfer(ws *worldstate.WorldState, from, to worldstate.AgentID, kind worldstate.ResourceKind, n int) int {
	return ws.TransferInventory(ws.AgentInventory(from), ws.AgentInventory(to), kind, n)
}

// TransferToZone moves units from an agent's inventory into a zone
// stockpile (used by deposit actions and by EconomySystem overflow handling).
func (s *System) TransferToZone(ws *worldstate.WorldState, from worldstate.AgentID, zone *worldstate.Zone, kind worldstate.ResourceKind, n int) int {
	return ws.TransferInventory(ws.AgentInventory(from), &zone.Stockpile, kind, n)
}
