package clock

import (
	"sort"

	"github.com/talgya/agentforge/internal/worldstate"
)

// agentLookup implements needs.SpatialContext and planner.SpatialLookup,
// backed by the per-tick neighbor batch computed via BatchQueryService
// (Section 4.2 "BatchQueryService accumulates spatial queries during a
// tick and resolves them together") plus a plain scan over world
// resources, which are few enough not to need batching.
type agentLookup struct {
	ws        *worldstate.WorldState
	neighbors map[worldstate.AgentID][]worldstate.AgentID
}

func newAgentLookup(ws *worldstate.WorldState, neighbors map[worldstate.AgentID][]worldstate.AgentID) *agentLookup {
	return &agentLookup{ws: ws, neighbors: neighbors}
}

// NearestAgent returns the closest living agent to from, excluding
// exclude, drawn only from exclude's precomputed neighbor set. An exclude
// with no neighbor set (such as 0) yields no result.
func (l *agentLookup) NearestAgent(from worldstate.Position, exclude worldstate.AgentID) (worldstate.AgentID, bool) {
	candidates := l.neighbors[exclude]
	best := worldstate.AgentID(0)
	bestDist := -1
	found := false
	for _, id := range candidates {
		if id == exclude {
			continue
		}
		agent := l.ws.GetAgent(id)
		if agent == nil || agent.IsDead {
			continue
		}
		d := sqDist(from, agent.Position)
		if !found || d < bestDist || (d == bestDist && id < best) {
			best, bestDist, found = id, d, true
		}
	}
	return best, found
}

// NearestResourceOfType scans every world resource of type t for the
// nearest pristine instance to from.
func (l *agentLookup) NearestResourceOfType(from worldstate.Position, t worldstate.ResourceType) (worldstate.ResourceID, bool) {
	candidates := l.ws.ResourcesByType(t)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	best := worldstate.ResourceID(0)
	bestDist := -1
	found := false
	for _, r := range candidates {
		if r.State == worldstate.ResourceDepleted {
			continue
		}
		d := sqDist(from, r.Position)
		if !found || d < bestDist {
			best, bestDist, found = r.ID, d, true
		}
	}
	return best, found
}

func sqDist(a, b worldstate.Position) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
