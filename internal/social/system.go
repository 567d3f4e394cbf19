// Package social implements the weighted relationship graph, incremental
// community detection, and proximity reinforcement named in Section 4.8
// "SocialSystem", grounded on the teacher's settlement/faction grouping
// style (internal/social/settlement.go, internal/social/faction.go) with
// the phi-based "coherence" numerology replaced by a plain affinity
// threshold and union-find, since nothing in the specification calls for it.
package social

import (
	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/worldstate"
)

// ProximityContext is the subset of SpatialIndex the proximity-reinforcement
// step needs.
type ProximityContext interface {
	QueryRadius(center worldstate.Position, radius float64) []worldstate.AgentID
}

// Config holds SocialSystem tunables.
type Config struct {
	GroupThreshold       float64 // affinity at/above which two agents are "grouped"
	ReinforceStep        float64 // +delta applied on proximity reinforcement
	ReinforceRadius       float64
	StaggerFraction      int // process population/StaggerFraction agents per tick
	RecomputeMinIntervalTicks uint64
}

// DefaultConfig returns reasonable defaults for a ~20Hz tick rate.
func DefaultConfig() Config {
	return Config{
		GroupThreshold:            0.5,
		ReinforceStep:             0.05,
		ReinforceRadius:           6.0,
		StaggerFraction:           100, // full sweep over ~100 ticks, ~5s at 20Hz
		RecomputeMinIntervalTicks: 100,
	}
}

// System owns the relationship graph and per-agent group assignment.
// WorldState stores the canonical edge map and group assignment (Section
// 3 "SocialEdge... Owned by SocialSystem"); System holds only the
// algorithmic bookkeeping — stagger cursor, dirty flag, recompute timer.
type System struct {
	cfg          Config
	events       *simevent.Bus
	cursor       int
	dirty        bool
	lastRecompute uint64
}

// New creates a SocialSystem.
func New(cfg Config, events *simevent.Bus) *System {
	return &System{cfg: cfg, events: events}
}

// ModifyAffinity adjusts the edge between a and b by delta, clamping to
// [-1,1], and updates group structure incrementally when the edge crosses
// the group threshold (Section 4.8 "Affinity mutation").
func (s *System) ModifyAffinity(ws *worldstate.WorldState, a, b worldstate.AgentID, delta float64, tick uint64) {
	if a == b {
		return
	}
	edge := ws.Edge(a, b)
	before := 0.0
	if edge != nil {
		before = edge.Affinity
	}
	after := clamp(before+delta, -1, 1)
	key := worldstate.EdgeKey(a, b)
	ws.SetEdge(worldstate.SocialEdge{A: key.A, B: key.B, Affinity: after, LastInteraction: tick})

	crossedUp := before < s.cfg.GroupThreshold && after >= s.cfg.GroupThreshold
	crossedDown := before >= s.cfg.GroupThreshold && after < s.cfg.GroupThreshold

	switch {
	case crossedUp:
		s.unionGroups(ws, a, b)
	case crossedDown:
		s.dirty = true
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// unionGroups merges a's and b's groups, assigning a fresh group id to
// both if neither has one yet.
func (s *System) unionGroups(ws *worldstate.WorldState, a, b worldstate.AgentID) {
	ga, hasA := ws.Group(a)
	gb, hasB := ws.Group(b)
	switch {
	case !hasA && !hasB:
		g := int(a) // deterministic: seed the new group id from the lower agent id
		if int(b) < g {
			g = int(b)
		}
		ws.SetGroup(a, g)
		ws.SetGroup(b, g)
	case hasA && !hasB:
		ws.SetGroup(b, ga)
	case !hasA && hasB:
		ws.SetGroup(a, gb)
	default:
		if ga != gb {
			target := ga
			if gb < ga {
				target = gb
			}
			for id, g := range ws.Groups() {
				if g == ga || g == gb {
					ws.SetGroup(id, target)
				}
			}
		}
	}
	s.events.Emit(simevent.Event{Kind: simevent.KindGroupChanged, AgentID: uint64(a), Description: "group merged"})
}

// RecomputeGroups runs a union-find pass over every edge with affinity
// at or above the threshold, rebuilding group assignment from scratch
// (Section 4.8 "Deferred recompute runs at most once per configurable
// period and does a BFS/flood-fill over edges with affinity >= threshold").
func (s *System) RecomputeGroups(ws *worldstate.WorldState, tick uint64) {
	if !s.dirty {
		return
	}
	if tick-s.lastRecompute < s.cfg.RecomputeMinIntervalTicks {
		return
	}
	s.lastRecompute = tick
	s.dirty = false

	uf := newUnionFind()
	for _, e := range ws.AllEdges() {
		if e.Affinity >= s.cfg.GroupThreshold {
			uf.union(int(e.A), int(e.B))
		}
	}
	for _, id := range ws.LivingAgentIDs() {
		root := uf.find(int(id))
		ws.SetGroup(id, root)
	}
	s.events.Emit(simevent.Event{Tick: tick, Kind: simevent.KindGroupChanged, Description: "groups recomputed"})
}

// Tick runs proximity reinforcement on a staggered subset of the
// population and, if dirty, attempts a deferred group recompute
// (Section 4.8 "Proximity update", tick ordering step 8).
func (s *System) Tick(ws *worldstate.WorldState, prox ProximityContext, tick uint64) {
	ids := ws.LivingAgentIDs()
	if len(ids) == 0 {
		return
	}
	batchSize := len(ids)/s.cfg.StaggerFraction + 1
	for i := 0; i < batchSize && len(ids) > 0; i++ {
		idx := (s.cursor + i) % len(ids)
		s.reinforce(ws, prox, ids[idx], tick)
	}
	span := len(ids)
	if span < 1 {
		span = 1
	}
	s.cursor = (s.cursor + batchSize) % span

	s.RecomputeGroups(ws, tick)
}

func (s *System) reinforce(ws *worldstate.WorldState, prox ProximityContext, id worldstate.AgentID, tick uint64) {
	agent := ws.GetAgent(id)
	if agent == nil {
		return
	}
	for _, other := range prox.QueryRadius(agent.Position, s.cfg.ReinforceRadius) {
		if other == id {
			continue
		}
		s.ModifyAffinity(ws, id, other, s.cfg.ReinforceStep, tick)
	}
}
