// Package spatial maintains the per-tick position indices systems use to
// answer proximity queries without scanning every entity (Section 4.2
// "EntityIndex + SpatialIndex"). EntityIndex is a dense id->position
// lookup; SpatialIndex buckets positions into a uniform grid so
// QueryRadius only scans nearby cells (FindNearest scans every occupied
// cell).
package spatial

import (
	"math"

	"github.com/talgya/agentforge/internal/worldstate"
)

// EntityIndex is a dense id->position lookup, rebuilt once per tick from
// WorldState. It exists so systems don't each re-walk the agent map to
// find a position.
type EntityIndex struct {
	positions map[worldstate.AgentID]worldstate.Position
}

// NewEntityIndex builds an index over the given agent positions.
func NewEntityIndex() *EntityIndex {
	return &EntityIndex{positions: make(map[worldstate.AgentID]worldstate.Position)}
}

// Set records or updates an agent's position.
func (e *EntityIndex) Set(id worldstate.AgentID, pos worldstate.Position) {
	e.positions[id] = pos
}

// Remove drops an agent from the index (death).
func (e *EntityIndex) Remove(id worldstate.AgentID) {
	delete(e.positions, id)
}

// Get returns an agent's indexed position and whether it was found.
func (e *EntityIndex) Get(id worldstate.AgentID) (worldstate.Position, bool) {
	p, ok := e.positions[id]
	return p, ok
}

// cellKey is the bucket coordinate for a uniform grid of the given cell size.
type cellKey struct{ cx, cy int }

// SpatialIndex buckets agent positions into uniform grid cells so radius
// queries only scan nearby cells instead of every entity; nearest-neighbor
// queries scan every occupied cell (Section 4.2, grounded on a
// spatial-hash bucketing approach).
type SpatialIndex struct {
	cellSize int
	cells    map[cellKey][]worldstate.AgentID
	entities *EntityIndex
}

// NewSpatialIndex creates an empty index with the given cell size in tiles.
// cellSize should be on the order of the largest radius callers query with,
// so a radius query scans only the 5x5 neighborhood of cells around the
// center (QueryRadius adds one cell of margin past ceil(radius/cellSize)).
func NewSpatialIndex(cellSize int) *SpatialIndex {
	if cellSize < 1 {
		cellSize = 1
	}
	return &SpatialIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey][]worldstate.AgentID),
		entities: NewEntityIndex(),
	}
}

func (s *SpatialIndex) keyFor(p worldstate.Position) cellKey {
	return cellKey{cx: floorDiv(p.X, s.cellSize), cy: floorDiv(p.Y, s.cellSize)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Rebuild discards all buckets and re-inserts every living agent's current
// position. Called once per tick before any system issues proximity
// queries (Section 4.1: systems run in fixed order against a stable
// snapshot of positions for the tick).
func (s *SpatialIndex) Rebuild(ws *worldstate.WorldState) {
	s.cells = make(map[cellKey][]worldstate.AgentID)
	s.entities = NewEntityIndex()
	for _, id := range ws.LivingAgentIDs() {
		a := ws.GetAgent(id)
		if a == nil {
			continue
		}
		s.entities.Set(id, a.Position)
		key := s.keyFor(a.Position)
		s.cells[key] = append(s.cells[key], id)
	}
}

// Entities exposes the dense id->position lookup rebuilt alongside the grid.
func (s *SpatialIndex) Entities() *EntityIndex {
	return s.entities
}

// QueryRadius returns every indexed agent within radius tiles of center,
// excluding nothing (callers filter out the querying agent themselves if
// needed). Distance is Euclidean over tile coordinates.
func (s *SpatialIndex) QueryRadius(center worldstate.Position, radius float64) []worldstate.AgentID {
	if radius < 0 {
		return nil
	}
	cellRadius := int(math.Ceil(radius/float64(s.cellSize))) + 1
	centerKey := s.keyFor(center)
	radiusSq := radius * radius

	var out []worldstate.AgentID
	for dx := -cellRadius; dx <= cellRadius; dx++ {
		for dy := -cellRadius; dy <= cellRadius; dy++ {
			key := cellKey{cx: centerKey.cx + dx, cy: centerKey.cy + dy}
			for _, id := range s.cells[key] {
				pos, ok := s.entities.Get(id)
				if !ok {
					continue
				}
				ddx := float64(pos.X - center.X)
				ddy := float64(pos.Y - center.Y)
				if ddx*ddx+ddy*ddy <= radiusSq {
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// FindNearest returns the closest indexed agent to center for which
// accept returns true, and whether any match was found. accept may be nil
// to accept every agent. Ties break by the lower AgentID for determinism.
func (s *SpatialIndex) FindNearest(center worldstate.Position, accept func(worldstate.AgentID) bool) (worldstate.AgentID, bool) {
	var (
		best   worldstate.AgentID
		bestSq = math.MaxFloat64
		found  bool
	)
	// Scans every occupied cell rather than spiraling outward from the
	// center: correct and simple, and worlds stay small enough that a full
	// bucket scan is cheap next to the A* and needs-batch costs per tick.
	for _, ids := range s.cells {
		for _, id := range ids {
			if accept != nil && !accept(id) {
				continue
			}
			pos, ok := s.entities.Get(id)
			if !ok {
				continue
			}
			ddx := float64(pos.X - center.X)
			ddy := float64(pos.Y - center.Y)
			distSq := ddx*ddx + ddy*ddy
			if distSq < bestSq || (distSq == bestSq && found && id < best) {
				best = id
				bestSq = distSq
				found = true
			}
		}
	}
	return best, found
}
