package movement

import (
	"context"

	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/worldstate"
)

// State is an agent's movement state machine position
// (Section 4.6 "Per-agent movement state").
type State uint8

const (
	StateIdle State = iota
	StateComputingPath
	StateFollowingPath
	StateArrived
)

// AgentMovement is the per-agent movement bookkeeping, owned exclusively
// by MovementSystem (ids-not-pointers: referenced elsewhere only by
// worldstate.AgentID).
type AgentMovement struct {
	State       State
	Waypoints   []worldstate.Position
	Index       int
	Destination worldstate.Position
	HasZone     bool
	ZoneID      worldstate.ZoneID
	pending     <-chan pathResult
}

// System advances every agent's movement state machine each tick
// (Section 4.6 "MovementSystem + Pathfinder").
type System struct {
	pool    *Pool
	grid    *Grid
	states  map[worldstate.AgentID]*AgentMovement
	events  *simevent.Bus

	speedMultiplier float64 // 1.0 baseline; >1 slows every agent's step rate (weather)
	moveDebt        map[worldstate.AgentID]float64
}

// New creates a movement system over the given terrain grid, with a
// pathfinding pool sized per MaxConcurrentPaths.
func New(ctx context.Context, tiles *worldstate.TileGrid, events *simevent.Bus) *System {
	grid := NewGrid(tiles)
	return &System{
		pool:            NewPool(ctx, MaxConcurrentPaths(), grid),
		grid:            grid,
		states:          make(map[worldstate.AgentID]*AgentMovement),
		events:          events,
		speedMultiplier: 1.0,
		moveDebt:        make(map[worldstate.AgentID]float64),
	}
}

// SetSpeedMultiplier scales the tick cost of a single waypoint step
// (Section 4.6 "movement cost"), driven by the weather supporting
// system's current conditions. 1.0 is baseline; values above 1 slow
// movement; a non-positive value resets the multiplier to 1.0.
func (s *System) SetSpeedMultiplier(m float64) {
	if m <= 0 {
		m = 1.0
	}
	s.speedMultiplier = m
}

func (s *System) stateFor(id worldstate.AgentID) *AgentMovement {
	m, ok := s.states[id]
	if !ok {
		m = &AgentMovement{State: StateIdle}
		s.states[id] = m
	}
	return m
}

// RequestMove takes ownership of the agent's action until arrival or
// failure (Section 4.6 "Action coupling"). Moves within
// MaxPathfindingDistance are queued on the pathfinding pool for A*;
// longer ones follow a straight-line path.
func (s *System) RequestMove(ws *worldstate.WorldState, id worldstate.AgentID, to worldstate.Position, destZone worldstate.ZoneID, hasZone bool) {
	agent := ws.GetAgent(id)
	if agent == nil {
		return
	}
	m := s.stateFor(id)
	m.Destination = to
	m.ZoneID = destZone
	m.HasZone = hasZone

	if chebyshevDist(agent.Position, to) > MaxPathfindingDistance {
		m.State = StateFollowingPath
		m.Waypoints = StraightLinePath(agent.Position, to)
		m.Index = 0
		return
	}
	m.State = StateComputingPath
	m.pending = s.pool.Submit(id, agent.Position, to)
}

// Remove drops movement state for a dead or despawned agent, letting any
// in-flight pathfinding result be discarded when it arrives.
func (s *System) Remove(id worldstate.AgentID) {
	delete(s.states, id)
	delete(s.moveDebt, id)
}

// Tick advances every agent with pending movement state: consumes a
// completed path computation, advances one step along a path, or leaves
// idle agents alone (Section 4.6, tick ordering step 6).
func (s *System) Tick(ws *worldstate.WorldState, tick uint64) {
	for id, m := range s.states {
		agent := ws.GetAgent(id)
		if agent == nil || agent.IsDead {
			delete(s.states, id)
			continue
		}
		switch m.State {
		case StateComputingPath:
			s.pollPath(ws, id, m, tick)
		case StateFollowingPath:
			s.advance(ws, agent, id, m, tick)
		}
	}
}

func (s *System) pollPath(ws *worldstate.WorldState, id worldstate.AgentID, m *AgentMovement, tick uint64) {
	if m.pending == nil {
		m.State = StateIdle
		return
	}
	select {
	case res, ok := <-m.pending:
		if !ok {
			return
		}
		m.pending = nil
		if !res.ok {
			m.State = StateIdle
			s.events.Emit(simevent.Event{Tick: tick, Kind: simevent.KindPathBlocked, AgentID: uint64(id), Description: "no path to destination"})
			return
		}
		m.Waypoints = res.waypoints
		m.Index = 0
		m.State = StateFollowingPath
	default:
		// Still computing; check again next tick.
	}
}

func (s *System) advance(ws *worldstate.WorldState, agent *worldstate.Agent, id worldstate.AgentID, m *AgentMovement, tick uint64) {
	if m.Index >= len(m.Waypoints) {
		s.arrive(ws, agent, id, m, tick)
		return
	}
	s.moveDebt[id] += 1.0 / s.speedMultiplier
	if s.moveDebt[id] < 1.0 {
		return
	}
	s.moveDebt[id] -= 1.0

	next := m.Waypoints[m.Index]
	if s.grid.terrainCost(next) < 0 {
		m.State = StateIdle
		s.events.Emit(simevent.Event{Tick: tick, Kind: simevent.KindPathBlocked, AgentID: uint64(id), Description: "path blocked by terrain change"})
		return
	}
	agent.Velocity = worldstate.Position{X: next.X - agent.Position.X, Y: next.Y - agent.Position.Y}
	agent.Position = next
	m.Index++
	if m.Index >= len(m.Waypoints) {
		s.arrive(ws, agent, id, m, tick)
	}
}

func (s *System) arrive(ws *worldstate.WorldState, agent *worldstate.Agent, id worldstate.AgentID, m *AgentMovement, tick uint64) {
	m.State = StateArrived
	agent.Velocity = worldstate.Position{}
	desc := "arrived"
	if z := ws.ZoneAt(agent.Position); z != nil {
		desc = "arrived in zone"
	}
	s.events.Emit(simevent.Event{Tick: tick, Kind: simevent.KindArrived, AgentID: uint64(id), Description: desc})
}

// IsIdle reports whether the agent's movement state machine is free to
// accept a new RequestMove (idle or arrived).
func (s *System) IsIdle(id worldstate.AgentID) bool {
	m, ok := s.states[id]
	return !ok || m.State == StateIdle || m.State == StateArrived
}

// Close stops the pathfinding pool's workers.
func (s *System) Close() {
	s.pool.Close()
}
