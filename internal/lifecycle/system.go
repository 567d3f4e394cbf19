// Package lifecycle implements aging, death, and respawn — the agent
// lifecycle named as a supporting system in Section 2 and given its own
// contract in Section 4.5 ("The lifecycle system (not needs) mutates
// isDead") and Section 3 ("Agent... destroyed on permanent death or
// persists marked-dead with a scheduled respawn tick"). Grounded on the
// teacher's daily aging/death/birth pipeline (internal/engine/population.go),
// adapted from its phi-based mortality curve (dropped — nothing in the
// specification calls for old-age death) to spec's needs-driven death and
// respawn-only lifecycle.
package lifecycle

import (
	"github.com/talgya/agentforge/internal/needs"
	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/worldstate"
)

// TicksPerSimDay paces aging against the default 20Hz tick rate: a
// sim-day is 20 * 60 * 24 ticks (one sim-minute per 20 ticks, i.e. per
// real second).
const TicksPerSimDay = 20 * 60 * 24

// System applies death notices from NeedsSystem, schedules respawns, and
// ages living agents once per sim-day.
type System struct {
	events  *simevent.Bus
	pending map[worldstate.AgentID]respawnEntry
}

type respawnEntry struct {
	RespawnTick uint64
	Position    worldstate.Position
}

// New creates a lifecycle system.
func New(events *simevent.Bus) *System {
	return &System{events: events, pending: make(map[worldstate.AgentID]respawnEntry)}
}

// ApplyDeaths mutates isDead for every agent NeedsSystem flagged this
// tick, scheduling a respawn when one was requested.
func (s *System) ApplyDeaths(ws *worldstate.WorldState, notices []needs.DeathNotice) {
	for _, notice := range notices {
		agent := ws.GetAgent(notice.AgentID)
		if agent == nil {
			continue
		}
		agent.IsDead = true
		if notice.HasRespawn {
			agent.HasRespawn = true
			agent.RespawnTick = notice.RespawnAt
			s.pending[notice.AgentID] = respawnEntry{
				RespawnTick: notice.RespawnAt,
				Position:    agent.Position,
			}
		} else {
			ws.RemoveAgent(notice.AgentID)
		}
	}
}

// Tick ages living agents once per sim-day and reinitializes any agent
// whose respawn tick has arrived (Section 3 respawn contract: same id,
// needs reset, memory reset to empty).
func (s *System) Tick(ws *worldstate.WorldState, tick uint64) {
	if tick%TicksPerSimDay == 0 {
		s.ageAgents(ws)
	}
	s.processRespawns(ws, tick)
}

func (s *System) ageAgents(ws *worldstate.WorldState) {
	for _, id := range ws.LivingAgentIDs() {
		if a := ws.GetAgent(id); a != nil {
			a.Age++
			if a.Age > 180 && a.LifeStage == worldstate.StageAdult {
				a.LifeStage = worldstate.StageElder
			} else if a.Age > 18 && a.LifeStage == worldstate.StageChild {
				a.LifeStage = worldstate.StageAdult
			}
		}
	}
}

func (s *System) processRespawns(ws *worldstate.WorldState, tick uint64) {
	for id, entry := range s.pending {
		if tick < entry.RespawnTick {
			continue
		}
		agent := ws.GetAgent(id)
		if agent == nil {
			delete(s.pending, id)
			continue
		}
		agent.IsDead = false
		agent.HasRespawn = false
		agent.RespawnTick = 0
		agent.Position = entry.Position
		agent.Memory.Reset()
		agent.Stats = worldstate.Stats{Health: 100, Morale: 60, Money: agent.Stats.Money}
		reset := worldstate.NewAgentNeeds(100)
		ws.SetNeeds(id, reset)
		delete(s.pending, id)
		s.events.Emit(simevent.Event{Tick: tick, Kind: simevent.KindAgentRespawn, AgentID: uint64(id), Description: "agent respawned"})
	}
}

// Spawn creates a brand-new agent (birth), emitting AGENT_SPAWNED.
func (s *System) Spawn(ws *worldstate.WorldState, profile worldstate.AgentProfile, tick uint64) worldstate.AgentID {
	id := ws.AddAgent(profile)
	if agent := ws.GetAgent(id); agent != nil {
		agent.BornTick = tick
	}
	s.events.Emit(simevent.Event{Tick: tick, Kind: simevent.KindAgentSpawned, AgentID: uint64(id), Description: "agent spawned"})
	return id
}

// Kill immediately and permanently destroys an agent, bypassing the
// needs-driven death pipeline (used by the KILL_AGENT command).
func (s *System) Kill(ws *worldstate.WorldState, id worldstate.AgentID, tick uint64) {
	s.events.Emit(simevent.Event{Tick: tick, Kind: simevent.KindAgentDeath, AgentID: uint64(id), Description: "agent killed by command"})
	ws.RemoveAgent(id)
	delete(s.pending, id)
}
