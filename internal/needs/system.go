// Package needs implements the per-tick need decay/consumption/death
// pipeline (Section 4.5 "NeedsSystem"), grounded on the teacher's
// needs-driven Tier0 behavior pipeline (internal/agents/behavior.go,
// internal/agents/needs.go) generalised from its five-need Maslow model to
// the specification's seven scalar needs, and vectorised with gonum for
// the batch fast path the teacher has no equivalent of.
package needs

import (
	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/worldstate"
)

// ProximityContext is the subset of SpatialIndex the morale boost step
// needs: everyone within a radius of a position.
type ProximityContext interface {
	QueryRadius(center worldstate.Position, radius float64) []worldstate.AgentID
}

// NeedsSystem owns every agent's AgentNeeds record and is the only system
// allowed to mutate it (Section 3 "AgentNeeds... Exclusively owned by
// NeedsSystem").
type NeedsSystem struct {
	cfg    Config
	events *simevent.Bus

	baseThirstDecayRate float64
}

// New creates a NeedsSystem with the given config and event sink.
func New(cfg Config, events *simevent.Bus) *NeedsSystem {
	return &NeedsSystem{cfg: cfg, events: events, baseThirstDecayRate: cfg.DecayRates[worldstate.NeedThirst]}
}

// ApplyWeatherThirstMultiplier rescales the configured thirst decay rate
// by mult against the originally configured base rate, so repeated calls
// across ticks (one per weather change) never compound
// (Section 4.5 decay rates, multiplier supplied by the weather supporting
// system's SET_WEATHER command).
func (s *NeedsSystem) ApplyWeatherThirstMultiplier(mult float64) {
	if s.cfg.DecayRates == nil {
		return
	}
	s.cfg.DecayRates[worldstate.NeedThirst] = s.baseThirstDecayRate * mult
}

// DeathNotice is emitted when an agent crosses a death threshold; the
// lifecycle system (not NeedsSystem) is responsible for mutating isDead
// (Section 4.5 "Death").
type DeathNotice struct {
	AgentID      worldstate.AgentID
	RespawnAt    uint64
	HasRespawn   bool
}

// Tick runs decay, consumption, zone bonuses, cross-effects, death
// detection, and the social morale boost for every living agent, choosing
// the batch or scalar path by cohort size (Section 4.5).
func (s *NeedsSystem) Tick(ws *worldstate.WorldState, prox ProximityContext, tick uint64, dtSeconds float64, respawnEnabled bool) []DeathNotice {
	ids := ws.LivingAgentIDs()
	if len(ids) == 0 {
		return nil
	}

	cohortNeeds := make([]*worldstate.AgentNeeds, 0, len(ids))
	cohortAgents := make([]*worldstate.Agent, 0, len(ids))
	cohortAI := make([]*worldstate.AgentAIState, 0, len(ids))
	for _, id := range ids {
		n := ws.Needs(id)
		a := ws.GetAgent(id)
		if n == nil || a == nil {
			continue
		}
		cohortNeeds = append(cohortNeeds, n)
		cohortAgents = append(cohortAgents, a)
		cohortAI = append(cohortAI, ws.AIState(id))
	}

	if len(cohortNeeds) >= s.cfg.BatchThreshold {
		decayBatch(cohortNeeds, cohortAgents, cohortAI, s.cfg, dtSeconds)
	} else {
		for i, n := range cohortNeeds {
			decayScalar(n, cohortAgents[i], cohortAI[i], s.cfg, dtSeconds)
		}
	}

	for i := range cohortNeeds {
		s.consume(ws, cohortAgents[i].ID, cohortNeeds[i])
		s.applyZoneBonus(ws, cohortAgents[i], cohortNeeds[i])
		s.applyCrossEffects(cohortNeeds[i], dtSeconds)
		cohortNeeds[i].Clamp()
	}

	s.moraleBoost(ws, cohortAgents, cohortNeeds, prox)

	return s.checkDeaths(ws, cohortAgents, cohortNeeds, tick, respawnEnabled)
}

// consume implements Section 4.5 "Consumption": eat/drink from inventory
// if hungry/thirsty and stocked, otherwise attempt a single short-range
// gather followed immediately by a consume.
func (s *NeedsSystem) consume(ws *worldstate.WorldState, id worldstate.AgentID, n *worldstate.AgentNeeds) {
	s.consumeOne(ws, id, n, worldstate.NeedHunger, worldstate.ResourceFood, 70, 15)
	s.consumeOne(ws, id, n, worldstate.NeedThirst, worldstate.ResourceWater, 70, 20)
}

func (s *NeedsSystem) consumeOne(ws *worldstate.WorldState, id worldstate.AgentID, n *worldstate.AgentNeeds, need worldstate.NeedKind, kind worldstate.ResourceKind, satisfyBelow, restorePerUnit float64) {
	value := n.Get(need)
	if value >= satisfyBelow {
		return
	}
	urgency := 1
	if value < 50 {
		urgency = 2
	}

	inv := ws.AgentInventory(id)
	if inv.Get(kind) == 0 {
		s.gather(ws, id, kind)
		inv = ws.AgentInventory(id)
	}
	if inv.Get(kind) == 0 {
		return
	}
	amount := urgency
	if stock := inv.Get(kind); amount > stock {
		amount = stock
	}
	removed := inv.Remove(kind, amount)
	n.Add(need, float64(removed)*restorePerUnit)
}

// gather attempts a single short-range harvest from a nearby world
// resource (berry bush for hunger, ocean tile for thirst) directly into
// the agent's inventory, so the immediately-following consume can proceed.
func (s *NeedsSystem) gather(ws *worldstate.WorldState, id worldstate.AgentID, kind worldstate.ResourceKind) {
	agent := ws.GetAgent(id)
	if agent == nil {
		return
	}
	switch kind {
	case worldstate.ResourceFood:
		for _, r := range ws.ResourcesByType(worldstate.ResourceTypeBerryBush) {
			if r.State != worldstate.ResourcePristine || r.RemainingYield <= 0 {
				continue
			}
			if chebyshev(agent.Position, r.Position) > 1 {
				continue
			}
			r.RemainingYield--
			if r.RemainingYield <= 0 {
				ws.MarkResourceDepleted(r.ID, 0, false)
			}
			ws.AgentInventory(id).Add(kind, 1)
			return
		}
	case worldstate.ResourceWater:
		tile := ws.Tiles.Get(agent.Position.X, agent.Position.Y)
		if tile != nil && tile.Type == worldstate.TerrainOcean {
			if ws.Tiles.ConsumeWater(tile.TileX, tile.TileY, 1) > 0 {
				ws.AgentInventory(id).Add(kind, 1)
			}
		}
	}
}

func chebyshev(a, b worldstate.Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// applyZoneBonus adds the configured per-tick bonus when an agent stands
// inside a hygiene/social/fun/mental zone (Section 4.5 "Zone bonuses").
func (s *NeedsSystem) applyZoneBonus(ws *worldstate.WorldState, a *worldstate.Agent, n *worldstate.AgentNeeds) {
	z := ws.ZoneAt(a.Position)
	if z == nil {
		return
	}
	bonus, ok := s.cfg.ZoneBonuses[z.Type]
	if !ok {
		return
	}
	n.Add(bonus.Need, bonus.Bonus)
}

// applyCrossEffects implements Section 4.5 "Cross-effects": low energy
// accelerates social/fun/mental decay; low hunger/thirst accelerates
// energy decay. Applied after primary decay, strictly one-way.
func (s *NeedsSystem) applyCrossEffects(n *worldstate.AgentNeeds, dt float64) {
	if n.Energy < 30 {
		n.Add(worldstate.NeedSocial, -0.05*dt)
		n.Add(worldstate.NeedFun, -0.05*dt)
		n.Add(worldstate.NeedMentalHealth, -0.05*dt)
	}
	if n.Hunger < 40 || n.Thirst < 30 {
		n.Add(worldstate.NeedEnergy, -0.1*dt)
	}
}

// moraleBoost gives each agent a social/fun bonus proportional to the
// average positive affinity of nearby agents (Section 4.8 "Morale boost",
// run here since it rides the NeedsSystem batch path when possible).
func (s *NeedsSystem) moraleBoost(ws *worldstate.WorldState, agents []*worldstate.Agent, needsList []*worldstate.AgentNeeds, prox ProximityContext) {
	if prox == nil {
		return
	}
	const radius = 6.0
	for i, a := range agents {
		nearby := prox.QueryRadius(a.Position, radius)
		if len(nearby) == 0 {
			continue
		}
		var sum float64
		var count int
		for _, other := range nearby {
			if other == a.ID {
				continue
			}
			if edge := ws.Edge(a.ID, other); edge != nil && edge.Affinity > 0 {
				sum += edge.Affinity
				count++
			}
		}
		if count == 0 {
			continue
		}
		avg := sum / float64(count)
		needsList[i].Add(worldstate.NeedSocial, avg*0.5)
		needsList[i].Add(worldstate.NeedFun, avg*0.3)
	}
}

// checkDeaths scans the cohort for crossed death thresholds and emits
// AGENT_DEATH, deciding respawn-vs-delete per Section 4.5 "Death".
func (s *NeedsSystem) checkDeaths(ws *worldstate.WorldState, agents []*worldstate.Agent, needsList []*worldstate.AgentNeeds, tick uint64, respawnEnabled bool) []DeathNotice {
	var notices []DeathNotice
	for i, a := range agents {
		if a.IsImmortal || a.IsDead {
			continue
		}
		crossed := false
		for _, k := range s.cfg.DeathThresholds {
			if needsList[i].Get(k) <= 0 {
				crossed = true
				break
			}
		}
		if !crossed {
			continue
		}
		s.events.Emit(simevent.Event{Tick: tick, Kind: simevent.KindAgentDeath, AgentID: uint64(a.ID), Description: "agent needs crossed a death threshold"})
		if respawnEnabled {
			respawnAt := tick + uint64(s.cfg.RespawnDelaySec)*20 // ticks at the default 20Hz rate
			notices = append(notices, DeathNotice{AgentID: a.ID, RespawnAt: respawnAt, HasRespawn: true})
		} else {
			ws.ClearNeeds(a.ID)
			notices = append(notices, DeathNotice{AgentID: a.ID, HasRespawn: false})
		}
	}
	return notices
}
