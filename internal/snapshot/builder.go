// Package snapshot serialises a consistent view of WorldState into an
// immutable outbound payload (Section 4.11). It is the sole boundary
// between the deterministic core and the transport layer — transport
// never reaches back into WorldState.
package snapshot

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/worldstate"
)

// AgentView is the serialised projection of one agent.
type AgentView struct {
	ID       uint64            `msgpack:"id"`
	Position worldstate.Position `msgpack:"pos"`
	Role     uint8             `msgpack:"role"`
	IsDead   bool              `msgpack:"is_dead"`
	Health   float64           `msgpack:"health"`
	Morale   float64           `msgpack:"morale"`
	Money    int64             `msgpack:"money"`
	Needs    NeedsView         `msgpack:"needs"`
	Goal     *GoalView         `msgpack:"goal,omitempty"`
}

// NeedsView flattens AgentNeeds for the wire.
type NeedsView struct {
	Hunger       float64 `msgpack:"hunger"`
	Thirst       float64 `msgpack:"thirst"`
	Energy       float64 `msgpack:"energy"`
	Hygiene      float64 `msgpack:"hygiene"`
	Social       float64 `msgpack:"social"`
	Fun          float64 `msgpack:"fun"`
	MentalHealth float64 `msgpack:"mental_health"`
}

// GoalView is a short summary of an agent's current goal, not the full
// planner state.
type GoalView struct {
	Type string `msgpack:"type"`
	Rule string `msgpack:"rule"`
}

// AnimalView is the serialised projection of one animal.
type AnimalView struct {
	ID       uint64              `msgpack:"id"`
	Position worldstate.Position `msgpack:"pos"`
	Species  string              `msgpack:"species"`
	IsDead   bool                `msgpack:"is_dead"`
}

// ResourceView is the serialised projection of one world resource.
type ResourceView struct {
	ID       uint64              `msgpack:"id"`
	Type     string              `msgpack:"type"`
	Position worldstate.Position `msgpack:"pos"`
	State    string              `msgpack:"state"`
}

// ZoneView is the serialised projection of one zone.
type ZoneView struct {
	ID     uint64              `msgpack:"id"`
	Type   string              `msgpack:"type"`
	Bounds worldstate.Bounds   `msgpack:"bounds"`
}

// MarketPriceView is one resource kind's current price.
type MarketPriceView struct {
	Kind  string `msgpack:"kind"`
	Price int    `msgpack:"price"`
}

// EventView is the serialised projection of one simulation event.
type EventView struct {
	Kind        string `msgpack:"kind"`
	AgentID     uint64 `msgpack:"agent_id"`
	Description string `msgpack:"description"`
}

// Snapshot is the complete immutable payload handed to the transport
// layer for one tick (Section 4.11).
type Snapshot struct {
	Tick      uint64            `msgpack:"tick"`
	Agents    []AgentView       `msgpack:"agents"`
	Animals   []AnimalView      `msgpack:"animals"`
	Resources []ResourceView    `msgpack:"resources"`
	Zones     []ZoneView        `msgpack:"zones"`
	Prices    []MarketPriceView `msgpack:"prices"`
	Events    []EventView       `msgpack:"events"`
}

// Builder folds WorldState into Snapshot payloads, deduplicating
// consecutive ticks with identical tick numbers (Section 4.11: "reuses
// the previously serialised buffer when ticks are identical").
type Builder struct {
	events      *simevent.Bus
	lastTick    uint64
	hasLast     bool
	lastBuffer  []byte
}

// New creates a snapshot builder bound to the shared event bus so it can
// pull this tick's rolling event list.
func New(events *simevent.Bus) *Builder {
	return &Builder{events: events}
}

// Build assembles a Snapshot from the current WorldState. The caller is
// expected to hold WorldState read-only for the duration (Section 5).
func (b *Builder) Build(ws *worldstate.WorldState, tick uint64) Snapshot {
	ids := ws.AgentIDs()
	agents := make([]AgentView, 0, len(ids))
	for _, id := range ids {
		agent := ws.GetAgent(id)
		if agent == nil {
			continue
		}
		view := AgentView{
			ID:       uint64(id),
			Position: agent.Position,
			Role:     uint8(agent.Role),
			IsDead:   agent.IsDead,
			Health:   agent.Stats.Health,
			Morale:   agent.Stats.Morale,
			Money:    agent.Stats.Money,
		}
		if n := ws.Needs(id); n != nil {
			view.Needs = NeedsView{
				Hunger:       n.Get(worldstate.NeedHunger),
				Thirst:       n.Get(worldstate.NeedThirst),
				Energy:       n.Get(worldstate.NeedEnergy),
				Hygiene:      n.Get(worldstate.NeedHygiene),
				Social:       n.Get(worldstate.NeedSocial),
				Fun:          n.Get(worldstate.NeedFun),
				MentalHealth: n.Get(worldstate.NeedMentalHealth),
			}
		}
		if ai := ws.AIState(id); ai != nil && ai.CurrentGoal != nil {
			view.Goal = &GoalView{Type: ai.CurrentGoal.Type.String(), Rule: ai.CurrentGoal.RuleID}
		}
		agents = append(agents, view)
	}

	animalRecords := ws.AllAnimals()
	animals := make([]AnimalView, 0, len(animalRecords))
	for _, a := range animalRecords {
		animals = append(animals, AnimalView{ID: uint64(a.ID), Position: a.Position, Species: a.Species, IsDead: a.IsDead})
	}

	resourceRecords := ws.AllResources()
	resources := make([]ResourceView, 0, len(resourceRecords))
	for _, r := range resourceRecords {
		state := "pristine"
		if r.State == worldstate.ResourceDepleted {
			state = "depleted"
		}
		resources = append(resources, ResourceView{ID: uint64(r.ID), Type: r.Type.String(), Position: r.Position, State: state})
	}

	zoneRecords := ws.AllZones()
	zones := make([]ZoneView, 0, len(zoneRecords))
	for _, z := range zoneRecords {
		zones = append(zones, ZoneView{ID: uint64(z.ID), Type: z.Type.String(), Bounds: z.Bounds})
	}

	var prices []MarketPriceView
	if ws.Market != nil {
		for _, entry := range ws.Market.SortedEntries() {
			prices = append(prices, MarketPriceView{Kind: entry.Kind.String(), Price: entry.Price})
		}
	}

	var events []EventView
	if b.events != nil {
		for _, e := range b.events.Recent() {
			if e.Tick != tick {
				continue
			}
			events = append(events, EventView{Kind: string(e.Kind), AgentID: e.AgentID, Description: e.Description})
		}
	}

	return Snapshot{
		Tick:      tick,
		Agents:    agents,
		Animals:   animals,
		Resources: resources,
		Zones:     zones,
		Prices:    prices,
		Events:    events,
	}
}

// Encode returns the msgpack-encoded buffer for tick, reusing the last
// encoded buffer when the requested tick matches the last one built
// (Section 4.11 "reuses the previously serialised buffer when ticks are
// identical"). Only the last tick's buffer is cached — earlier ticks are
// always re-encoded.
func (b *Builder) Encode(ws *worldstate.WorldState, tick uint64) ([]byte, error) {
	if b.hasLast && b.lastTick == tick && b.lastBuffer != nil {
		return b.lastBuffer, nil
	}
	snap := b.Build(ws, tick)
	buf, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, err
	}
	b.lastTick = tick
	b.hasLast = true
	b.lastBuffer = buf
	return buf, nil
}
