package worldstate

import (
	"fmt"
	"sort"
)

// AgentProfile seeds a newly spawned agent (Section 6 "SPAWN_AGENT{profile?}").
type AgentProfile struct {
	Position    Position
	Role        Role
	LifeStage   LifeStage
	Personality Personality
	IsImmortal  bool
}

// WorldState is the struct-of-arrays container that owns every long-lived
// entity record (Section 4.2). Systems own derived indices keyed by agent
// id (needs, AI state, movement state) but WorldState owns the canonical
// Agent/Animal/WorldResource/Zone/TerrainTile/Inventory/Market records.
type WorldState struct {
	ids *IDAllocator

	agents      map[AgentID]*Agent
	agentOrder  []AgentID // insertion order, for deterministic iteration
	animals     map[AnimalID]*Animal
	resources   map[ResourceID]*WorldResource
	zones       map[ZoneID]*Zone
	Tiles       *TileGrid
	inventories map[AgentID]*Inventory
	aiStates    map[AgentID]*AgentAIState
	needs       map[AgentID]*AgentNeeds
	edges       map[SocialEdgeKey]*SocialEdge
	groups      map[AgentID]int // agent -> social group id, maintained by SocialSystem

	GlobalMaterials map[ResourceKind]int
	Market          *Market
}

// New creates an empty WorldState over the given terrain grid.
func New(tiles *TileGrid) *WorldState {
	return &WorldState{
		ids:             NewIDAllocator(),
		agents:          make(map[AgentID]*Agent),
		animals:         make(map[AnimalID]*Animal),
		resources:       make(map[ResourceID]*WorldResource),
		zones:           make(map[ZoneID]*Zone),
		Tiles:           tiles,
		inventories:     make(map[AgentID]*Inventory),
		aiStates:        make(map[AgentID]*AgentAIState),
		needs:           make(map[AgentID]*AgentNeeds),
		edges:           make(map[SocialEdgeKey]*SocialEdge),
		groups:          make(map[AgentID]int),
		GlobalMaterials: make(map[ResourceKind]int),
		Market:          NewMarket(DefaultBasePrices()),
	}
}

// AddAgent creates a new living agent from a profile and attaches its
// derived records (needs, AI state, inventory). Returns the new AgentID.
func (w *WorldState) AddAgent(profile AgentProfile) AgentID {
	id := AgentID(w.ids.Next())
	a := &Agent{
		ID:          id,
		Position:    profile.Position,
		Role:        profile.Role,
		LifeStage:   profile.LifeStage,
		IsImmortal:  profile.IsImmortal,
		Personality: profile.Personality,
		Memory:      NewMemory(),
		Stats:       Stats{Health: 100, Morale: 60, Money: 20},
	}
	w.agents[id] = a
	w.agentOrder = append(w.agentOrder, id)
	needs := NewAgentNeeds(100)
	w.needs[id] = &needs
	w.aiStates[id] = &AgentAIState{}
	inv := NewInventory(20)
	w.inventories[id] = &inv
	return id
}

// RemoveAgent permanently destroys an agent's record and every derived
// index entry (Section 3: permanent death has no respawn -> no record).
func (w *WorldState) RemoveAgent(id AgentID) {
	delete(w.agents, id)
	delete(w.needs, id)
	delete(w.aiStates, id)
	delete(w.inventories, id)
	delete(w.groups, id)
	for i, other := range w.agentOrder {
		if other == id {
			w.agentOrder = append(w.agentOrder[:i], w.agentOrder[i+1:]...)
			break
		}
	}
	for key := range w.edges {
		if key.A == id || key.B == id {
			delete(w.edges, key)
		}
	}
}

// GetAgent returns the agent record, or nil if it doesn't exist.
func (w *WorldState) GetAgent(id AgentID) *Agent {
	return w.agents[id]
}

// AgentIDs returns every agent id in deterministic (insertion) order.
func (w *WorldState) AgentIDs() []AgentID {
	out := make([]AgentID, len(w.agentOrder))
	copy(out, w.agentOrder)
	return out
}

// LivingAgentIDs returns every agent id whose record is not dead, in
// deterministic order.
func (w *WorldState) LivingAgentIDs() []AgentID {
	out := make([]AgentID, 0, len(w.agentOrder))
	for _, id := range w.agentOrder {
		if a := w.agents[id]; a != nil && !a.IsDead {
			out = append(out, id)
		}
	}
	return out
}

// Needs returns the needs record for an agent, or nil if it has none
// (dead with no respawn scheduled, or never spawned).
func (w *WorldState) Needs(id AgentID) *AgentNeeds {
	return w.needs[id]
}

// SetNeeds installs a needs record for an agent (used on spawn/respawn).
func (w *WorldState) SetNeeds(id AgentID, n AgentNeeds) {
	w.needs[id] = &n
}

// ClearNeeds removes an agent's needs record (permanent death).
func (w *WorldState) ClearNeeds(id AgentID) {
	delete(w.needs, id)
}

// AIState returns the AI planner state for an agent, or nil.
func (w *WorldState) AIState(id AgentID) *AgentAIState {
	return w.aiStates[id]
}

// AgentInventory returns the inventory for an agent, creating one if absent.
func (w *WorldState) AgentInventory(id AgentID) *Inventory {
	inv, ok := w.inventories[id]
	if !ok {
		n := NewInventory(20)
		inv = &n
		w.inventories[id] = inv
	}
	return inv
}

// TransferInventory moves up to amount units of kind from one inventory
// owner to another, respecting the destination's capacity, and returns the
// amount actually moved (Section 4.2 "inventory.transfer", invariant 2:
// transfer is exactly conservative).
func (w *WorldState) TransferInventory(from, to *Inventory, kind ResourceKind, amount int) int {
	if from == nil || to == nil || amount <= 0 {
		return 0
	}
	removed := from.Remove(kind, amount)
	if removed == 0 {
		return 0
	}
	added := to.Add(kind, removed)
	if added < removed {
		// Destination couldn't take it all — return the remainder to source
		// so the transfer is exactly conservative (invariant 2).
		from.Add(kind, removed-added)
	}
	return added
}

// AddResource registers a new world resource instance and returns its id.
func (w *WorldState) AddResource(r WorldResource) ResourceID {
	id := ResourceID(w.ids.Next())
	r.ID = id
	w.resources[id] = &r
	return id
}

// GetResource returns a world resource record, or nil.
func (w *WorldState) GetResource(id ResourceID) *WorldResource {
	return w.resources[id]
}

// ResourcesByType returns every non-deleted resource of the given type,
// sorted by id so callers get a deterministic (not map-iteration-order)
// pick and a stable snapshot encoding.
func (w *WorldState) ResourcesByType(t ResourceType) []*WorldResource {
	var out []*WorldResource
	for _, r := range w.resources {
		if r.Type == t {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllResources returns every world resource sorted by id, for
// indexing/snapshotting.
func (w *WorldState) AllResources() []*WorldResource {
	out := make([]*WorldResource, 0, len(w.resources))
	for _, r := range w.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MarkResourceDepleted transitions a resource to the depleted state,
// optionally with a regrowth tick (Section 3 "destroyed when fully
// depleted (or transitions to a regrowth timer)").
func (w *WorldState) MarkResourceDepleted(id ResourceID, regrowTick uint64, hasRegrow bool) {
	r, ok := w.resources[id]
	if !ok {
		return
	}
	r.State = ResourceDepleted
	r.RemainingYield = 0
	r.HasRegrow = hasRegrow
	r.RegrowTick = regrowTick
	if !hasRegrow {
		delete(w.resources, id)
	}
}

// AddZone registers a new zone and returns its id. Bounds are immutable
// after creation (Section 3 "Zone").
func (w *WorldState) AddZone(z Zone) ZoneID {
	id := ZoneID(w.ids.Next())
	z.ID = id
	if z.Stockpile.Counts == nil {
		z.Stockpile = NewInventory(z.Capacity)
	}
	w.zones[id] = &z
	return id
}

// GetZone returns a zone record, or nil.
func (w *WorldState) GetZone(id ZoneID) *Zone {
	return w.zones[id]
}

// AllZones returns every zone, sorted by id.
func (w *WorldState) AllZones() []*Zone {
	out := make([]*Zone, 0, len(w.zones))
	for _, z := range w.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ZoneAt returns the first zone whose bounds contain p, or nil.
func (w *WorldState) ZoneAt(p Position) *Zone {
	for _, z := range w.zones {
		if z.Bounds.Contains(p) {
			return z
		}
	}
	return nil
}

// ZonesByType returns every zone of the given type, sorted by id so
// repeated calls against identical state always pick the same zone first.
func (w *WorldState) ZonesByType(t ZoneType) []*Zone {
	var out []*Zone
	for _, z := range w.zones {
		if z.Type == t {
			out = append(out, z)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddAnimal registers an animal and returns its id.
func (w *WorldState) AddAnimal(a Animal) AnimalID {
	id := AnimalID(w.ids.Next())
	a.ID = id
	w.animals[id] = &a
	return id
}

// AllAnimals returns every animal, sorted by id.
func (w *WorldState) AllAnimals() []*Animal {
	out := make([]*Animal, 0, len(w.animals))
	for _, a := range w.animals {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edge returns the social edge for an unordered pair, or nil.
func (w *WorldState) Edge(a, b AgentID) *SocialEdge {
	return w.edges[EdgeKey(a, b)]
}

// SetEdge installs or replaces a social edge.
func (w *WorldState) SetEdge(e SocialEdge) {
	key := EdgeKey(e.A, e.B)
	e.A, e.B = key.A, key.B
	w.edges[key] = &e
}

// AllEdges returns every social edge.
func (w *WorldState) AllEdges() []*SocialEdge {
	out := make([]*SocialEdge, 0, len(w.edges))
	for _, e := range w.edges {
		out = append(out, e)
	}
	return out
}

// RemoveEdgesFor removes every edge touching an agent (used on death).
func (w *WorldState) RemoveEdgesFor(id AgentID) {
	for key := range w.edges {
		if key.A == id || key.B == id {
			delete(w.edges, key)
		}
	}
}

// Group returns an agent's social group id and whether it has one.
func (w *WorldState) Group(id AgentID) (int, bool) {
	g, ok := w.groups[id]
	return g, ok
}

// SetGroup assigns an agent's social group id.
func (w *WorldState) SetGroup(id AgentID, group int) {
	w.groups[id] = group
}

// Groups returns the full agent->group map (read-only use expected).
func (w *WorldState) Groups() map[AgentID]int {
	return w.groups
}

// TotalOf returns the total quantity of a resource kind across global
// materials, every agent inventory, and every zone stockpile — the
// conserved quantity referenced by invariant 3.
func (w *WorldState) TotalOf(kind ResourceKind) int {
	total := w.GlobalMaterials[kind]
	for _, inv := range w.inventories {
		total += inv.Get(kind)
	}
	for _, z := range w.zones {
		total += z.Stockpile.Get(kind)
	}
	return total
}

// String renders a short summary, useful in logs.
func (w *WorldState) String() string {
	return fmt.Sprintf("WorldState(agents=%d, resources=%d, zones=%d)", len(w.agents), len(w.resources), len(w.zones))
}
