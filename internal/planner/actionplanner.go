package planner

import "github.com/talgya/agentforge/internal/worldstate"

// ActionCategory classifies how a goal type resolves to a primitive
// action (Section 4.9 step 4).
type ActionCategory uint8

const (
	CategoryRange  ActionCategory = iota // execute if within range, else MOVE
	CategoryZone                          // execute if inside zone, else MOVE to zone
	CategorySimple                        // return the action directly
	CategoryMove                          // always MOVE to target
	CategoryBespoke                       // hunt/explore/work: multi-step handler
)

// actionSpec is one entry in ActionPlanner's declarative goal-type table.
type actionSpec struct {
	Category ActionCategory
	Action   worldstate.ActionKind
	Range    int // tiles, for CategoryRange
}

// ActionPlanner maps a chosen goal to a primitive Action via a declarative
// table, with bespoke handlers for goal types that need multi-step
// resolution (Section 4.9 step 4 "hunt, explore, work").
type ActionPlanner struct {
	table map[worldstate.AIGoalType]actionSpec
}

// NewActionPlanner builds the default goal-type -> action mapping.
func NewActionPlanner() *ActionPlanner {
	return &ActionPlanner{
		table: map[worldstate.AIGoalType]actionSpec{
			worldstate.GoalSatisfyHunger:    {Category: CategoryRange, Action: worldstate.ActionHarvest, Range: 1},
			worldstate.GoalSatisfyThirst:    {Category: CategoryRange, Action: worldstate.ActionHarvest, Range: 1},
			worldstate.GoalRest:             {Category: CategoryZone, Action: worldstate.ActionRestAct},
			worldstate.GoalHygiene:          {Category: CategoryZone, Action: worldstate.ActionIdle},
			worldstate.GoalSocialize:        {Category: CategoryRange, Action: worldstate.ActionSocializeAct, Range: 2},
			worldstate.GoalHaveFun:          {Category: CategoryZone, Action: worldstate.ActionIdle},
			worldstate.GoalDeposit:          {Category: CategoryZone, Action: worldstate.ActionDeposit},
			worldstate.GoalFlee:             {Category: CategoryMove},
			worldstate.GoalFight:            {Category: CategoryRange, Action: worldstate.ActionAttack, Range: 1},
			worldstate.GoalContributeTask:   {Category: CategoryZone, Action: worldstate.ActionWorkAct},
			worldstate.GoalHunt:             {Category: CategoryBespoke},
			worldstate.GoalExplore:          {Category: CategoryBespoke},
			worldstate.GoalWork:             {Category: CategoryBespoke},
			worldstate.GoalCraft:            {Category: CategoryBespoke},
		},
	}
}

// Plan resolves a goal into a primitive action given the agent's current
// position (Section 4.9 step 4).
func (p *ActionPlanner) Plan(ws *worldstate.WorldState, agentID worldstate.AgentID, goal worldstate.Goal) worldstate.Action {
	spec, ok := p.table[goal.Type]
	if !ok {
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}

	switch spec.Category {
	case CategoryRange:
		return p.planRange(ws, agentID, goal, spec)
	case CategoryZone:
		return p.planZone(ws, agentID, goal, spec)
	case CategorySimple:
		return worldstate.Action{Kind: spec.Action, Target: goal.Target}
	case CategoryMove:
		return worldstate.Action{Kind: worldstate.ActionMove, Target: goal.Target}
	case CategoryBespoke:
		return p.planBespoke(ws, agentID, goal)
	default:
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}
}

func (p *ActionPlanner) planRange(ws *worldstate.WorldState, agentID worldstate.AgentID, goal worldstate.Goal, spec actionSpec) worldstate.Action {
	agent := ws.GetAgent(agentID)
	targetPos, ok := resolveTargetPosition(ws, goal.Target)
	if agent == nil || !ok {
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}
	if chebyshev(agent.Position, targetPos) <= spec.Range {
		return worldstate.Action{Kind: spec.Action, Target: goal.Target}
	}
	return worldstate.Action{Kind: worldstate.ActionMove, Target: goal.Target}
}

func (p *ActionPlanner) planZone(ws *worldstate.WorldState, agentID worldstate.AgentID, goal worldstate.Goal, spec actionSpec) worldstate.Action {
	agent := ws.GetAgent(agentID)
	if agent == nil {
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}
	if !goal.Target.HasZone {
		return worldstate.Action{Kind: worldstate.ActionMove, Target: goal.Target}
	}
	zone := ws.GetZone(goal.Target.ZoneID)
	if zone == nil {
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}
	if zone.Bounds.Contains(agent.Position) {
		return worldstate.Action{Kind: spec.Action, Target: goal.Target}
	}
	center := zone.Bounds.Center()
	return worldstate.Action{Kind: worldstate.ActionMove, Target: worldstate.GoalTarget{HasPos: true, Pos: center}}
}

// planBespoke handles the goal types that need multi-step resolution
// instead of a single declarative mapping (Section 4.9 step 4).
func (p *ActionPlanner) planBespoke(ws *worldstate.WorldState, agentID worldstate.AgentID, goal worldstate.Goal) worldstate.Action {
	agent := ws.GetAgent(agentID)
	if agent == nil {
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}
	switch goal.Type {
	case worldstate.GoalHunt:
		return p.planHunt(ws, agent, goal)
	case worldstate.GoalExplore:
		return p.planExplore(ws, agent, goal)
	case worldstate.GoalWork, worldstate.GoalCraft:
		return p.planWork(ws, agent, goal)
	default:
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}
}

// planHunt requires finding a huntable animal before it can resolve to a
// MOVE/ATTACK the way the declarative Range category would — if no animal
// is currently targeted, fall back to idle rather than wandering.
func (p *ActionPlanner) planHunt(ws *worldstate.WorldState, agent *worldstate.Agent, goal worldstate.Goal) worldstate.Action {
	if !goal.Target.HasAgent {
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}
	return worldstate.Action{Kind: worldstate.ActionMove, Target: goal.Target}
}

// planExplore generates a pseudo-random nearby target deterministically
// from the agent id and tick, so explore goals don't require a true RNG
// call on the hot path (determinism, Section 8 S6).
func (p *ActionPlanner) planExplore(ws *worldstate.WorldState, agent *worldstate.Agent, goal worldstate.Goal) worldstate.Action {
	seed := uint64(agent.ID)*2654435761 + goal.CreatedAt
	dx := int(seed%21) - 10
	dy := int((seed/21)%21) - 10
	target := worldstate.Position{X: agent.Position.X + dx, Y: agent.Position.Y + dy}
	return worldstate.Action{Kind: worldstate.ActionMove, Target: worldstate.GoalTarget{HasPos: true, Pos: target}}
}

// planWork works in the goal's zone when the agent is already inside it,
// otherwise works in or moves to the lowest-id work zone, and idles when
// no work zone exists —
// the economy system resolves the actual yield once ActionWorkAct executes.
func (p *ActionPlanner) planWork(ws *worldstate.WorldState, agent *worldstate.Agent, goal worldstate.Goal) worldstate.Action {
	if goal.Target.HasZone {
		zone := ws.GetZone(goal.Target.ZoneID)
		if zone != nil && zone.Bounds.Contains(agent.Position) {
			return worldstate.Action{Kind: worldstate.ActionWorkAct, Target: goal.Target}
		}
	}
	zones := ws.ZonesByType(worldstate.ZoneWork)
	if len(zones) == 0 {
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}
	zone := zones[0]
	if zone.Bounds.Contains(agent.Position) {
		return worldstate.Action{Kind: worldstate.ActionWorkAct, Target: worldstate.GoalTarget{HasZone: true, ZoneID: zone.ID}}
	}
	return worldstate.Action{Kind: worldstate.ActionMove, Target: worldstate.GoalTarget{HasPos: true, Pos: zone.Bounds.Center()}}
}

func resolveTargetPosition(ws *worldstate.WorldState, t worldstate.GoalTarget) (worldstate.Position, bool) {
	switch {
	case t.HasPos:
		return t.Pos, true
	case t.HasAgent:
		if a := ws.GetAgent(t.AgentID); a != nil {
			return a.Position, true
		}
	case t.HasResource:
		if r := ws.GetResource(t.ResourceID); r != nil {
			return r.Position, true
		}
	case t.HasZone:
		if z := ws.GetZone(t.ZoneID); z != nil {
			return z.Bounds.Center(), true
		}
	}
	return worldstate.Position{}, false
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
