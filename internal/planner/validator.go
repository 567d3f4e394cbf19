package planner

import "github.com/talgya/agentforge/internal/worldstate"

const goalTimeoutTicks = 1200 // 60s at 20Hz (Section 4.9 "exceeded 60 s from creation")

// Validator checks whether an agent's current goal is still valid or has
// completed (Section 4.9 step 2, "AIGoalValidator").
type Validator struct{}

// NewValidator returns a validator. It holds no state — every check reads
// directly from WorldState.
func NewValidator() *Validator { return &Validator{} }

// IsComplete reports whether goal has been satisfied given the agent's
// current state. Resource/harvest goals only complete on a successful
// harvest (tracked via the harvested flag passed in by the executor), not
// merely on arrival.
func (v *Validator) IsComplete(goal *worldstate.Goal, ws *worldstate.WorldState, agentID worldstate.AgentID, harvested bool) bool {
	if goal == nil {
		return true
	}
	needs := ws.Needs(agentID)
	if needs == nil {
		return true
	}
	switch goal.Type {
	case worldstate.GoalSatisfyHunger:
		return needs.Hunger > 70
	case worldstate.GoalSatisfyThirst:
		return needs.Thirst > 70
	case worldstate.GoalRest:
		return needs.Energy > 70
	case worldstate.GoalHygiene:
		return needs.Hygiene > 70
	case worldstate.GoalSocialize:
		return needs.Social > 70
	case worldstate.GoalHaveFun:
		return needs.Fun > 70
	case worldstate.GoalHunt, worldstate.GoalWork, worldstate.GoalCraft:
		return harvested
	default:
		return harvested
	}
}

// IsInvalid reports whether goal's target has vanished or it has timed out
// (Section 4.9 step 2).
func (v *Validator) IsInvalid(goal *worldstate.Goal, ws *worldstate.WorldState, tick uint64) bool {
	if goal == nil {
		return true
	}
	if tick > goal.CreatedAt && tick-goal.CreatedAt > goalTimeoutTicks {
		return true
	}
	t := goal.Target
	if t.HasAgent {
		agent := ws.GetAgent(t.AgentID)
		if agent == nil || agent.IsDead {
			return true
		}
	}
	if t.HasZone {
		if ws.GetZone(t.ZoneID) == nil {
			return true
		}
	}
	if t.HasResource {
		r := ws.GetResource(t.ResourceID)
		if r == nil || r.State == worldstate.ResourceDepleted {
			return true
		}
	}
	return false
}

// Refresh clears the agent's current goal if it is complete or invalid,
// returning whether a goal now needs to be (re)selected.
func (v *Validator) Refresh(ai *worldstate.AgentAIState, ws *worldstate.WorldState, agentID worldstate.AgentID, tick uint64, harvested bool) bool {
	if ai.CurrentGoal == nil {
		return true
	}
	if v.IsComplete(ai.CurrentGoal, ws, agentID, harvested) || v.IsInvalid(ai.CurrentGoal, ws, tick) {
		ai.CurrentGoal = nil
		ai.CurrentAction = nil
		return true
	}
	return false
}
