package planner

import (
	"github.com/talgya/agentforge/internal/priority"
	"github.com/talgya/agentforge/internal/worldstate"
)

// Planner runs the full per-agent decision pipeline (Section 4.9): build
// context, validate the current goal, evaluate rules if needed, and
// resolve the winning goal to a primitive action via ActionPlanner.
type Planner struct {
	rules     []GoalRule
	validator *Validator
	actions   *ActionPlanner
	pm        *priority.Manager
}

// New creates a Planner with the default rule table.
func New(pm *priority.Manager) *Planner {
	return &Planner{
		rules:     DefaultRules(),
		validator: NewValidator(),
		actions:   NewActionPlanner(),
		pm:        pm,
	}
}

// Decide runs the pipeline for one agent and returns the primitive action
// to execute this tick, updating the agent's AIState in place. harvested
// reports whether the agent's previous action was a successful harvest,
// needed by the validator's completion check for resource goals.
func (p *Planner) Decide(ws *worldstate.WorldState, agentID worldstate.AgentID, lookup SpatialLookup, scarcity priority.ScarcityView, tick uint64, harvested bool) worldstate.Action {
	ai := ws.AIState(agentID)
	agent := ws.GetAgent(agentID)
	if ai == nil || agent == nil || agent.IsDead || ai.OffDuty {
		return worldstate.Action{Kind: worldstate.ActionIdle}
	}

	p.validator.Refresh(ai, ws, agentID, tick, harvested)

	if ai.CurrentGoal == nil {
		ctx, ok := BuildGoalContext(ws, agentID, lookup, tick)
		if !ok {
			return worldstate.Action{Kind: worldstate.ActionIdle}
		}
		rule, prio, found := EvaluateRules(p.rules, ctx, p.pm, agent, scarcity)
		if !found {
			return worldstate.Action{Kind: worldstate.ActionIdle}
		}
		target := goalTargetFor(rule, ctx)
		goal := worldstate.Goal{Type: rule.GoalType, Target: target, CreatedAt: tick, RuleID: rule.ID}
		ai.CurrentGoal = &goal
		_ = prio
	}

	action := p.actions.Plan(ws, agentID, *ai.CurrentGoal)
	ai.CurrentAction = &action
	ai.LastDecision = tick
	return action
}

// goalTargetFor picks the target carried on the context matching the
// rule's goal type, falling back to an empty target (handled by bespoke
// planners, e.g. explore).
func goalTargetFor(rule GoalRule, ctx GoalContext) worldstate.GoalTarget {
	switch rule.GoalType {
	case worldstate.GoalSatisfyHunger:
		if ctx.HasNearestFood {
			return ctx.NearestFood
		}
	case worldstate.GoalSatisfyThirst:
		if ctx.HasNearestWater {
			return ctx.NearestWater
		}
	case worldstate.GoalSocialize, worldstate.GoalHaveFun:
		if ctx.HasNearestAgent {
			return worldstate.GoalTarget{HasAgent: true, AgentID: ctx.NearestAgent}
		}
	case worldstate.GoalDeposit:
		if ctx.Flags.HasDepositZone {
			return worldstate.GoalTarget{HasZone: true, ZoneID: ctx.Flags.DepositZoneID}
		}
	case worldstate.GoalCraft:
		if ctx.Flags.HasCraftZone {
			return worldstate.GoalTarget{HasZone: true, ZoneID: ctx.Flags.CraftZoneID}
		}
	}
	return worldstate.GoalTarget{}
}
