package planner

import (
	"sort"

	"github.com/talgya/agentforge/internal/priority"
	"github.com/talgya/agentforge/internal/worldstate"
)

// GoalRule is one declarative entry in the planner's ordered rule table
// (Section 4.9 step 3). Rule evaluation order is fixed by RuleID's
// position in the table; ties in final priority break by RuleID
// lexicographically, making the whole pipeline deterministic.
type GoalRule struct {
	ID          string
	GoalType    worldstate.AIGoalType
	Category    priority.Domain
	Condition   func(GoalContext) bool
	Priority    func(GoalContext) float64
	HasMinPriority bool
	MinPriority float64
	IsCritical  bool
}

// DefaultRules returns the goal rule table, ordered the way the teacher's
// Tier0Decide dispatches by need priority (survival first, then safety,
// belonging, esteem, default) but generalised to the specification's
// seven needs plus combat/explore/work/contribute goals.
func DefaultRules() []GoalRule {
	return []GoalRule{
		{
			ID: "flee_predator", GoalType: worldstate.GoalFlee, Category: priority.DomainFlee,
			Condition: func(c GoalContext) bool { return c.Flags.NearbyPredators || c.Flags.HasEnemiesNearby },
			Priority:  func(GoalContext) float64 { return 0.95 },
			IsCritical: true,
		},
		{
			ID: "satisfy_hunger_critical", GoalType: worldstate.GoalSatisfyHunger, Category: priority.DomainSurvival,
			Condition: func(c GoalContext) bool { return c.Needs.Hunger < 15 },
			Priority:  func(GoalContext) float64 { return 0.95 },
			IsCritical: true,
		},
		{
			ID: "satisfy_thirst_critical", GoalType: worldstate.GoalSatisfyThirst, Category: priority.DomainSurvival,
			Condition: func(c GoalContext) bool { return c.Needs.Thirst < 15 },
			Priority:  func(GoalContext) float64 { return 0.95 },
			IsCritical: true,
		},
		{
			ID: "satisfy_hunger", GoalType: worldstate.GoalSatisfyHunger, Category: priority.DomainSurvival,
			Condition: func(c GoalContext) bool { return c.Needs.Hunger < 50 },
			Priority:  func(c GoalContext) float64 { return 0.8 },
		},
		{
			ID: "satisfy_thirst", GoalType: worldstate.GoalSatisfyThirst, Category: priority.DomainSurvival,
			Condition: func(c GoalContext) bool { return c.Needs.Thirst < 50 },
			Priority:  func(c GoalContext) float64 { return 0.8 },
		},
		{
			ID: "rest_low_energy", GoalType: worldstate.GoalRest, Category: priority.DomainRest,
			Condition: func(c GoalContext) bool { return c.Needs.Energy < 30 },
			Priority:  func(c GoalContext) float64 { return 0.7 },
		},
		{
			ID: "hygiene_low", GoalType: worldstate.GoalHygiene, Category: priority.DomainLogistics,
			Condition: func(c GoalContext) bool { return c.Needs.Hygiene < 30 },
			Priority:  func(GoalContext) float64 { return 0.5 },
		},
		{
			ID: "socialize_low", GoalType: worldstate.GoalSocialize, Category: priority.DomainSocial,
			Condition: func(c GoalContext) bool { return c.Needs.Social < 30 && c.HasNearestAgent },
			Priority:  func(GoalContext) float64 { return 0.5 },
		},
		{
			ID: "have_fun_low", GoalType: worldstate.GoalHaveFun, Category: priority.DomainSocial,
			Condition: func(c GoalContext) bool { return c.Needs.Fun < 30 },
			Priority:  func(GoalContext) float64 { return 0.45 },
		},
		{
			ID: "deposit_excess", GoalType: worldstate.GoalDeposit, Category: priority.DomainLogistics,
			Condition: func(c GoalContext) bool { return c.Flags.HasExcessResources && c.Flags.HasDepositZone },
			Priority:  func(GoalContext) float64 { return 0.55 },
		},
		{
			ID: "contribute_building", GoalType: worldstate.GoalContributeTask, Category: priority.DomainWork,
			Condition: func(c GoalContext) bool { return c.Flags.HasContributableBuilding },
			Priority:  func(GoalContext) float64 { return 0.5 },
		},
		{
			ID: "craft_at_zone", GoalType: worldstate.GoalCraft, Category: priority.DomainCrafting,
			Condition: func(c GoalContext) bool { return c.Flags.HasCraftZone && c.Role == worldstate.RoleCraftsman },
			Priority:  func(GoalContext) float64 { return 0.5 },
		},
		{
			ID: "work_default", GoalType: worldstate.GoalWork, Category: priority.DomainWork,
			Condition: func(c GoalContext) bool { return c.Role != worldstate.RoleIdle },
			Priority:  func(GoalContext) float64 { return 0.45 },
		},
		{
			ID: "explore_idle", GoalType: worldstate.GoalExplore, Category: priority.DomainExplore,
			Condition: func(c GoalContext) bool { return true },
			Priority:  func(GoalContext) float64 { return 0.2 },
		},
	}
}

// ruleChoice is an intermediate result of rule evaluation before the
// PriorityManager adjustment and final sort.
type ruleChoice struct {
	rule     GoalRule
	priority float64
}

// EvaluateRules runs the ordered rule table against ctx and returns the
// winning rule plus its final adjusted priority (Section 4.9 step 3).
func EvaluateRules(rules []GoalRule, ctx GoalContext, pm *priority.Manager, agent *worldstate.Agent, scarcity priority.ScarcityView) (GoalRule, float64, bool) {
	var choices []ruleChoice
	for _, rule := range rules {
		if !rule.Condition(ctx) {
			continue
		}
		base := rule.Priority(ctx)
		if rule.HasMinPriority && base < rule.MinPriority {
			continue
		}
		if rule.IsCritical && base > 0.9 {
			return rule, base, true
		}
		adjusted := pm.Adjust(agent, rule.Category, base, scarcity)
		choices = append(choices, ruleChoice{rule: rule, priority: adjusted})
	}
	if len(choices) == 0 {
		return GoalRule{}, 0, false
	}
	sort.SliceStable(choices, func(i, j int) bool {
		if choices[i].priority != choices[j].priority {
			return choices[i].priority > choices[j].priority
		}
		return choices[i].rule.ID < choices[j].rule.ID
	})
	top := choices[0]
	return top.rule, top.priority, true
}
