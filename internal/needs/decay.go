package needs

import (
	"gonum.org/v1/gonum/floats"

	"github.com/talgya/agentforge/internal/worldstate"
)

// actionEnergyMultiplier returns the energy-decay multiplier for an
// agent's current action (Section 4.5: "sleep -5, idle -0.5, work x1.5,
// move x2.0"). Negative multipliers are recovery (negative decay).
func actionEnergyMultiplier(a *worldstate.Agent, ai *worldstate.AgentAIState) float64 {
	if ai == nil || ai.CurrentAction == nil {
		return -0.5 // idle recovers
	}
	switch ai.CurrentAction.Kind {
	case worldstate.ActionRestAct:
		return -5.0
	case worldstate.ActionWorkAct:
		return 1.5
	case worldstate.ActionMove:
		return 2.0
	case worldstate.ActionIdle:
		return -0.5
	default:
		return 1.0
	}
}

// decayScalar applies one agent's per-need decay in place, the
// straight-line (non-batch) path used when the cohort is small.
func decayScalar(n *worldstate.AgentNeeds, a *worldstate.Agent, ai *worldstate.AgentAIState, cfg Config, dt float64) {
	ageMul := a.LifeStage.AgeMultiplier()
	for _, k := range worldstate.AllNeedKinds {
		rate := cfg.DecayRates[k]
		actionMul := 1.0
		if k == worldstate.NeedEnergy {
			actionMul = actionEnergyMultiplier(a, ai)
		}
		n.Add(k, -rate*ageMul*actionMul*dt)
	}
}

// decayBatch vectorises decay across a cohort using gonum/floats: build
// one dense array per need kind across all agents, scale in one sweep,
// subtract, then scatter back (Section 4.5 "Batch fast path").
func decayBatch(cohort []*worldstate.AgentNeeds, agents []*worldstate.Agent, aiStates []*worldstate.AgentAIState, cfg Config, dt float64) {
	n := len(cohort)
	if n == 0 {
		return
	}
	ageMul := make([]float64, n)
	for i, a := range agents {
		ageMul[i] = a.LifeStage.AgeMultiplier()
	}

	for _, k := range worldstate.AllNeedKinds {
		rate := cfg.DecayRates[k]

		current := make([]float64, n)
		actionMul := make([]float64, n)
		for i := range cohort {
			current[i] = cohort[i].Get(k)
			if k == worldstate.NeedEnergy {
				actionMul[i] = actionEnergyMultiplier(agents[i], aiStates[i])
			} else {
				actionMul[i] = 1.0
			}
		}

		// delta[i] = rate * ageMul[i] * actionMul[i] * dt
		delta := make([]float64, n)
		floats.AddScaled(delta, rate*dt, ageMul)
		floats.Mul(delta, actionMul)
		floats.Sub(current, delta)

		for i := range cohort {
			cohort[i].Set(k, current[i])
		}
	}
}
