package command

import (
	"github.com/talgya/agentforge/internal/lifecycle"
	"github.com/talgya/agentforge/internal/social"
	"github.com/talgya/agentforge/internal/worldstate"
)

// Dispatcher applies drained commands against WorldState and the
// supporting systems a command needs to reach (Section 4.1 step 1,
// "Drain commands"). It never blocks: every command either mutates
// state synchronously or is rejected with a Result.
type Dispatcher struct {
	lifecycle *lifecycle.System
	social    *social.System
}

// NewDispatcher wires a Dispatcher to the subsystems commands can reach.
func NewDispatcher(lc *lifecycle.System, soc *social.System) *Dispatcher {
	return &Dispatcher{lifecycle: lc, social: soc}
}

// TimeScale is set by SET_TIME_SCALE and read by the runner; Dispatcher
// only records the latest value, the runner applies it between ticks.
type TimeScale struct {
	Multiplier float64
}

// Apply applies one command, returning its tagged result
// (Section 7 "Propagation policy").
func (d *Dispatcher) Apply(ws *worldstate.WorldState, cmd Command, tick uint64, scale *TimeScale) Result {
	switch cmd.Kind {
	case KindSetTimeScale:
		if cmd.TimeScaleMultiplier <= 0 {
			return Failed("invalid_time_scale", "multiplier must be positive")
		}
		scale.Multiplier = cmd.TimeScaleMultiplier
		return Ok()

	case KindApplyResourceDelta:
		if ws.GlobalMaterials == nil {
			ws.GlobalMaterials = make(map[worldstate.ResourceKind]int)
		}
		next := ws.GlobalMaterials[cmd.ResourceKind] + cmd.ResourceDelta
		if next < 0 {
			next = 0
		}
		ws.GlobalMaterials[cmd.ResourceKind] = next
		return Ok()

	case KindGatherResource:
		r := ws.GetResource(cmd.ResourceID)
		if r == nil {
			return Failed("unknown_resource", "no such world resource")
		}
		if r.State == worldstate.ResourceDepleted {
			return Failed("resource_depleted", "resource is depleted")
		}
		gathered := cmd.Amount
		if float64(gathered) > r.RemainingYield {
			gathered = int(r.RemainingYield)
		}
		r.RemainingYield -= float64(gathered)
		if r.RemainingYield <= 0 {
			ws.MarkResourceDepleted(r.ID, tick+1200, true)
		}
		return Ok()

	case KindGiveResource:
		agent := ws.GetAgent(cmd.AgentID)
		if agent == nil || agent.IsDead {
			return Failed("unknown_agent", "agent does not exist or is dead")
		}
		inv := ws.AgentInventory(cmd.AgentID)
		added := inv.Add(cmd.ResourceKind, cmd.Amount)
		if added < cmd.Amount {
			return Result{Status: StatusCompleted, Reason: "inventory at capacity, partial add"}
		}
		return Ok()

	case KindSpawnAgent:
		profile := cmd.Profile
		d.lifecycle.Spawn(ws, profile, tick)
		return Ok()

	case KindKillAgent:
		agent := ws.GetAgent(cmd.AgentID)
		if agent == nil {
			return Failed("unknown_agent", "agent does not exist")
		}
		d.lifecycle.Kill(ws, cmd.AgentID, tick)
		return Ok()

	case KindNeedsCommand:
		return d.applyNeedsCommand(ws, cmd)

	case KindSocialCommand:
		return d.applySocialCommand(ws, cmd, tick)

	case KindAgentCommand, KindBuildingCommand, KindTaskCommand, KindTimeCommand, KindSaveGame:
		// Handled by the runner/persistence layer, which has the
		// context (config, save store) Dispatcher intentionally lacks.
		return Result{Status: StatusDelegated}

	default:
		return Failed("unknown_command", "unrecognised command kind")
	}
}

func (d *Dispatcher) applyNeedsCommand(ws *worldstate.WorldState, cmd Command) Result {
	n := ws.Needs(cmd.AgentID)
	if n == nil {
		return Failed("unknown_agent", "agent has no needs record")
	}
	switch cmd.NeedsSub {
	case NeedsSatisfy:
		n.Set(cmd.NeedKind, 100)
	case NeedsModify:
		n.Add(cmd.NeedKind, cmd.NeedValue)
	case NeedsUpdateConfig:
		return Result{Status: StatusDelegated}
	default:
		return Failed("unknown_needs_subcommand", "unrecognised needs subcommand")
	}
	return Ok()
}

func (d *Dispatcher) applySocialCommand(ws *worldstate.WorldState, cmd Command, tick uint64) Result {
	switch cmd.SocialSub {
	case SocialSetAffinity:
		edge := worldstate.SocialEdge{A: cmd.AgentID, B: cmd.OtherAgent, Affinity: clampAffinity(cmd.Affinity), LastInteraction: tick}
		ws.SetEdge(edge)
		d.social.RecomputeGroups(ws, tick)
		return Ok()
	case SocialModifyAffinity:
		d.social.ModifyAffinity(ws, cmd.AgentID, cmd.OtherAgent, cmd.Affinity, tick)
		return Ok()
	case SocialFriendlyInteraction:
		d.social.ModifyAffinity(ws, cmd.AgentID, cmd.OtherAgent, 0.1, tick)
		return Ok()
	case SocialHostileEncounter:
		d.social.ModifyAffinity(ws, cmd.AgentID, cmd.OtherAgent, -0.2, tick)
		return Ok()
	case SocialImposeTruce:
		d.social.ModifyAffinity(ws, cmd.AgentID, cmd.OtherAgent, 0, tick)
		return Ok()
	case SocialRemoveRelationships:
		ws.RemoveEdgesFor(cmd.AgentID)
		return Ok()
	default:
		return Failed("unknown_social_subcommand", "unrecognised social subcommand")
	}
}

func clampAffinity(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
