package clock

import (
	"github.com/talgya/agentforge/internal/economy"
	"github.com/talgya/agentforge/internal/inventory"
	"github.com/talgya/agentforge/internal/movement"
	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/worldstate"
)

// actionExecutor dispatches a planner-chosen Action to the system that
// actually performs it (Section 4.9 step 5). It returns whether the
// action produced a successful harvest, consumed by the validator's
// completion check on the following tick.
type actionExecutor struct {
	movement  *movement.System
	inventory *inventory.System
	yields    *economy.YieldTracker
	events    *simevent.Bus
}

func newActionExecutor(mv *movement.System, inv *inventory.System, yields *economy.YieldTracker, events *simevent.Bus) *actionExecutor {
	return &actionExecutor{movement: mv, inventory: inv, yields: yields, events: events}
}

func (e *actionExecutor) Execute(ws *worldstate.WorldState, id worldstate.AgentID, action worldstate.Action, tick uint64) (harvested bool) {
	agent := ws.GetAgent(id)
	if agent == nil || agent.IsDead {
		return false
	}

	switch action.Kind {
	case worldstate.ActionIdle:
		// no-op

	case worldstate.ActionMove:
		pos, ok := targetPosition(ws, action.Target)
		if ok {
			e.movement.RequestMove(ws, id, pos, action.Target.ZoneID, action.Target.HasZone)
		}

	case worldstate.ActionHarvest:
		if action.Target.HasResource {
			return e.harvest(ws, id, action.Target.ResourceID)
		}

	case worldstate.ActionConsume:
		// Need satisfaction from inventory is handled by NeedsSystem's
		// own consume pipeline; nothing further to do here.

	case worldstate.ActionDeposit:
		if action.Target.HasZone {
			zone := ws.GetZone(action.Target.ZoneID)
			if zone != nil {
				inv := ws.AgentInventory(id)
				for _, kind := range worldstate.AllResourceKinds {
					amount := inv.Get(kind)
					if amount > 0 {
						e.inventory.TransferToZone(ws, id, action.Target.ZoneID, kind, amount)
					}
				}
			}
		}

	case worldstate.ActionWorkAct:
		if action.Target.HasZone {
			zone := ws.GetZone(action.Target.ZoneID)
			if zone != nil {
				resourceType := workResourceType(zone.Type)
				gained := e.yields.HandleWorkAction(ws, id, zone, resourceType, 0)
				return gained > 0
			}
		}

	case worldstate.ActionCraft, worldstate.ActionAttack, worldstate.ActionTrade,
		worldstate.ActionSocializeAct, worldstate.ActionRestAct:
		// Interface-level only (Section 2 "Supporting systems... specified
		// only at interface level"); the action is recorded on AIState but
		// has no further core-side effect here.
	}
	return false
}

func (e *actionExecutor) harvest(ws *worldstate.WorldState, id worldstate.AgentID, resID worldstate.ResourceID) bool {
	r := ws.GetResource(resID)
	if r == nil || r.State == worldstate.ResourceDepleted {
		return false
	}
	amount := 1.0
	if amount > r.RemainingYield {
		amount = r.RemainingYield
	}
	if amount <= 0 {
		return false
	}
	r.RemainingYield -= amount
	kind := r.Type.YieldKind()
	e.inventory.AddResource(ws, id, kind, int(amount))
	if r.RemainingYield <= 0 {
		ws.MarkResourceDepleted(r.ID, 0, false)
		e.events.Emit(simevent.Event{Kind: simevent.KindResourceGone, AgentID: uint64(id), Description: "resource depleted by harvest"})
	}
	return true
}

func workResourceType(zt worldstate.ZoneType) worldstate.ResourceType {
	switch zt {
	case worldstate.ZoneWork:
		return worldstate.ResourceTypeTree
	default:
		return worldstate.ResourceTypeTree
	}
}

func targetPosition(ws *worldstate.WorldState, t worldstate.GoalTarget) (worldstate.Position, bool) {
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
