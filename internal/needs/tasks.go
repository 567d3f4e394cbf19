package needs

import "github.com/talgya/agentforge/internal/worldstate"

// SpatialContext is the minimal read-only view of nearby entities the
// pending-task generator needs to attach a target to a task — satisfied
// by internal/clock's per-tick agent lookup, kept as an interface here so
// needs has no import on its implementer (it is the caller's job to build
// one per tick).
type SpatialContext interface {
	NearestAgent(from worldstate.Position, exclude worldstate.AgentID) (worldstate.AgentID, bool)
	NearestResourceOfType(from worldstate.Position, t worldstate.ResourceType) (worldstate.ResourceID, bool)
}

// calculatePriority maps a need's current value to an urgency score
// (Section 4.5 "getPendingTasks"). Social-family needs use a gentler curve.
func calculatePriority(value float64, social bool) float64 {
	if social {
		switch {
		case value < 15:
			return 0.6
		case value < 30:
			return 0.4
		default:
			return 0.6
		}
	}
	switch {
	case value < 15:
		return 0.95
	case value < 30:
		return 0.8
	default:
		return 0.6
	}
}

func isSocialFamily(k worldstate.NeedKind) bool {
	return k == worldstate.NeedSocial || k == worldstate.NeedFun || k == worldstate.NeedMentalHealth
}

func taskTypeFor(k worldstate.NeedKind) string {
	switch k {
	case worldstate.NeedEnergy:
		return "rest"
	case worldstate.NeedSocial, worldstate.NeedFun:
		return "socialize"
	default:
		return "satisfy_need"
	}
}

// GetPendingTasks is the sole producer of need-driven task descriptors
// (Section 4.5). It does not mutate state. No caller in the tick loop
// consumes the result: the AI planner builds its GoalContext from need
// values directly.
func (s *NeedsSystem) GetPendingTasks(agentID worldstate.AgentID, ws *worldstate.WorldState, ctx SpatialContext) []worldstate.TaskDescriptor {
	n := ws.Needs(agentID)
	if n == nil {
		return nil
	}
	agent := ws.GetAgent(agentID)
	if agent == nil {
		return nil
	}

	var tasks []worldstate.TaskDescriptor
	for _, k := range worldstate.AllNeedKinds {
		v := n.Get(k)
		if v >= s.cfg.LowThreshold {
			continue
		}
		td := worldstate.TaskDescriptor{
			Type:     taskTypeFor(k),
			Need:     k,
			Priority: calculatePriority(v, isSocialFamily(k)),
			Params:   map[string]string{"need": k.String(), "resource": resourceHintFor(k).String()},
		}
		if target, ok := s.targetFor(k, agent.Position, ws, ctx); ok {
			td.Target = target
			td.HasTarget = true
		}
		tasks = append(tasks, td)
	}
	return tasks
}

func resourceHintFor(k worldstate.NeedKind) worldstate.ResourceKind {
	switch k {
	case worldstate.NeedHunger:
		return worldstate.ResourceFood
	case worldstate.NeedThirst:
		return worldstate.ResourceWater
	default:
		return worldstate.ResourceFood
	}
}

func (s *NeedsSystem) targetFor(k worldstate.NeedKind, from worldstate.Position, ws *worldstate.WorldState, ctx SpatialContext) (worldstate.GoalTarget, bool) {
	if ctx == nil {
		return worldstate.GoalTarget{}, false
	}
	switch k {
	case worldstate.NeedHunger:
		if rid, ok := ctx.NearestResourceOfType(from, worldstate.ResourceTypeBerryBush); ok {
			return worldstate.GoalTarget{HasResource: true, ResourceID: rid}, true
		}
	case worldstate.NeedThirst:
		if rid, ok := ctx.NearestResourceOfType(from, worldstate.ResourceTypeWaterSource); ok {
			return worldstate.GoalTarget{HasResource: true, ResourceID: rid}, true
		}
	case worldstate.NeedSocial, worldstate.NeedFun:
		if aid, ok := ctx.NearestAgent(from, 0); ok {
			return worldstate.GoalTarget{HasAgent: true, AgentID: aid}, true
		}
	}
	for _, z := range ws.ZonesByType(zoneTypeFor(k)) {
		return worldstate.GoalTarget{HasZone: true, ZoneID: z.ID}, true
	}
	return worldstate.GoalTarget{}, false
}

func zoneTypeFor(k worldstate.NeedKind) worldstate.ZoneType {
	switch k {
	case worldstate.NeedHunger:
		return worldstate.ZoneFood
	case worldstate.NeedThirst:
		return worldstate.ZoneWater
	case worldstate.NeedEnergy:
		return worldstate.ZoneRest
	case worldstate.NeedHygiene:
		return worldstate.ZoneHygiene
	case worldstate.NeedSocial:
		return worldstate.ZoneSocial
	case worldstate.NeedFun:
		return worldstate.ZoneFun
	default:
		return worldstate.ZoneMental
	}
}
