// Package weather is a supporting system (spec.md Section 2 lists
// "time-of-day" among "Supporting systems... specified only at interface
// level", and Section 6 defines TIME_COMMAND{SET_WEATHER{type}} without
// specifying effects). Adapted from the teacher's internal/weather
// Conditions/modifier-table shape, stripped of its OpenWeatherMap HTTP
// client: the core stays deterministic and command-driven rather than
// reaching out to a live network call.
package weather

import "github.com/talgya/agentforge/internal/worldstate"

// Kind enumerates the recognised SET_WEATHER{type} values.
type Kind uint8

const (
	Clear Kind = iota
	Rain
	Storm
	Heatwave
	ColdSnap
)

// Modifiers holds the multiplier table one weather Kind applies.
type Modifiers struct {
	MovementCostMultiplier float64 // applied to tile traversal cost
	OutdoorZoneBonus       float64 // additive morale bonus/penalty for outdoor zones
	ThirstDecayMultiplier  float64 // applied to NeedsSystem thirst decay
}

// ParseKind maps a TIME_COMMAND{SET_WEATHER{type}} string payload
// (Section 6) to a Kind. Unrecognised strings fall back to Clear.
func ParseKind(s string) Kind {
	switch s {
	case "rain":
		return Rain
	case "storm":
		return Storm
	case "heatwave":
		return Heatwave
	case "cold_snap":
		return ColdSnap
	default:
		return Clear
	}
}

// String renders a Kind for logs/snapshots.
func (k Kind) String() string {
	switch k {
	case Rain:
		return "rain"
	case Storm:
		return "storm"
	case Heatwave:
		return "heatwave"
	case ColdSnap:
		return "cold_snap"
	default:
		return "clear"
	}
}

// modifierTable is the deterministic, data-only replacement for the
// teacher's MapToSim: every Kind maps to a fixed table instead of a
// parsed live API response.
var modifierTable = map[Kind]Modifiers{
	Clear:    {MovementCostMultiplier: 1.0, OutdoorZoneBonus: 0, ThirstDecayMultiplier: 1.0},
	Rain:     {MovementCostMultiplier: 1.2, OutdoorZoneBonus: -0.1, ThirstDecayMultiplier: 0.9},
	Storm:    {MovementCostMultiplier: 2.0, OutdoorZoneBonus: -0.3, ThirstDecayMultiplier: 0.9},
	Heatwave: {MovementCostMultiplier: 1.1, OutdoorZoneBonus: -0.15, ThirstDecayMultiplier: 1.6},
	ColdSnap: {MovementCostMultiplier: 1.3, OutdoorZoneBonus: -0.2, ThirstDecayMultiplier: 0.7},
}

// Modifiers returns k's multiplier table.
func (k Kind) Modifiers() Modifiers {
	if m, ok := modifierTable[k]; ok {
		return m
	}
	return modifierTable[Clear]
}

// System holds the current weather kind, changed only by an explicit
// TIME_COMMAND{SET_WEATHER{type}} — never by a background clock, keeping
// the core fully deterministic given a fixed command stream.
type System struct {
	current Kind
}

// New starts the System in Clear weather.
func New() *System {
	return &System{current: Clear}
}

// Current returns the active weather kind.
func (s *System) Current() Kind { return s.current }

// SetWeather applies a SET_WEATHER{type} command.
func (s *System) SetWeather(kind Kind) {
	s.current = kind
}

// ThirstDecayMultiplier is consumed by the NeedsSystem's decay pipeline
// (Section 4.5) each tick.
func (s *System) ThirstDecayMultiplier() float64 {
	return s.current.Modifiers().ThirstDecayMultiplier
}

// OutdoorZoneBonus is applied to an agent's morale each tick it spends
// in a non-shelter zone (Section 4.5 "zone bonus multipliers").
func (s *System) OutdoorZoneBonus(z *worldstate.Zone) float64 {
	if z != nil && z.Type == worldstate.ZoneShelter {
		return 0
	}
	return s.current.Modifiers().OutdoorZoneBonus
}

// MovementCostMultiplier scales a pathfinding step's base cost
// (Section 4.6 "movement cost").
func (s *System) MovementCostMultiplier() float64 {
	return s.current.Modifiers().MovementCostMultiplier
}
