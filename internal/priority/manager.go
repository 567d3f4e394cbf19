// Package priority implements PriorityManager (Section 4.10): domain
// weights plus situational modifiers for scarcity and role, applied to
// every goal rule's base priority before the AI planner picks a winner.
package priority

import "github.com/talgya/agentforge/internal/worldstate"

// Domain is a goal category used to look up a base weight.
type Domain string

const (
	DomainSurvival Domain = "survival"
	DomainFlee     Domain = "flee"
	DomainRest     Domain = "rest"
	DomainCombat   Domain = "combat"
	DomainCrafting Domain = "crafting"
	DomainWork     Domain = "work"
	DomainLogistics Domain = "logistics"
	DomainSocial   Domain = "social"
	DomainExplore  Domain = "explore"
	DomainInspect  Domain = "inspect"
)

// Config holds the domain weight table and scarcity thresholds.
type Config struct {
	DomainWeight         map[Domain]float64
	ScarcityThreshold    int // global food/water below this triggers the survival/logistics boost
	MaterialShortage     int // global wood/stone below this triggers the work/logistics boost
}

// DefaultConfig returns the spec's default weight table (Section 4.10).
func DefaultConfig() Config {
	return Config{
		DomainWeight: map[Domain]float64{
			DomainSurvival:  1.0,
			DomainFlee:      1.1,
			DomainRest:      0.8,
			DomainCombat:    0.7,
			DomainCrafting:  0.65,
			DomainWork:      0.6,
			DomainLogistics: 0.55,
			DomainSocial:    0.45,
			DomainExplore:   0.3,
			DomainInspect:   0.25,
		},
		ScarcityThreshold: 20,
		MaterialShortage:  20,
	}
}

// ScarcityView is the subset of world state the modifiers read.
type ScarcityView struct {
	FoodStock  int
	WaterStock int
	WoodStock  int
	StoneStock int
}

// Manager applies domain weights and situational modifiers to a rule's
// base priority.
type Manager struct {
	cfg Config
}

// New creates a PriorityManager.
func New(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// Adjust computes the final priority for a goal in the given domain
// (Section 4.10 "Given an (agent, domain, basePriority) triple...").
func (m *Manager) Adjust(agent *worldstate.Agent, domain Domain, basePriority float64, scarcity ScarcityView) float64 {
	weight, ok := m.cfg.DomainWeight[domain]
	if !ok {
		weight = 1.0
	}
	p := basePriority * weight

	scarce := scarcity.FoodStock < m.cfg.ScarcityThreshold || scarcity.WaterStock < m.cfg.ScarcityThreshold
	if scarce {
		switch domain {
		case DomainSurvival:
			p *= 1.3
		case DomainLogistics:
			p *= 1.2
		}
	}

	materialsShort := scarcity.WoodStock < m.cfg.MaterialShortage || scarcity.StoneStock < m.cfg.MaterialShortage
	if materialsShort {
		switch domain {
		case DomainWork, DomainLogistics:
			p *= 1.15
		}
	}

	if agent != nil && agent.Role == worldstate.RoleGuard {
		switch domain {
		case DomainCombat:
			p *= 1.25
		case DomainCrafting:
			p *= 1.15
		case DomainFlee:
			return 0 // flee suppressed for warrior-roled agents
		}
	} else {
		switch domain {
		case DomainFlee:
			p *= 1.2
		case DomainCombat:
			p *= 0.8
		}
	}

	return p
}
