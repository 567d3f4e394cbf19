package needs

import "github.com/talgya/agentforge/internal/worldstate"

// Config holds every NeedsSystem tunable (Section 4.5 "Parameters"). A
// zero Config is invalid; use DefaultConfig.
type Config struct {
	// DecayRates is the per-need decay rate in units per real-second,
	// before age/action multipliers.
	DecayRates map[worldstate.NeedKind]float64

	CriticalThreshold float64 // needs at or below this are critical (15)
	SatisfiedThreshold float64 // needs at or above this are satisfied (70)
	LowThreshold       float64 // pending-task generation threshold (50)

	UpdateIntervalMS int // decay tick cadence (1000 ms)
	RespawnDelaySec   int // 30 s

	DeathThresholds []worldstate.NeedKind // needs whose crossing 0 kills (hunger, thirst, energy)

	// ZoneBonuses gives the per-tick need bonus for standing inside a zone
	// of the corresponding purpose (hygiene/social/fun/mental zones).
	ZoneBonuses map[worldstate.ZoneType]zoneBonus

	// BatchThreshold is the entity count at which decay/cross-effects/morale
	// switch to the vectorised fast path (Section 4.5 "Batch fast path").
	BatchThreshold int
	// AcceleratorThreshold is not read by NeedsSystem: the social-morale
	// step uses per-agent radius queries at every population size and has
	// no gonum accelerator path.
	AcceleratorThreshold int
}

type zoneBonus struct {
	Need  worldstate.NeedKind
	Bonus float64
}

// DefaultConfig returns the spec's default parameter set.
func DefaultConfig() Config {
	return Config{
		DecayRates: map[worldstate.NeedKind]float64{
			worldstate.NeedHunger:       0.15,
			worldstate.NeedThirst:       0.2,
			worldstate.NeedEnergy:       0.1,
			worldstate.NeedHygiene:      0.05,
			worldstate.NeedSocial:       0.05,
			worldstate.NeedFun:          0.05,
			worldstate.NeedMentalHealth: 0.04,
		},
		CriticalThreshold:  15,
		SatisfiedThreshold: 70,
		LowThreshold:       50,
		UpdateIntervalMS:   1000,
		RespawnDelaySec:    30,
		DeathThresholds: []worldstate.NeedKind{
			worldstate.NeedHunger, worldstate.NeedThirst, worldstate.NeedEnergy,
		},
		ZoneBonuses: map[worldstate.ZoneType]zoneBonus{
			worldstate.ZoneHygiene: {Need: worldstate.NeedHygiene, Bonus: 2.0},
			worldstate.ZoneSocial:  {Need: worldstate.NeedSocial, Bonus: 2.0},
			worldstate.ZoneFun:     {Need: worldstate.NeedFun, Bonus: 2.0},
			worldstate.ZoneMental:  {Need: worldstate.NeedMentalHealth, Bonus: 2.0},
		},
		BatchThreshold:       5,
		AcceleratorThreshold: 20,
	}
}
