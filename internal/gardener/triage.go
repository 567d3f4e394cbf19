package gardener

// Health is the deterministic verdict the watchdog reaches each cycle.
type Health struct {
	CrisisLevel string // "none", "population_low", "silent"
	AgentCount  int
}

const minHealthyPopulation = 5

// Triage classifies the current status against fixed thresholds — no
// model call, just the population floor and an idle-event check.
func Triage(status *Status) Health {
	h := Health{CrisisLevel: "none", AgentCount: status.AgentCount}
	switch {
	case status.AgentCount < minHealthyPopulation:
		h.CrisisLevel = "population_low"
	case status.EventCount == 0:
		h.CrisisLevel = "silent"
	}
	return h
}
