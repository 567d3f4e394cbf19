package gardener

import (
	"github.com/talgya/agentforge/internal/command"
	"github.com/talgya/agentforge/internal/worldstate"
)

// Decision is the watchdog's deterministic response to one cycle's Health.
type Decision struct {
	Action   string // "none", "spawn", "save"
	Commands []command.Command
}

const spawnBatchSize = 3

// Decide maps a Health verdict directly onto a fixed command policy —
// population_low spawns a small batch of fresh agents at the world
// origin, silent requests a save so a stalled world isn't lost, and a
// healthy world gets left alone.
func Decide(h Health) Decision {
	switch h.CrisisLevel {
	case "population_low":
		cmds := make([]command.Command, 0, spawnBatchSize)
		for i := 0; i < spawnBatchSize; i++ {
			cmds = append(cmds, command.Command{
				Kind:    command.KindSpawnAgent,
				Profile: worldstate.AgentProfile{Position: worldstate.Position{X: 0, Y: 0}},
			})
		}
		return Decision{Action: "spawn", Commands: cmds}
	case "silent":
		return Decision{Action: "save", Commands: []command.Command{{Kind: command.KindSaveGame}}}
	default:
		return Decision{Action: "none"}
	}
}
