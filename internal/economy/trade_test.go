package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentforge/internal/worldstate"
)

// allPairsProximity reports every other living agent as in range,
// regardless of distance — enough to exercise pair enumeration without
// depending on internal/spatial.
type allPairsProximity struct {
	ws *worldstate.WorldState
}

func (p allPairsProximity) QueryRadius(center worldstate.Position, radius float64) []worldstate.AgentID {
	return p.ws.LivingAgentIDs()
}

func tradeTestConfig() Config {
	return Config{
		SellerSurplus:      15,
		BuyerShortage:      3,
		MaxTradeAmount:     5,
		TradeCooldownTicks: 10,
	}
}

// TestRunAutoTradeExecutesRegardlessOfEnumerationOrder reproduces the
// scenario where the agent with the shortage is enumerated before the
// agent holding the surplus (by spawning it first, since LivingAgentIDs
// returns insertion order): the trade must still happen in the direction
// the inventories actually support, not just the direction
// LivingAgentIDs() happens to test first.
func TestRunAutoTradeExecutesRegardlessOfEnumerationOrder(t *testing.T) {
	ws := worldstate.New(nil)
	ws.Market = worldstate.NewMarket(worldstate.DefaultBasePrices())

	// Shortage agent spawned first, so it is enumerated as "seller" before
	// the agent that actually holds the surplus.
	shortAgent := ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 0, Y: 0}})
	surplusAgent := ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 1, Y: 0}})

	ws.AgentInventory(surplusAgent).Add(worldstate.ResourceFood, 20)
	ws.GetAgent(shortAgent).Stats.Money = 1000

	cfg := tradeTestConfig()
	executed := RunAutoTrade(ws, allPairsProximity{ws: ws}, cfg, 1)

	assert.Equal(t, 1, executed)
	assert.Greater(t, ws.AgentInventory(shortAgent).Get(worldstate.ResourceFood), 0)
	assert.Less(t, ws.AgentInventory(surplusAgent).Get(worldstate.ResourceFood), 20)
}

func TestRunAutoTradeSkipsWhenNeitherSideQualifies(t *testing.T) {
	ws := worldstate.New(nil)
	ws.Market = worldstate.NewMarket(worldstate.DefaultBasePrices())

	a := ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 0, Y: 0}})
	b := ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 1, Y: 0}})
	ws.AgentInventory(a).Add(worldstate.ResourceFood, 5)
	ws.AgentInventory(b).Add(worldstate.ResourceFood, 5)

	cfg := tradeTestConfig()
	executed := RunAutoTrade(ws, allPairsProximity{ws: ws}, cfg, 1)

	require.Equal(t, 0, executed)
}
