package economy

import "github.com/talgya/agentforge/internal/worldstate"

// ProximityContext bounds the auto-trade scan to spatially-near pairs so
// it stays well short of O(n^2) when population is large (Section 4.7
// "Auto-trade... may be bounded to spatially-near pairs via SpatialIndex").
type ProximityContext interface {
	QueryRadius(center worldstate.Position, radius float64) []worldstate.AgentID
}

const autoTradeRadius = 10.0

// RunAutoTrade scans for opportunistic trades among nearby agent pairs
// and executes any that clear the seller/buyer/cooldown conditions
// (Section 4.7 "Auto-trade"). Call at the configured AutoTradeIntervalTicks
// cadence.
func RunAutoTrade(ws *worldstate.WorldState, prox ProximityContext, cfg Config, tick uint64) int {
	ids := ws.LivingAgentIDs()
	executed := 0
	seen := make(map[[2]worldstate.AgentID]bool)

	for _, seller := range ids {
		sellerAgent := ws.GetAgent(seller)
		if sellerAgent == nil {
			continue
		}
		nearby := prox.QueryRadius(sellerAgent.Position, autoTradeRadius)
		for _, buyer := range nearby {
			if buyer == seller {
				continue
			}
			pairKey := orderedPair(seller, buyer)
			if seen[pairKey] {
				continue
			}
			seen[pairKey] = true

			// Try both directions for each resource kind — which agent
			// actually holds the surplus is a property of inventory state,
			// not of which id LivingAgentIDs() happened to enumerate first.
			for _, kind := range worldstate.AllResourceKinds {
				if tryTrade(ws, seller, buyer, kind, cfg, tick) {
					executed++
					continue
				}
				if tryTrade(ws, buyer, seller, kind, cfg, tick) {
					executed++
				}
			}
		}
	}
	return executed
}

func orderedPair(a, b worldstate.AgentID) [2]worldstate.AgentID {
	if a < b {
		return [2]worldstate.AgentID{a, b}
	}
	return [2]worldstate.AgentID{b, a}
}

// tryTrade attempts a single seller->buyer trade of kind, returning
// whether one was executed.
func tryTrade(ws *worldstate.WorldState, seller, buyer worldstate.AgentID, kind worldstate.ResourceKind, cfg Config, tick uint64) bool {
	key := worldstate.TradeCooldownKey{Seller: seller, Buyer: buyer, Kind: kind}
	if clearAt, ok := ws.Market.TradeCooldowns[key]; ok && tick < clearAt {
		return false
	}

	sellerInv := ws.AgentInventory(seller)
	buyerInv := ws.AgentInventory(buyer)
	sellerStock := sellerInv.Get(kind)
	if sellerStock <= cfg.SellerSurplus {
		return false
	}
	if buyerInv.Get(kind) >= cfg.BuyerShortage {
		return false
	}

	entry, ok := ws.Market.Entries[kind]
	if !ok {
		return false
	}
	amount := cfg.MaxTradeAmount
	if amount > sellerStock {
		amount = sellerStock
	}
	if amount <= 0 {
		return false
	}
	totalCost := int64(entry.Price) * int64(amount)
	buyerAgent := ws.GetAgent(buyer)
	sellerAgent := ws.GetAgent(seller)
	if buyerAgent == nil || sellerAgent == nil || buyerAgent.Stats.Money < totalCost {
		return false
	}

	moved := ws.TransferInventory(sellerInv, buyerInv, kind, amount)
	if moved == 0 {
		return false
	}
	paid := int64(entry.Price) * int64(moved)
	buyerAgent.Stats.Money -= paid
	sellerAgent.Stats.Money += paid

	ws.Market.TradeCooldowns[key] = tick + cfg.TradeCooldownTicks
	return true
}
