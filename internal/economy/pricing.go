// Package economy implements scarcity-indexed pricing, opportunistic
// pairwise auto-trade, role salaries, and fractional work-yield carryover
// (Section 4.7 "InventorySystem + EconomySystem"), grounded on the
// teacher's settlement market resolution (internal/engine/market.go) and
// its MarketEntry/ResolvePrice shape (internal/economy/goods.go), with the
// esoteric phi-based floor/ceiling replaced by the specification's plain
// scarcity-threshold multiplier.
package economy

import "github.com/talgya/agentforge/internal/worldstate"

// Config holds every EconomySystem tunable named in Section 4.7.
type Config struct {
	ThresholdLow  int // stock below this -> scarce, multiplier 1.5
	ThresholdHigh int // stock above this -> abundant, multiplier 0.9

	AutoTradeIntervalTicks int
	SellerSurplus          int // seller must hold more than this to sell (15)
	BuyerShortage          int // buyer must hold less than this to buy (3)
	MaxTradeAmount         int // tradeAmount = min(this, sellerStock) (5)
	TradeCooldownTicks     uint64

	SalaryIntervalTicks int
	RoleSalary          map[worldstate.Role]int64
}

// DefaultConfig returns the spec's default economy parameters.
func DefaultConfig() Config {
	return Config{
		ThresholdLow:           20,
		ThresholdHigh:          200,
		AutoTradeIntervalTicks: 100,
		SellerSurplus:          15,
		BuyerShortage:          3,
		MaxTradeAmount:         5,
		TradeCooldownTicks:     600, // 30s at 20Hz
		SalaryIntervalTicks:    1200, // 60s at 20Hz
		RoleSalary: map[worldstate.Role]int64{
			worldstate.RoleFarmer:    15,
			worldstate.RoleLogger:    15,
			worldstate.RoleQuarryman: 15,
			worldstate.RoleBuilder:   20,
			worldstate.RoleCraftsman: 20,
			worldstate.RoleGuard:     25,
			worldstate.RoleLeader:    25,
		},
	}
}

const defaultRoleSalary = 10

// RefreshPrices recomputes every market entry's price from global
// scarcity (Section 4.7 "Pricing (scarcity index)"): stock is global
// materials plus the sum of every stockpile (agent inventories and zone
// stockpiles), via WorldState.TotalOf.
func RefreshPrices(ws *worldstate.WorldState, cfg Config) {
	for _, kind := range worldstate.AllResourceKinds {
		entry, ok := ws.Market.Entries[kind]
		if !ok {
			continue
		}
		stock := ws.TotalOf(kind)
		switch {
		case stock < cfg.ThresholdLow:
			entry.Multiplier = 1.5
		case stock > cfg.ThresholdHigh:
			entry.Multiplier = 0.9
		default:
			entry.Multiplier = 1.0
		}
		price := int(float64(entry.BasePrice)*entry.Multiplier + 0.5)
		if price < 1 {
			price = 1
		}
		entry.Price = price
	}
}
