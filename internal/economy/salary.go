package economy

import "github.com/talgya/agentforge/internal/worldstate"

// TransactionRecord is one entry in an agent's bounded salary history
// (Section 4.7 "Record each payment in a per-agent bounded transaction
// history (last 10)").
type TransactionRecord struct {
	Tick   uint64
	Amount int64
	Reason string
}

const transactionHistoryCap = 10

// Ledger tracks the bounded per-agent transaction history. It is kept
// separate from worldstate.Agent because it's payroll bookkeeping, not
// core entity state other systems need to read.
type Ledger struct {
	history map[worldstate.AgentID][]TransactionRecord
}

// NewLedger returns an empty salary ledger.
func NewLedger() *Ledger {
	return &Ledger{history: make(map[worldstate.AgentID][]TransactionRecord)}
}

func (l *Ledger) record(id worldstate.AgentID, rec TransactionRecord) {
	hist := append(l.history[id], rec)
	if len(hist) > transactionHistoryCap {
		hist = hist[len(hist)-transactionHistoryCap:]
	}
	l.history[id] = hist
}

// History returns an agent's recent transactions, oldest first.
func (l *Ledger) History(id worldstate.AgentID) []TransactionRecord {
	return l.history[id]
}

// salaryFor returns the per-interval base amount for a role
// (Section 4.7 "Salaries").
func salaryFor(role worldstate.Role, cfg Config) int64 {
	if amt, ok := cfg.RoleSalary[role]; ok {
		return amt
	}
	return defaultRoleSalary
}

// PaySalaries pays every roled living agent its salary and records the
// payment. Call at the configured SalaryIntervalTicks cadence.
func PaySalaries(ws *worldstate.WorldState, ledger *Ledger, cfg Config, tick uint64) {
	for _, id := range ws.LivingAgentIDs() {
		agent := ws.GetAgent(id)
		if agent == nil || agent.Role == worldstate.RoleIdle {
			continue
		}
		amount := salaryFor(agent.Role, cfg)
		agent.Stats.Money += amount
		ledger.record(id, TransactionRecord{Tick: tick, Amount: amount, Reason: "salary"})
	}
}
