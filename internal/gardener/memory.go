package gardener

import (
	"encoding/json"
	"log/slog"
	"os"
)

const (
	memoryFile = "gardener_memory.json"
	maxRecords = 20
)

// CycleRecord captures what happened in a single watchdog cycle.
type CycleRecord struct {
	Tick        uint64 `json:"tick"`
	CrisisLevel string `json:"crisis_level"`
	Action      string `json:"action"`
}

// CycleMemory manages a ring of recent watchdog cycle records.
type CycleMemory struct {
	Records []CycleRecord `json:"records"`
}

// LoadMemory reads the memory file from disk. Returns empty memory if not found.
func LoadMemory() *CycleMemory {
	data, err := os.ReadFile(memoryFile)
	if err != nil {
		return &CycleMemory{}
	}
	var mem CycleMemory
	if err := json.Unmarshal(data, &mem); err != nil {
		slog.Warn("gardener memory corrupted, starting fresh", "error", err)
		return &CycleMemory{}
	}
	return &mem
}

// Save writes the memory to disk.
func (m *CycleMemory) Save() {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		slog.Error("failed to marshal gardener memory", "error", err)
		return
	}
	if err := os.WriteFile(memoryFile, data, 0644); err != nil {
		slog.Error("failed to write gardener memory", "error", err)
	}
}

// Record adds a cycle record, trimming to maxRecords.
func (m *CycleMemory) Record(r CycleRecord) {
	m.Records = append(m.Records, r)
	if len(m.Records) > maxRecords {
		m.Records = m.Records[len(m.Records)-maxRecords:]
	}
}
