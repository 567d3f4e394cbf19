// Package gardener implements a deterministic population watchdog that
// polls the worldsim control plane and keeps the simulation alive:
// low agent counts trigger a spawn, long stretches of silence trigger a
// save. Grounded on the teacher's internal/gardener (observe → triage →
// decide → act → record cycle), generalised from its Haiku-driven
// settlement/faction steward onto plain threshold rules against the new
// status endpoint — the new core has no LLM dependency to steer by.
package gardener

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Status mirrors GET /api/v1/status.
type Status struct {
	Tick       uint64 `json:"tick"`
	AgentCount int    `json:"agent_count"`
	EventCount int    `json:"event_count"`
}

// Observer fetches world status from the control plane.
type Observer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewObserver creates an Observer targeting the given API base URL.
func NewObserver(baseURL string) *Observer {
	return &Observer{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Observe fetches the current world status.
func (o *Observer) Observe() (*Status, error) {
	resp, err := o.HTTPClient.Get(o.BaseURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("GET status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GET status returned %d: %s", resp.StatusCode, string(body))
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}
