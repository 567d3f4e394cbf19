// Command gardener runs a standalone population watchdog against a
// running worldsim instance: it polls the status endpoint, applies fixed
// thresholds, and issues admin commands to keep the simulation populated
// and saved.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/agentforge/internal/gardener"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	apiURL := envOrDefault("WORLDSIM_API_URL", "http://localhost:8090")
	adminKey := os.Getenv("WORLDSIM_ADMIN_KEY")
	intervalMin := envIntOrDefault("GARDENER_INTERVAL_MIN", 6)

	if adminKey == "" {
		slog.Error("WORLDSIM_ADMIN_KEY is required")
		os.Exit(1)
	}

	interval := time.Duration(intervalMin) * time.Minute

	slog.Info("gardener watchdog starting", "api_url", apiURL, "interval", interval)

	observer := gardener.NewObserver(apiURL)
	actor := gardener.NewActor(apiURL, adminKey)
	memory := gardener.LoadMemory()

	slog.Info("waiting for worldsim API...")
	waitForAPI(apiURL)

	runCycle(observer, actor, memory)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runCycle(observer, actor, memory)
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			fmt.Println("Gardener stopped.")
			return
		}
	}
}

// runCycle executes one observe → triage → decide → act → record cycle.
func runCycle(observer *gardener.Observer, actor *gardener.Actor, memory *gardener.CycleMemory) {
	slog.Info("gardener cycle starting")

	status, err := observer.Observe()
	if err != nil {
		slog.Error("observation failed", "error", err)
		return
	}
	slog.Info("observation complete", "tick", status.Tick, "agent_count", status.AgentCount, "event_count", status.EventCount)

	health := gardener.Triage(status)
	slog.Info("triage complete", "crisis_level", health.CrisisLevel, "agent_count", health.AgentCount)

	decision := gardener.Decide(health)
	if decision.Action == "none" {
		slog.Info("gardener cycle complete — no intervention")
	} else {
		for i, cmd := range decision.Commands {
			if err := actor.Act(cmd); err != nil {
				slog.Error("command failed", "index", i, "kind", cmd.Kind, "error", err)
				continue
			}
			slog.Info("command issued", "index", i, "kind", cmd.Kind)
		}
	}

	memory.Record(gardener.CycleRecord{Tick: status.Tick, CrisisLevel: health.CrisisLevel, Action: decision.Action})
	memory.Save()

	slog.Info("gardener cycle complete")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// waitForAPI polls the worldsim status endpoint with exponential backoff
// until it responds. Exits after 5 minutes if the API never becomes ready.
func waitForAPI(apiURL string) {
	backoff := 2 * time.Second
	maxBackoff := 30 * time.Second
	deadline := time.Now().Add(5 * time.Minute)

	for {
		resp, err := http.Get(apiURL + "/api/v1/status")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == 200 {
				slog.Info("worldsim API is ready")
				return
			}
		}
		if time.Now().After(deadline) {
			slog.Error("worldsim API did not become ready within 5 minutes")
			os.Exit(1)
		}
		slog.Info("worldsim not ready, retrying...", "backoff", backoff)
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
