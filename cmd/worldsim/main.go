// Command worldsim runs the tick-driven agent world simulation: it
// generates a deterministic world, drives the Runner at its configured
// tick rate, exposes the HTTP/WebSocket control plane, and periodically
// persists a save. Grounded on the teacher's cmd/worldsim/main.go
// bootstrap shape (slog setup, signal-driven shutdown, final save on
// exit), generalised from its hex-world/LLM/weather-API wiring onto the
// new square-grid core and its own ambient stack (config, persistence,
// transport, redisqueue, cron).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/talgya/agentforge/internal/clock"
	"github.com/talgya/agentforge/internal/config"
	"github.com/talgya/agentforge/internal/persistence"
	"github.com/talgya/agentforge/internal/persistence/sqlite"
	"github.com/talgya/agentforge/internal/queue/redisqueue"
	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/snapshot"
	"github.com/talgya/agentforge/internal/transport"
	"github.com/talgya/agentforge/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("agentforge worldsim starting",
		"tick_rate_hz", cfg.TickRateHz,
		"world_seed", cfg.WorldSeed,
		"world_size", fmt.Sprintf("%dx%d", cfg.WorldWidth, cfg.WorldHeight),
	)

	// ── Persistence ───────────────────────────────────────────────────
	if dir := dirOf(cfg.DatabasePath); dir != "" {
		os.MkdirAll(dir, 0755)
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open save store", "error", err, "path", cfg.DatabasePath)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("save store opened", "path", cfg.DatabasePath)

	// ── World generation (always regenerated — deterministic from seed) ──
	genCfg := worldgen.DefaultConfig()
	genCfg.Seed = cfg.WorldSeed
	genCfg.Width = cfg.WorldWidth
	genCfg.Height = cfg.WorldHeight
	genCfg.ZoneCount = cfg.WorldZoneCount

	slog.Info("generating world...")
	ws := worldgen.Generate(genCfg)
	slog.Info("world generated", "resources", len(ws.AllResources()), "zones", len(ws.AllZones()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := clock.NewRunner(ctx, ws, cfg.Clock)

	// ── Durable command ingestion (Redis-backed front door) ────────────
	var queueSource *redisqueue.Source
	if q, err := redisqueue.Open(ctx, cfg.RedisAddr, "agentforge:commands"); err != nil {
		slog.Warn("redis command queue unavailable, commands will only arrive over HTTP", "error", err, "addr", cfg.RedisAddr)
	} else {
		queueSource = q
		slog.Info("redis command queue connected", "addr", cfg.RedisAddr)
	}

	// ── HTTP / WebSocket control plane ──────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("WORLDSIM_ADMIN_KEY not set — admin POST/DELETE endpoints will reject every request")
	}
	server := transport.NewServer(runner, store, cfg.AdminKey)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: server.Router(nil),
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server stopped unexpectedly", "error", err)
		}
	}()

	// ── Save-requested events (SAVE_GAME command, or periodic cron) ─────
	subID, saveRequests := runner.Events().Subscribe()
	defer runner.Events().Unsubscribe(subID)
	go func() {
		for ev := range saveRequests {
			if ev.Kind == simevent.KindSaveRequested {
				persistSnapshot(ctx, store, runner.LastSnapshot())
			}
		}
	}()

	// ── Periodic autosave via cron ───────────────────────────────────────
	sched := cron.New()
	if _, err := sched.AddFunc("@every 5m", func() {
		persistSnapshot(ctx, store, runner.LastSnapshot())
	}); err != nil {
		slog.Error("failed to schedule autosave", "error", err)
	}
	sched.Start()
	defer sched.Stop()

	// ── Start the tick loop ──────────────────────────────────────────────
	go runner.RunLoop(ctx, func(snap snapshot.Snapshot) {
		if queueSource != nil {
			drainQueue(ctx, queueSource, runner)
		}
		server.Broadcast(snap)
	})

	fmt.Printf("agentforge worldsim is alive: tick rate %d Hz, world %dx%d.\n", cfg.TickRateHz, cfg.WorldWidth, cfg.WorldHeight)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.HTTPPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	runner.Close()

	slog.Info("final save...")
	persistSnapshot(context.Background(), store, runner.LastSnapshot())

	fmt.Println("Simulation stopped. World state saved.")
}

func persistSnapshot(ctx context.Context, store persistence.SaveStore, snap snapshot.Snapshot) {
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		slog.Error("failed to encode snapshot for save", "error", err)
		return
	}
	meta, err := store.SaveGame(ctx, data)
	if err != nil {
		slog.Error("save failed", "error", err)
		return
	}
	slog.Info("save written", "id", meta.ID, "size", humanize.Bytes(uint64(meta.SizeBytes)), "tick", snap.Tick)
}

func drainQueue(ctx context.Context, q *redisqueue.Source, runner *clock.Runner) {
	cmds, err := q.Drain(ctx, 64)
	if err != nil {
		slog.Warn("redis command drain failed", "error", err)
		return
	}
	for _, cmd := range cmds {
		if !runner.EnqueueCommand(cmd) {
			slog.Warn("dropped redis-sourced command, runner queue full")
		}
	}
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return ""
}
