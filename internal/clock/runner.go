// Package clock implements the Clock & Runner (Section 4.1): it drives
// ticks at a fixed rate, drains the inbound command queue, invokes every
// system in the fixed dependency order, and assembles/emits a snapshot.
// Grounded on the teacher's Engine (internal/engine/tick.go), generalised
// from its calendar-layered OnTick/OnHour/OnDay callbacks to the
// specification's single fixed nine-step pipeline run every tick.
package clock

import (
	"context"
	"log/slog"
	"time"

	"github.com/talgya/agentforge/internal/batchquery"
	"github.com/talgya/agentforge/internal/command"
	"github.com/talgya/agentforge/internal/economy"
	"github.com/talgya/agentforge/internal/inventory"
	"github.com/talgya/agentforge/internal/lifecycle"
	"github.com/talgya/agentforge/internal/movement"
	"github.com/talgya/agentforge/internal/needs"
	"github.com/talgya/agentforge/internal/planner"
	"github.com/talgya/agentforge/internal/priority"
	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/snapshot"
	"github.com/talgya/agentforge/internal/social"
	"github.com/talgya/agentforge/internal/spatial"
	"github.com/talgya/agentforge/internal/supporting/weather"
	"github.com/talgya/agentforge/internal/worldstate"
)

// DefaultTickRateHz is the default tick cadence (Section 4.1: "default 20 Hz").
const DefaultTickRateHz = 20

// DefaultMaxCommandsPerTick bounds how many queued commands are applied
// per tick (Section 4.1 step 1).
const DefaultMaxCommandsPerTick = 256

// neighborBatchRadius is the radius used to precompute each agent's
// neighbor set once per tick via BatchQueryService, consumed by the
// planner's nearest-agent lookups (Section 4.2 "BatchQueryService").
const neighborBatchRadius = 12.0

// Config bundles every subsystem's tunables (Section 6 "Configuration").
type Config struct {
	TickRateHz         int
	MaxCommandsPerTick int
	RespawnEnabled     bool
	SpatialCellSize    float64
	DtSeconds          float64

	Needs    needs.Config
	Economy  economy.Config
	Social   social.Config
	Priority priority.Config
}

// DefaultConfig returns the specification's defaults for every subsystem.
func DefaultConfig() Config {
	return Config{
		TickRateHz:         DefaultTickRateHz,
		MaxCommandsPerTick: DefaultMaxCommandsPerTick,
		RespawnEnabled:     true,
		SpatialCellSize:    16,
		DtSeconds:          1.0 / DefaultTickRateHz,
		Needs:              needs.DefaultConfig(),
		Economy:            economy.DefaultConfig(),
		Social:             social.DefaultConfig(),
		Priority:           priority.DefaultConfig(),
	}
}

// Runner owns WorldState and every system, advancing the whole
// simulation one tick at a time in the fixed order from Section 4.1.
type Runner struct {
	ws    *worldstate.WorldState
	cfg   Config
	tick  uint64
	scale command.TimeScale

	events   *simevent.Bus
	queue    *command.Queue
	dispatch *command.Dispatcher

	spatialIndex *spatial.SpatialIndex
	batch        *batchquery.Service

	lifecycleSys *lifecycle.System
	needsSys     *needs.NeedsSystem
	movementSys  *movement.System
	inventorySys *inventory.System
	socialSys    *social.System
	plan         *planner.Planner
	priorityMgr  *priority.Manager
	executor     *actionExecutor

	ledger  *economy.Ledger
	yields  *economy.YieldTracker
	weather *weather.System

	snapshotBuilder *snapshot.Builder
	lastSnapshot    snapshot.Snapshot

	harvestedLastTick map[worldstate.AgentID]bool
}

// NewRunner wires every system over ws using cfg, ready to Tick().
func NewRunner(ctx context.Context, ws *worldstate.WorldState, cfg Config) *Runner {
	events := simevent.NewBus(1024)
	spatialIndex := spatial.NewSpatialIndex(cfg.SpatialCellSize)
	lifecycleSys := lifecycle.New(events)
	socialSys := social.New(cfg.Social, events)
	inventorySys := inventory.New()
	yields := economy.NewYieldTracker()
	movementSys := movement.New(ctx, ws.Tiles, events)
	priorityMgr := priority.New(cfg.Priority)

	return &Runner{
		ws:                ws,
		cfg:               cfg,
		scale:             command.TimeScale{Multiplier: 1.0},
		events:            events,
		queue:             command.NewQueue(1024),
		dispatch:          command.NewDispatcher(lifecycleSys, socialSys),
		spatialIndex:      spatialIndex,
		batch:             batchquery.New(spatialIndex),
		lifecycleSys:      lifecycleSys,
		needsSys:          needs.New(cfg.Needs, events),
		movementSys:       movementSys,
		inventorySys:      inventorySys,
		socialSys:         socialSys,
		plan:              planner.New(priorityMgr),
		priorityMgr:       priorityMgr,
		executor:          newActionExecutor(movementSys, inventorySys, yields, events),
		ledger:            economy.NewLedger(),
		yields:            yields,
		weather:           weather.New(),
		snapshotBuilder:   snapshot.New(events),
		harvestedLastTick: make(map[worldstate.AgentID]bool),
	}
}

// Events exposes the shared tick-scoped event bus for observers.
func (r *Runner) Events() *simevent.Bus { return r.events }

// CurrentTick returns the last completed tick number.
func (r *Runner) CurrentTick() uint64 { return r.tick }

// EnqueueCommand offers cmd to the bounded inbound queue
// (Section 4.1 "enqueueCommand(cmd) -> accepted: bool").
func (r *Runner) EnqueueCommand(cmd command.Command) bool {
	return r.queue.Enqueue(cmd)
}

// LastSnapshot returns the most recently built snapshot without
// rebuilding it.
func (r *Runner) LastSnapshot() snapshot.Snapshot { return r.lastSnapshot }

// Close stops background resources owned by subsystems (the movement
// pathfinding pool's workers), releasing them when the runner is retired.
func (r *Runner) Close() { r.movementSys.Close() }

// Tick advances the simulation by exactly one tick, running every system
// in the fixed order from Section 4.1. A panic inside any per-agent step
// is recovered so one agent's failure never aborts the tick
// (Section 7 "Transient system failures").
func (r *Runner) Tick() snapshot.Snapshot {
	r.tick++

	r.applyCommands()

	r.needsSys.ApplyWeatherThirstMultiplier(r.weather.ThirstDecayMultiplier())
	r.movementSys.SetSpeedMultiplier(r.weather.MovementCostMultiplier())

	r.lifecycleSys.Tick(r.ws, r.tick)

	notices := r.needsSys.Tick(r.ws, r.spatialIndex, r.tick, r.dtSeconds(), r.cfg.RespawnEnabled)
	r.lifecycleSys.ApplyDeaths(r.ws, notices)

	r.spatialIndex.Rebuild(r.ws)

	r.planAndAct()

	r.movementSys.Tick(r.ws, r.tick)

	r.economyTick()

	r.socialSys.Tick(r.ws, r.spatialIndex, r.tick)

	snap := r.snapshotBuilder.Build(r.ws, r.tick)
	r.lastSnapshot = snap
	return snap
}

func (r *Runner) dtSeconds() float64 {
	if r.cfg.DtSeconds > 0 {
		return r.cfg.DtSeconds
	}
	return 1.0 / DefaultTickRateHz
}

func (r *Runner) applyCommands() {
	max := r.cfg.MaxCommandsPerTick
	if max <= 0 {
		max = DefaultMaxCommandsPerTick
	}
	for _, cmd := range r.queue.DrainUpTo(max) {
		if cmd.Kind == command.KindTimeCommand {
			r.weather.SetWeather(weather.ParseKind(cmd.WeatherType))
			continue
		}
		if cmd.Kind == command.KindSaveGame {
			r.events.Emit(simevent.Event{Tick: r.tick, Kind: simevent.KindSaveRequested, Description: "SAVE_GAME command drained"})
			continue
		}
		res := r.dispatch.Apply(r.ws, cmd, r.tick, &r.scale)
		if res.Status == command.StatusFailed {
			r.events.Emit(simevent.Event{Tick: r.tick, Kind: simevent.KindError, Description: res.Code + ": " + res.Reason})
		}
	}
}

// planAndAct runs AI Planner step 5 for every living agent, precomputing
// a per-agent neighbor batch first so the planner's nearest-agent lookups
// don't each re-scan the spatial index (Section 4.2 "BatchQueryService").
func (r *Runner) planAndAct() {
	living := r.ws.LivingAgentIDs()
	results := r.batch.QueryRadiusBatch(r.ws, living, neighborBatchRadius)
	neighbors := make(map[worldstate.AgentID][]worldstate.AgentID, len(results))
	for _, res := range results {
		neighbors[res.Agent] = res.Neighbors
	}
	lookup := newAgentLookup(r.ws, neighbors)
	scarcity := r.scarcityView()

	for _, id := range living {
		r.planAndActOne(id, lookup, scarcity)
	}
}

func (r *Runner) planAndActOne(id worldstate.AgentID, lookup *agentLookup, scarcity priority.ScarcityView) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("agent decision panicked, leaving idle this tick", "agent_id", id, "error", rec)
		}
	}()
	action := r.plan.Decide(r.ws, id, lookup, scarcity, r.tick, r.harvestedLastTick[id])
	r.harvestedLastTick[id] = r.executor.Execute(r.ws, id, action, r.tick)
}

func (r *Runner) scarcityView() priority.ScarcityView {
	return priority.ScarcityView{
		FoodStock:  r.ws.TotalOf(worldstate.ResourceFood),
		WaterStock: r.ws.TotalOf(worldstate.ResourceWater),
		WoodStock:  r.ws.TotalOf(worldstate.ResourceWood),
		StoneStock: r.ws.TotalOf(worldstate.ResourceStone),
	}
}

func (r *Runner) economyTick() {
	if r.tick%100 == 0 {
		economy.RefreshPrices(r.ws, r.cfg.Economy)
	}
	if r.tick%uint64(r.cfg.Economy.AutoTradeIntervalTicks) == 0 {
		economy.RunAutoTrade(r.ws, r.spatialIndex, r.cfg.Economy, r.tick)
	}
	if r.tick%uint64(r.cfg.Economy.SalaryIntervalTicks) == 0 {
		economy.PaySalaries(r.ws, r.ledger, r.cfg.Economy, r.tick)
	}
}

// RunLoop ticks at the configured rate in real time until ctx is
// cancelled, matching the teacher's speed-scaled sleep loop
// (internal/engine/tick.go Engine.Run), generalised to the fixed
// nine-step pipeline.
func (r *Runner) RunLoop(ctx context.Context, onTick func(snapshot.Snapshot)) {
	rate := r.cfg.TickRateHz
	if rate <= 0 {
		rate = DefaultTickRateHz
	}
	interval := time.Second / time.Duration(rate)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		start := time.Now()
		snap := r.Tick()
		if onTick != nil {
			onTick(snap)
		}
		target := time.Duration(float64(interval) / r.scale.Multiplier)
		if elapsed := time.Since(start); elapsed < target {
			select {
			case <-ctx.Done():
				return
			case <-time.After(target - elapsed):
			}
		}
	}
}
