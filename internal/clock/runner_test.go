package clock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentforge/internal/command"
	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/worldstate"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	tiles := worldstate.NewTileGrid(64, 64)
	ws := worldstate.New(tiles)
	ws.Market = worldstate.NewMarket(worldstate.DefaultBasePrices())
	return NewRunner(context.Background(), ws, DefaultConfig())
}

func TestTickIncrementsMonotonically(t *testing.T) {
	r := newTestRunner(t)

	first := r.Tick()
	second := r.Tick()

	assert.Equal(t, uint64(1), first.Tick)
	assert.Equal(t, uint64(2), second.Tick)
	assert.Greater(t, second.Tick, first.Tick)
}

func TestTickDecaysAgentHunger(t *testing.T) {
	r := newTestRunner(t)
	id := r.ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 5, Y: 5}})
	r.ws.SetNeeds(id, worldstate.NewAgentNeeds(100))

	for i := 0; i < 5; i++ {
		r.Tick()
	}

	n := r.ws.Needs(id)
	require.NotNil(t, n)
	assert.Less(t, n.Hunger, 100.0)
}

func TestEnqueueCommandRejectsOverCapacity(t *testing.T) {
	r := newTestRunner(t)
	r.queue = command.NewQueue(1)

	assert.True(t, r.EnqueueCommand(command.Command{Kind: command.KindSaveGame}))
	assert.False(t, r.EnqueueCommand(command.Command{Kind: command.KindSaveGame}))
}

func TestTickAppliesQueuedGiveResourceCommand(t *testing.T) {
	r := newTestRunner(t)
	id := r.ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 1, Y: 1}})
	r.ws.SetNeeds(id, worldstate.NewAgentNeeds(100))

	r.EnqueueCommand(command.Command{Kind: command.KindGiveResource, AgentID: id, ResourceKind: worldstate.ResourceFood, Amount: 10})
	r.Tick()

	assert.Equal(t, 10, r.ws.AgentInventory(id).Get(worldstate.ResourceFood))
}

func TestSnapshotTickNumberMatchesRunnerTick(t *testing.T) {
	r := newTestRunner(t)

	snap := r.Tick()

	assert.Equal(t, r.CurrentTick(), snap.Tick)
}

func TestSetWeatherCommandSlowsMovement(t *testing.T) {
	r := newTestRunner(t)
	id := r.ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 0, Y: 0}})
	r.ws.SetNeeds(id, worldstate.NewAgentNeeds(100))

	r.EnqueueCommand(command.Command{Kind: command.KindTimeCommand, WeatherType: "storm"})
	r.Tick()

	r.movementSys.RequestMove(r.ws, id, worldstate.Position{X: 60, Y: 0}, 0, false)
	start := r.ws.GetAgent(id).Position
	r.movementSys.Tick(r.ws, r.CurrentTick())
	afterOneTick := r.ws.GetAgent(id).Position

	assert.Equal(t, start, afterOneTick, "storm halves step rate, so no tile should advance on the first tick")
}

func TestSaveGameCommandEmitsSaveRequestedEvent(t *testing.T) {
	r := newTestRunner(t)
	_, events := r.Events().Subscribe()

	r.EnqueueCommand(command.Command{Kind: command.KindSaveGame})
	r.Tick()

	select {
	case ev := <-events:
		assert.Equal(t, simevent.KindSaveRequested, ev.Kind)
	default:
		t.Fatal("expected a SAVE_REQUESTED event after draining a SAVE_GAME command")
	}
}

func TestCloseStopsMovementPool(t *testing.T) {
	r := newTestRunner(t)
	assert.NotPanics(t, func() { r.Close() })
}
