package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentforge/internal/needs"
	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/worldstate"
)

func newTestWorld(t *testing.T) (*worldstate.WorldState, worldstate.AgentID) {
	t.Helper()
	ws := worldstate.New(nil)
	id := ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 3, Y: 4}})
	ws.SetNeeds(id, worldstate.NewAgentNeeds(50))
	return ws, id
}

func TestApplyDeathsSchedulesRespawn(t *testing.T) {
	ws, id := newTestWorld(t)
	sys := New(simevent.NewBus(16))

	sys.ApplyDeaths(ws, []needs.DeathNotice{{AgentID: id, RespawnAt: 500, HasRespawn: true}})

	agent := ws.GetAgent(id)
	require.NotNil(t, agent)
	assert.True(t, agent.IsDead)
	assert.True(t, agent.HasRespawn)
	assert.Equal(t, uint64(500), agent.RespawnTick)
}

func TestApplyDeathsWithoutRespawnRemovesAgent(t *testing.T) {
	ws, id := newTestWorld(t)
	sys := New(simevent.NewBus(16))

	sys.ApplyDeaths(ws, []needs.DeathNotice{{AgentID: id, HasRespawn: false}})

	assert.Nil(t, ws.GetAgent(id))
}

func TestTickRespawnsAgentAtScheduledTick(t *testing.T) {
	ws, id := newTestWorld(t)
	sys := New(simevent.NewBus(16))
	sys.ApplyDeaths(ws, []needs.DeathNotice{{AgentID: id, RespawnAt: 10, HasRespawn: true}})

	sys.Tick(ws, 5)
	agent := ws.GetAgent(id)
	require.NotNil(t, agent)
	assert.True(t, agent.IsDead)

	sys.Tick(ws, 10)
	agent = ws.GetAgent(id)
	require.NotNil(t, agent)
	assert.False(t, agent.IsDead)
	assert.False(t, agent.HasRespawn)

	n := ws.Needs(id)
	require.NotNil(t, n)
	assert.Equal(t, 100.0, n.Hunger)
}

func TestTickAgesAgentsOncePerSimDay(t *testing.T) {
	ws, id := newTestWorld(t)
	sys := New(simevent.NewBus(16))

	sys.Tick(ws, 1)
	assert.Equal(t, 0, ws.GetAgent(id).Age)

	sys.Tick(ws, TicksPerSimDay)
	assert.Equal(t, 1, ws.GetAgent(id).Age)
}

func TestSpawnAssignsBornTickAndEmitsEvent(t *testing.T) {
	ws, _ := newTestWorld(t)
	bus := simevent.NewBus(16)
	sys := New(bus)
	_, sub := bus.Subscribe()

	newID := sys.Spawn(ws, worldstate.AgentProfile{Position: worldstate.Position{X: 1, Y: 1}}, 42)

	agent := ws.GetAgent(newID)
	require.NotNil(t, agent)
	assert.Equal(t, uint64(42), agent.BornTick)

	evt := <-sub
	assert.Equal(t, simevent.KindAgentSpawned, evt.Kind)
}

func TestKillRemovesAgentAndClearsPendingRespawn(t *testing.T) {
	ws, id := newTestWorld(t)
	sys := New(simevent.NewBus(16))
	sys.ApplyDeaths(ws, []needs.DeathNotice{{AgentID: id, RespawnAt: 999, HasRespawn: true}})

	sys.Kill(ws, id, 1)

	assert.Nil(t, ws.GetAgent(id))
	assert.NotContains(t, sys.pending, id)
}
