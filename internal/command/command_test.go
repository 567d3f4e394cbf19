package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentforge/internal/lifecycle"
	"github.com/talgya/agentforge/internal/simevent"
	"github.com/talgya/agentforge/internal/social"
	"github.com/talgya/agentforge/internal/worldstate"
)

func TestQueueEnqueueRejectsOverflow(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Enqueue(Command{Kind: KindSaveGame}))
	assert.True(t, q.Enqueue(Command{Kind: KindSaveGame}))
	assert.False(t, q.Enqueue(Command{Kind: KindSaveGame}))
	assert.Equal(t, 2, q.Len())
}

func TestQueueDrainPreservesFIFOOrderAndEmptiesQueue(t *testing.T) {
	q := NewQueue(8)
	q.Enqueue(Command{Kind: KindSetTimeScale, TimeScaleMultiplier: 1})
	q.Enqueue(Command{Kind: KindSetTimeScale, TimeScaleMultiplier: 2})

	drained := q.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, 1.0, drained[0].TimeScaleMultiplier)
	assert.Equal(t, 2.0, drained[1].TimeScaleMultiplier)
	assert.Equal(t, 0, q.Len())
}

func newTestDispatcher() (*Dispatcher, *worldstate.WorldState) {
	bus := simevent.NewBus(16)
	ws := worldstate.New(nil)
	ws.Market = worldstate.NewMarket(worldstate.DefaultBasePrices())
	lc := lifecycle.New(bus)
	soc := social.New(social.DefaultConfig(), bus)
	return NewDispatcher(lc, soc), ws
}

func TestApplyGiveResourceAddsToInventory(t *testing.T) {
	d, ws := newTestDispatcher()
	id := ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 0, Y: 0}})

	res := d.Apply(ws, Command{Kind: KindGiveResource, AgentID: id, ResourceKind: worldstate.ResourceFood, Amount: 5}, 1, &TimeScale{})

	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, 5, ws.AgentInventory(id).Get(worldstate.ResourceFood))
}

func TestApplyGiveResourceUnknownAgentFails(t *testing.T) {
	d, ws := newTestDispatcher()

	res := d.Apply(ws, Command{Kind: KindGiveResource, AgentID: 999, Amount: 1}, 1, &TimeScale{})

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "unknown_agent", res.Code)
}

func TestApplySetAffinityClampsAndSetsEdge(t *testing.T) {
	d, ws := newTestDispatcher()
	a := ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 0, Y: 0}})
	b := ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 1, Y: 1}})

	res := d.Apply(ws, Command{Kind: KindSocialCommand, SocialSub: SocialSetAffinity, AgentID: a, OtherAgent: b, Affinity: 5}, 1, &TimeScale{})

	assert.Equal(t, StatusCompleted, res.Status)
	edge := ws.Edge(a, b)
	require.NotNil(t, edge)
	assert.Equal(t, 1.0, edge.Affinity)
}

func TestApplySetTimeScaleRejectsNonPositive(t *testing.T) {
	d, ws := newTestDispatcher()
	scale := &TimeScale{Multiplier: 1}

	res := d.Apply(ws, Command{Kind: KindSetTimeScale, TimeScaleMultiplier: 0}, 1, scale)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 1.0, scale.Multiplier)
}

func TestApplyKillAgentRemovesAgent(t *testing.T) {
	d, ws := newTestDispatcher()
	id := ws.AddAgent(worldstate.AgentProfile{Position: worldstate.Position{X: 0, Y: 0}})

	res := d.Apply(ws, Command{Kind: KindKillAgent, AgentID: id}, 1, &TimeScale{})

	assert.Equal(t, StatusCompleted, res.Status)
	assert.Nil(t, ws.GetAgent(id))
}
