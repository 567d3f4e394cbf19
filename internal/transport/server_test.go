package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentforge/internal/clock"
	"github.com/talgya/agentforge/internal/persistence"
	"github.com/talgya/agentforge/internal/worldstate"
)

type memStore struct {
	saves map[persistence.SaveID]persistence.SaveBlob
}

func newMemStore() *memStore { return &memStore{saves: make(map[persistence.SaveID]persistence.SaveBlob)} }

func (m *memStore) ListSaves(ctx context.Context) ([]persistence.SaveMeta, error) {
	var metas []persistence.SaveMeta
	for _, b := range m.saves {
		metas = append(metas, b.Meta)
	}
	return metas, nil
}

func (m *memStore) GetSave(ctx context.Context, id persistence.SaveID) (*persistence.SaveBlob, error) {
	b, ok := m.saves[id]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &b, nil
}

func (m *memStore) SaveGame(ctx context.Context, data []byte) (persistence.SaveMeta, error) {
	meta := persistence.SaveMeta{ID: persistence.SaveID("test-save"), SizeBytes: len(data)}
	m.saves[meta.ID] = persistence.SaveBlob{Meta: meta, Data: data}
	return meta, nil
}

func (m *memStore) DeleteSave(ctx context.Context, id persistence.SaveID) (bool, error) {
	if _, ok := m.saves[id]; !ok {
		return false, nil
	}
	delete(m.saves, id)
	return true, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tiles := worldstate.NewTileGrid(16, 16)
	ws := worldstate.New(tiles)
	runner := clock.NewRunner(context.Background(), ws, clock.DefaultConfig())
	runner.Tick()
	return NewServer(runner, newMemStore(), "secret")
}

func TestHandleStatusReturnsCurrentTick(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rr := httptest.NewRecorder()

	s.Router(nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"tick":1`)
	assert.Contains(t, rr.Body.String(), `"agent_count"`)
	assert.Contains(t, rr.Body.String(), `"event_count"`)
}

func TestCommandEndpointRejectsWithoutAdminKey(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/command", nil)
	rr := httptest.NewRecorder()

	s.Router(nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCommandEndpointAcceptsWithAdminKey(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/command", strings.NewReader(`{"Kind":12}`))
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()

	s.Router(nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
}

func TestSaveGameEndpointStoresBlob(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/saves", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()

	s.Router(nil).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "test-save")
}
