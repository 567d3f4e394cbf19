// Package transport is the demo wire layer sitting outside the core
// (spec.md Section 1: "the transport layer... is explicitly OUT of
// scope" for the core itself, but spec.md Section 6 still specifies its
// wire contract precisely). Grounded on the teacher's internal/api/server.go
// (public GET endpoints, bearer-token-gated admin POSTs, CORS, SSE
// streaming) but rebuilt on go-chi/chi + go-chi/cors for routing and
// gorilla/websocket + msgpack for the outbound event stream, per
// Section 6's "Outbound events... TICK... SNAPSHOT... RESPONSE... ERROR".
package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/talgya/agentforge/internal/clock"
	"github.com/talgya/agentforge/internal/command"
	"github.com/talgya/agentforge/internal/persistence"
	"github.com/talgya/agentforge/internal/snapshot"
)

// WireEvent is the outbound envelope every event the stream sends is
// wrapped in (Section 6 "Outbound events"): TICK, SNAPSHOT, RESPONSE, or
// ERROR, msgpack-encoded.
type WireEvent struct {
	Kind      string      `msgpack:"kind"`
	RequestID string      `msgpack:"request_id,omitempty"`
	Payload   interface{} `msgpack:"payload"`
}

const (
	kindTick     = "TICK"
	kindSnapshot = "SNAPSHOT"
	kindResponse = "RESPONSE"
	kindError    = "ERROR"
)

// Server exposes a Runner over HTTP (control plane) and WebSocket
// (outbound event stream).
type Server struct {
	runner   *clock.Runner
	store    persistence.SaveStore
	adminKey string

	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

// NewServer wires a transport Server around an already-constructed
// Runner. adminKey empty disables POST admin endpoints, mirroring the
// teacher's "admin endpoints disabled (no WORLDSIM_ADMIN_KEY set)".
func NewServer(runner *clock.Runner, store persistence.SaveStore, adminKey string) *Server {
	return &Server{
		runner:   runner,
		store:    store,
		adminKey: adminKey,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		subs:     make(map[*websocket.Conn]struct{}),
	}
}

// Router builds the chi mux: public GET endpoints, the admin POST
// endpoints gated behind bearer auth, and the /stream WebSocket upgrade.
func (s *Server) Router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/state", s.handleFullState)
	r.Get("/api/v1/entity/{id}", s.handleEntityDetails)
	r.Get("/api/v1/saves", s.handleListSaves)
	r.Get("/api/v1/stream", s.handleStream)

	r.Group(func(admin chi.Router) {
		admin.Use(s.requireAdmin)
		admin.Post("/api/v1/command", s.handleCommand)
		admin.Post("/api/v1/saves", s.handleSaveGame)
		admin.Delete("/api/v1/saves/{id}", s.handleDeleteSave)
	})

	return r
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminKey == "" {
			http.Error(w, "admin endpoints disabled (no admin key configured)", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.adminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.runner.LastSnapshot()
	writeJSON(w, map[string]any{
		"tick":        s.runner.CurrentTick(),
		"agent_count": len(snap.Agents),
		"event_count": len(snap.Events),
	})
}

// handleFullState answers REQUEST_FULL_STATE (Section 6 "Inbound
// requests") over plain HTTP rather than the WebSocket request/response
// path, for clients that only need a one-shot poll.
func (s *Server) handleFullState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.runner.LastSnapshot())
}

// handleEntityDetails answers REQUEST_ENTITY_DETAILS{entityId}.
func (s *Server) handleEntityDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := s.runner.LastSnapshot()
	for _, a := range snap.Agents {
		if strconv.FormatUint(a.ID, 10) == id {
			writeJSON(w, a)
			return
		}
	}
	http.Error(w, "entity not found", http.StatusNotFound)
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	metas, err := s.store.ListSaves(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, metas)
}

func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	snap := s.runner.LastSnapshot()
	data, err := msgpack.Marshal(snap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	meta, err := s.store.SaveGame(r.Context(), data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, meta)
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := s.store.DeleteSave(r.Context(), persistence.SaveID(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]bool{"deleted": ok})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd command.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "malformed command body", http.StatusBadRequest)
		return
	}
	if !s.runner.EnqueueCommand(cmd) {
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleStream upgrades to a WebSocket and pushes one SNAPSHOT event
// immediately, then one TICK event per tick thereafter, until the
// connection closes (Section 6 "On connection: one SNAPSHOT event...
// On each tick: one TICK event").
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.subs[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.subs, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	if err := s.sendEvent(conn, WireEvent{Kind: kindSnapshot, Payload: s.runner.LastSnapshot()}); err != nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) sendEvent(conn *websocket.Conn, evt WireEvent) error {
	data, err := msgpack.Marshal(evt)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

// Broadcast pushes a TICK event carrying snap to every connected
// subscriber. Intended to be called from the caller's RunLoop callback
// each tick.
func (s *Server) Broadcast(snap snapshot.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.subs {
		if err := s.sendEvent(conn, WireEvent{Kind: kindTick, Payload: snap}); err != nil {
			slog.Warn("dropping stalled stream subscriber", "error", err)
			go conn.Close()
			delete(s.subs, conn)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed writing JSON response", "error", err)
	}
}

