package app

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/bitdog-io/restraining-bolt/internal/model"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Server exposes the supervisor's state over HTTP:
//
//	GET /api/status  - latest status snapshot
//	GET /api/events  - recent event log rows (?n= for count)
//	GET /ws          - websocket, pushed a status JSON on every change
type Server struct {
	Addr  string
	store *EventStore

	mu      sync.Mutex
	last    model.Status
	hasLast bool
	clients map[*websocket.Conn]bool

	server *http.Server
}

// NewServer builds a dashboard server over the given event store.
func NewServer(addr string, store *EventStore) *Server {
	return &Server{Addr: addr, store: store, clients: map[*websocket.Conn]bool{}}
}

// Start launches the HTTP server and blocks until it stops. An empty listen
// address disables the server.
func (s *Server) Start() {
	if s.Addr == "" {
		log.Println("[app] dashboard not started (empty address)")
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/ws", s.handleWS)
	s.server = &http.Server{Addr: s.Addr, Handler: mux}
	log.Printf("[app] dashboard listening on %s", s.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("[app] http server: %v", err)
	}
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() {
	if s.server != nil {
		_ = s.server.Close()
	}
}

// Publish stores the snapshot as the latest status and pushes it to all
// websocket clients.
func (s *Server) Publish(st model.Status) {
	b, err := json.Marshal(st)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = st
	s.hasLast = true
	for c := range s.clients {
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st, ok := s.last, s.hasLast
	s.mu.Unlock()
	if !ok {
		http.Error(w, "no status yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	n := 50
	if q := r.URL.Query().Get("n"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 {
			n = v
		}
	}
	events, err := s.store.Recent(n)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

// handleWS upgrades the connection and registers it for status pushes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			if err := conn.Close(); err != nil {
				log.Printf("[app] close websocket: %v", err)
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
