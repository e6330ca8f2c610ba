// Package server exposes a running simulation's live stats: a JSON
// snapshot endpoint and a websocket stream, so an external dashboard can
// watch agent count and per-substance diffusion totals without pausing
// the scheduler. Grounded on the teacher's fastview websocket client
// (server/fastview/client.go), routed with gorilla/mux in place of the
// teacher's bare http.HandleFunc.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"simcore/server/fastview"
)

// GridStats is one DiffusionGrid's published summary.
type GridStats struct {
	ID   uint64  `json:"id"`
	Name string  `json:"name"`
	Sum  float64 `json:"sum"`
}

// SimStats is one step's published snapshot (spec.md section 6's
// "observability" concern is otherwise out of scope; this is the
// minimal surface the scheduler drives every step).
type SimStats struct {
	Step       int         `json:"step"`
	AgentCount int         `json:"agent_count"`
	Grids      []GridStats `json:"grids"`
}

// Server fans SimStats out to however many websocket clients are
// connected at once, dropping a publish for any subscriber whose buffer
// is full rather than blocking the scheduler's step loop.
type Server struct {
	addr   string
	router *mux.Router

	mu   sync.Mutex
	last SimStats
	subs map[chan SimStats]struct{}
}

// NewServer builds a Server listening on addr once Serve is called.
func NewServer(addr string) *Server {
	s := &Server{
		addr: addr,
		subs: make(map[chan SimStats]struct{}),
	}
	s.router = mux.NewRouter()
	s.router.HandleFunc("/stats", s.serveSnapshot).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.serveWebsocket).Methods(http.MethodGet)
	s.router.HandleFunc("/api/diffusion/{substance}", s.serveDiffusion).Methods(http.MethodGet)
	return s
}

// Serve blocks, serving the stats endpoints on s.addr.
func (s *Server) Serve() error {
	if err := http.ListenAndServe(s.addr, s.router); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Publish broadcasts stats to every currently connected client.
func (s *Server) Publish(stats SimStats) {
	s.mu.Lock()
	s.last = stats
	subs := make([]chan SimStats, 0, len(s.subs))
	for ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- stats:
		default:
		}
	}
}

func (s *Server) subscribe() chan SimStats {
	ch := make(chan SimStats, 4)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan SimStats) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
	close(ch)
}

func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.last
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

// serveDiffusion returns the most recently published summary for one
// named substance, 404 if the last snapshot never registered it.
func (s *Server) serveDiffusion(w http.ResponseWriter, r *http.Request) {
	substance := mux.Vars(r)["substance"]

	s.mu.Lock()
	grids := s.last.Grids
	s.mu.Unlock()

	for _, g := range grids {
		if g.Name == substance {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(g)
			return
		}
	}
	http.Error(w, fmt.Sprintf("unknown substance %q", substance), http.StatusNotFound)
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ch := s.subscribe()
	defer s.unsubscribe(ch)

	cli, err := fastview.NewClient[SimStats](ch, w, r)
	if err != nil {
		return
	}
	_ = cli.Sync()
}
