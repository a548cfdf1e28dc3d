// Package telemetry broadcasts world.Snapshot updates to connected
// websocket clients, for a live dashboard view of a running rollout. It
// is ambient observability infrastructure, grounded directly on the
// teacher's server/fastview websocket client (ping/pong keepalive,
// rate-limited broadcast) and its view_builder's fan-out-to-many-views
// shape: not a renderer and not a policy, just JSON state-shipping over a
// socket, to however many viewers are connected right now.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"

	"github.com/dronegrid/dronegrid/world"
)

const (
	writeWait      = 1 * time.Second
	pubResolution  = 100 * time.Millisecond
	pingResolution = 200 * time.Millisecond
	pongWait       = pingResolution * 4

	// clientBacklog is how many pending snapshots a slow client may queue
	// before the hub starts dropping updates for it; a dashboard viewer is
	// only ever interested in the latest state, not a backlog.
	clientBacklog = 1
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ErrPongDeadlineExceeded indicates a client stopped answering pings and
// should be treated as disconnected.
var ErrPongDeadlineExceeded = errors.New("telemetry: client disconnect, pong deadline exceeded")

// Server publishes world.Snapshot updates read from a single upstream
// channel to every websocket client connected at "/ws", fanning one
// update out to however many viewers are currently attached (the
// dynamic-N analogue of the teacher's channerics.Broadcast, which fans
// out to a fixed, known-at-build-time set of views). It exposes a single
// index page at "/" describing the feed, since it is a headless
// telemetry surface, not a renderer.
type Server struct {
	addr   string
	router *mux.Router

	mu      sync.Mutex
	clients map[chan world.Snapshot]struct{}
}

// NewServer builds a Server that broadcasts every snapshot read from
// updates to each client connected at the time it arrives. updates should
// be fed by the caller's rollout loop.
func NewServer(addr string, updates <-chan world.Snapshot) *Server {
	s := &Server{
		addr:    addr,
		router:  mux.NewRouter(),
		clients: make(map[chan world.Snapshot]struct{}),
	}
	s.router.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.serveWebsocket).Methods(http.MethodGet)

	go s.fanOut(updates)
	return s
}

// fanOut reads every snapshot from updates once and pushes a copy onto
// each currently-registered client channel. A client channel that is
// already full (a viewer too slow to keep up) simply misses this update;
// the next one will still arrive.
func (s *Server) fanOut(updates <-chan world.Snapshot) {
	for snap := range updates {
		s.mu.Lock()
		for ch := range s.clients {
			select {
			case ch <- snap:
			default:
			}
		}
		s.mu.Unlock()
	}
	s.mu.Lock()
	for ch := range s.clients {
		close(ch)
	}
	s.clients = nil
	s.mu.Unlock()
}

func (s *Server) register() chan world.Snapshot {
	ch := make(chan world.Snapshot, clientBacklog)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Server) unregister(ch chan world.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[ch]; ok {
		delete(s.clients, ch)
		close(ch)
	}
}

// Serve blocks, listening on addr until the process is killed or
// ListenAndServe returns an error.
func (s *Server) Serve() error {
	if err := http.ListenAndServe(s.addr, s.router); err != nil {
		return fmt.Errorf("telemetry: serve: %w", err)
	}
	return nil
}

// Handler returns the server's http.Handler, for embedding in a larger
// mux or for use with httptest.NewServer in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "dronegrid telemetry: connect a websocket client to /ws for a stream of world.Snapshot JSON")
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		log.Println("telemetry: upgrade:", err)
		return
	}
	defer conn.Close()

	client := s.register()
	defer s.unregister(client)

	if err := publish(r.Context(), conn, client); err != nil {
		log.Println("telemetry: client session ended:", err)
	}
}

// publish runs the ping/pong liveness check and the rate-limited
// broadcast loop for one client connection concurrently, returning when
// either fails or the client's request context is cancelled.
func publish(ctx context.Context, conn *websocket.Conn, updates <-chan world.Snapshot) error {
	pong := make(chan struct{})
	conn.SetPongHandler(func(string) error {
		pong <- struct{}{}
		return nil
	})

	errs := make(chan error, 2)
	go func() { errs <- pingPong(ctx, conn, pong) }()
	go func() { errs <- broadcast(ctx, conn, updates) }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

func pingPong(ctx context.Context, conn *websocket.Conn, pong <-chan struct{}) error {
	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("telemetry: ping: %w", err)
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func broadcast(ctx context.Context, conn *websocket.Conn, updates <-chan world.Snapshot) error {
	lastSync := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if time.Since(lastSync) < pubResolution {
				continue // drop intermediate snapshots faster than pubResolution
			}
			lastSync = time.Now()
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("telemetry: set write deadline: %w", err)
			}
			if err := conn.WriteJSON(snap); err != nil {
				return fmt.Errorf("telemetry: write: %w", err)
			}
		}
	}
}
