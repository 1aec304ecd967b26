package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"digital.vasic.softassert/pkg/logging"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 4096
	clientBuffer   = 64
)

// Message is the envelope written to WebSocket clients. The
// first message on every connection is the dashboard snapshot.
type Message struct {
	Type      string         `json:"type"` // dashboard, event
	Dashboard *DashboardData `json:"dashboard,omitempty"`
	Event     *CheckEvent    `json:"event,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server streams collector events to WebSocket clients on /ws
// and serves the dashboard snapshot on /dashboard.
type Server struct {
	mu        sync.RWMutex
	collector *EventCollector
	dashboard *Dashboard
	clients   map[*client]struct{}
	addr      string
	server    *http.Server
	upgrader  websocket.Upgrader
	logger    logging.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for connection events.
func WithLogger(l logging.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a monitor server. Events emitted on
// collector update dashboard and are broadcast to connected
// clients from now on, whether or not Start has been called.
func NewServer(
	addr string,
	collector *EventCollector,
	dashboard *Dashboard,
	opts ...ServerOption,
) *Server {
	s := &Server{
		addr:      addr,
		collector: collector,
		dashboard: dashboard,
		clients:   make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	collector.OnEvent(s.handleEvent)
	return s
}

// Handler returns the HTTP handler serving all endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start serves until ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.closeClients()
		_ = srv.Close()
	}()

	s.logger.Info("Monitor listening", logging.StringField("addr", s.addr))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server and disconnects every
// WebSocket client.
func (s *Server) Stop(ctx context.Context) error {
	s.closeClients()
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleEvent(event CheckEvent) {
	s.dashboard.UpdateFromEvent(event)
	data, err := json.Marshal(Message{Type: "event", Event: &event})
	if err != nil {
		return
	}
	s.broadcast(data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", logging.ErrorField(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	snap := s.dashboard.Snapshot()
	if data, err := json.Marshal(Message{Type: "dashboard", Dashboard: &snap}); err == nil {
		c.send <- data
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("Monitor client connected",
		logging.StringField("remote", r.RemoteAddr))

	go c.writePump()
	c.readPump()

	s.unregister(c)
	s.logger.Debug("Monitor client disconnected",
		logging.StringField("remote", r.RemoteAddr))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap := s.dashboard.Snapshot()
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) closeClients() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		_ = c.conn.Close()
	}
}

func (s *Server) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

// readPump discards client messages until the connection fails.
func (c *client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
