package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AlexGameTester/2016-solar-project/internal/core/events/bus"
	"github.com/AlexGameTester/2016-solar-project/internal/core/observability/log"
	"github.com/AlexGameTester/2016-solar-project/internal/simulation"
)

var ErrFeedClosed = errors.New("feed is closed")

const (
	clientBuffer = 64
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server pushes JSON frames to every connected websocket client. Slow
// clients drop frames rather than stall the simulation.
type Server struct {
	addr   string
	logger log.Log

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	dropped uint64

	httpServer *http.Server
	listener   net.Listener
}

func NewServer(addr string, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Server{
		addr:    addr,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Handler serves the websocket endpoint on /frames.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/frames", s.handleWebSocket)
	return mux
}

// Start listens on the configured address in the background.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("feed listen: %w", err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.mu.Lock()
	s.listener = ln
	s.httpServer = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("feed server stopped", log.Error(err))
		}
	}()
	s.logger.Info("feed listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop disconnects every client and shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Dropped returns how many frames were discarded for slow clients.
func (s *Server) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Broadcast encodes f once and queues it for every client.
func (s *Server) Broadcast(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrFeedClosed
	}
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.dropped++
		}
	}
	return nil
}

// Subscribe broadcasts a frame after every n-th completed step.
func (s *Server) Subscribe(b bus.EventBus, every int) (bus.Subscription, error) {
	if every < 1 {
		every = 1
	}
	return b.Subscribe(simulation.EventStepCompleted, func(e bus.Event) error {
		info, ok := e.Data().(simulation.StepInfo)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", e.Type(), e.Data())
		}
		if info.Step%uint64(every) != 0 {
			return nil
		}
		err := s.Broadcast(NewFrame(info.RunID, info.Step, info.Time, info.Scene))
		if errors.Is(err, ErrFeedClosed) {
			return nil
		}
		return err
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("feed upgrade failed", log.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("feed client connected", log.String("remote", conn.RemoteAddr().String()))

	go s.readLoop(c)
	s.writeLoop(c)
}

// writeLoop drains the client queue until it is closed or a write fails.
func (s *Server) writeLoop(c *client) {
	defer func() {
		s.remove(c)
		_ = c.conn.Close()
	}()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Debug("feed write failed", log.Error(err))
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop discards client messages and notices disconnects.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.remove(c)
			return
		}
	}
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}
