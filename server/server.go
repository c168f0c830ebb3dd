// Package server hosts a live drawing session over WebSocket. One hub
// goroutine owns the session: client gestures, file reloads and HTTP reads
// are all funnelled through it, and frames are pushed back to every client
// at a bounded rate.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/comex/config"
	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/errors"
	grapherr "github.com/teranos/comex/graph/error"
	"github.com/teranos/comex/logger"
	"github.com/teranos/comex/session"
)

// maxClients bounds concurrent WebSocket connections
const maxClients = 64

// command is one unit of work for the hub. Exactly one of fn and msg is
// set; err reports a message the client sent that could not be decoded.
type command struct {
	client *Client
	msg    *ClientMessage
	err    error
	fn     func(*session.Session)
}

// Server provides a live-updating drawing of one corpus
type Server struct {
	cfg     *config.Config
	session *session.Session

	clients     map[*Client]bool // owned by the hub goroutine
	register    chan *Client
	unregister  chan *Client
	commands    chan command
	clientCount atomic.Int32

	limiter *rate.Limiter
	tick    time.Duration
	dirty   bool // a frame is owed to clients
	moving  bool // the layout has not settled

	upgrader   websocket.Upgrader
	httpServer *http.Server

	// Lifecycle management
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	running        atomic.Bool
	broadcastDrops atomic.Int64
	state          atomic.Int32

	logger *zap.SugaredLogger
}

// New creates a server around c. The hub does not run until Run or Start.
func New(c *corpus.Corpus, cfg *config.Config, log *zap.SugaredLogger) (*Server, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	sess, err := session.New(c, cfg, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:        cfg,
		session:    sess,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan command, 256),
		limiter:    rate.NewLimiter(rate.Limit(cfg.Server.SnapshotRate), 1),
		tick:       time.Duration(cfg.Layout.TickMS) * time.Millisecond,
		upgrader:   newUpgrader(cfg.GetServerAllowedOrigins()),
		ctx:        ctx,
		cancel:     cancel,
		logger:     log.Named("server"),
	}
	s.state.Store(int32(ServerStateRunning))
	return s, nil
}

// Run is the hub event loop. It draws the corpus once, then serves commands
// and layout ticks until the server stops. Run must be called at most once.
func (s *Server) Run() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	ticker := time.NewTicker(s.tick)
	defer func() {
		ticker.Stop()
		for client := range s.clients {
			delete(s.clients, client)
			client.close()
		}
		s.session.Close()
	}()

	s.afterRedraw(s.session.Redraw())

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		case cmd := <-s.commands:
			s.handleCommand(cmd)
		case <-ticker.C:
			s.step()
		}
	}
}

// step advances the layout and flushes a frame when one is owed and the
// rate limit allows.
func (s *Server) step() {
	if s.moving {
		s.moving = s.session.Viewport.Tick()
		s.dirty = true
	}
	if s.dirty && len(s.clients) > 0 && s.limiter.Allow() {
		s.broadcastFrame()
		s.dirty = false
	}
}

func (s *Server) handleCommand(cmd command) {
	defer func() {
		if r := recover(); r != nil {
			ge := grapherr.Newf(grapherr.CategoryInternal, "", "panic handling command: %v", r).
				WithSubcategory(grapherr.SubcategoryInternalPanic)
			s.logger.Errorw("command panicked", ge.ToLogFields()...)
			if cmd.client != nil {
				s.sendError(cmd.client, ge)
			}
		}
	}()

	switch {
	case cmd.fn != nil:
		cmd.fn(s.session)
	case cmd.err != nil:
		s.sendError(cmd.client, cmd.err)
	case cmd.msg != nil:
		if err := s.dispatch(cmd.client, cmd.msg); err != nil {
			s.sendError(cmd.client, err)
		}
	}
}

// afterRedraw publishes the outcome of a redraw.
func (s *Server) afterRedraw(err error) {
	if err != nil {
		ge, ok := grapherr.As(err)
		if !ok {
			ge = grapherr.Wrap(grapherr.CategoryLifecycle, err, "").WithSubcategory(grapherr.SubcategoryLifecycleRedraw)
		}
		s.logger.Errorw("redraw failed", ge.ToLogFields()...)
		s.broadcast(ServerMessage{Type: MsgError, Error: ge.ToGraphMeta()})
		s.broadcast(ServerMessage{Type: MsgGraph, Graph: s.session.Export()})
		s.moving = false
		return
	}
	s.moving = true
	s.dirty = true
	s.broadcast(ServerMessage{Type: MsgGraph, Graph: s.session.Export()})
}

// Reload replaces the corpus and redraws. Safe to call from any goroutine.
func (s *Server) Reload(c *corpus.Corpus) {
	s.enqueue(command{fn: func(sess *session.Session) {
		s.afterRedraw(sess.Reload(c))
	}})
}

// Do runs fn on the hub goroutine and waits for it. It must not be called
// from the hub itself.
func (s *Server) Do(fn func(*session.Session)) error {
	done := make(chan struct{})
	if !s.enqueue(command{fn: func(sess *session.Session) {
		defer close(done)
		fn(sess)
	}}) {
		return errors.New("server stopped")
	}
	select {
	case <-done:
		return nil
	case <-s.ctx.Done():
		return errors.New("server stopped")
	}
}

func (s *Server) enqueue(cmd command) bool {
	select {
	case s.commands <- cmd:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	return int(s.clientCount.Load())
}

// handleClientRegister adds a client and sends it the current state
func (s *Server) handleClientRegister(client *Client) {
	if len(s.clients) >= maxClients {
		s.logger.Warnw("client limit reached, rejecting connection",
			logger.FieldClientID, client.id,
			"max_clients", maxClients)
		client.close()
		return
	}
	s.clients[client] = true
	s.clientCount.Store(int32(len(s.clients)))

	s.sendTo(client, s.versionMessage(client))
	s.sendTo(client, ServerMessage{Type: MsgGraph, Graph: s.session.Export()})
	frame := s.session.Frame()
	s.sendTo(client, ServerMessage{Type: MsgFrame, Frame: &frame})

	s.logger.Infow("client connected",
		logger.FieldClientID, shortID(client.id),
		"total_clients", len(s.clients))
}

// handleClientUnregister handles a client disconnection
func (s *Server) handleClientUnregister(client *Client) {
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	s.clientCount.Store(int32(len(s.clients)))
	client.close()

	s.logger.Infow("client disconnected",
		logger.FieldClientID, shortID(client.id),
		"total_clients", len(s.clients))
}

// removeSlowClient drops a client that cannot keep up with broadcasts
func (s *Server) removeSlowClient(client *Client) {
	s.broadcastDrops.Add(1)
	s.handleClientUnregister(client)
	s.logger.Warnw("client send channel full, removed client",
		logger.FieldClientID, shortID(client.id),
		"total_drops", s.broadcastDrops.Load())
}

func (s *Server) broadcastFrame() {
	frame := s.session.Frame()
	s.broadcast(ServerMessage{Type: MsgFrame, Frame: &frame})
}

// broadcast encodes msg once and queues it for every client
func (s *Server) broadcast(msg ServerMessage) {
	if len(s.clients) == 0 {
		return
	}
	data, err := s.encode(msg)
	if err != nil {
		return
	}
	for client := range s.clients {
		s.queue(client, data)
	}
}

func (s *Server) sendTo(client *Client, msg ServerMessage) {
	data, err := s.encode(msg)
	if err != nil {
		return
	}
	s.queue(client, data)
}

func (s *Server) queue(client *Client, data []byte) {
	if !s.clients[client] {
		return
	}
	select {
	case client.send <- data:
	default:
		s.removeSlowClient(client)
	}
}

func (s *Server) encode(msg ServerMessage) ([]byte, error) {
	msg.Timestamp = time.Now().Unix()
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Errorw("failed to encode message",
			"type", msg.Type,
			logger.FieldError, err)
	}
	return data, err
}

// sendError reports err to one client as a structured graph error
func (s *Server) sendError(client *Client, err error) {
	ge, ok := grapherr.As(err)
	if !ok {
		ge = grapherr.Wrap(grapherr.CategoryWebSocket, err, "").WithSubcategory(grapherr.SubcategoryWSMessage)
	}
	s.logger.Debugw("client request failed",
		append(ge.ToLogFields(), logger.FieldClientID, shortID(client.id))...)
	s.sendTo(client, ServerMessage{Type: MsgError, Error: ge.ToGraphMeta()})
}
