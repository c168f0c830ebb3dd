package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/teranos/comex/graph"
	grapherr "github.com/teranos/comex/graph/error"
	"github.com/teranos/comex/render"
	"github.com/teranos/comex/session"
	"github.com/teranos/comex/version"
	"github.com/teranos/comex/viewport"
)

// HandleWebSocket upgrades the connection and registers a client with the hub
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.getState() != ServerStateRunning {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ge := grapherr.New(grapherr.CategoryWebSocket, err, "Failed to upgrade WebSocket connection").
			WithSubcategory(grapherr.SubcategoryWSUpgrade)
		s.logger.Errorw("WebSocket upgrade failed", ge.ToLogFields()...)
		return
	}

	client := &Client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		id:     uuid.NewString(),
	}

	go client.writePump()

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		client.close()
		return
	}

	go client.readPump()
}

// handleGraph serves the current model as a D3 graph
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	var g *graph.Graph
	if err := s.Do(func(sess *session.Session) { g = sess.Export() }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	_ = writeJSON(w, http.StatusOK, g)
}

// handleFrame serves the current drawing as SVG
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	var f viewport.Frame
	if err := s.Do(func(sess *session.Session) { f = sess.Frame() }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.SVG(w, f); err != nil {
		s.logger.Warnw("failed to write frame", "error", err)
	}
}

// handleHealth reports server and session state
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		State:   stateString(s.getState()),
		Clients: s.ClientCount(),
		Version: version.Get().Short(),
	}
	err := s.Do(func(sess *session.Session) {
		resp.Redraws = sess.Viewport.Redraws()
		resp.Comments = sess.Interaction.Corpus().Len()
		if err := sess.Viewport.Err(); err != nil {
			resp.LastError = err.Error()
		}
	})
	status := http.StatusOK
	if err != nil || resp.LastError != "" {
		resp.Status = "degraded"
	}
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	_ = writeJSON(w, status, resp)
}
