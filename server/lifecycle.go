package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/teranos/comex/errors"
)

// shutdownTimeout bounds how long Stop waits for HTTP handlers to finish
const shutdownTimeout = 5 * time.Second

// getState returns the current server state
func (s *Server) getState() ServerState {
	return ServerState(s.state.Load())
}

// setState atomically updates the server state
func (s *Server) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("server state changed", "new_state", stateString(newState))
}

// stateString returns human-readable state name
func stateString(state ServerState) string {
	switch state {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Start runs the hub and serves HTTP on port, or the next free port. It
// blocks until Stop is called or the listener fails.
func (s *Server) Start(port int) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run()
	}()

	actualPort, err := findAvailablePort(port)
	if err != nil {
		return errors.Wrap(err, "failed to find available port")
	}
	if actualPort != port {
		s.logger.Infow("port in use, using alternative",
			"requested_port", port,
			"actual_port", actualPort)
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", actualPort),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infow("server ready",
		"url", fmt.Sprintf("http://localhost:%d", actualPort),
		"port", actualPort)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Stop drains HTTP, stops the hub and closes every client
func (s *Server) Stop() error {
	if s.getState() == ServerStateStopped {
		return nil
	}
	s.logger.Infow("initiating server shutdown")
	s.setState(ServerStateDraining)

	var shutdownErr error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr = s.httpServer.Shutdown(ctx)
	}

	s.cancel()
	s.wg.Wait()

	s.setState(ServerStateStopped)
	return shutdownErr
}
