package server

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// newUpgrader creates a WebSocket upgrader with origin checking against the
// allowed origins
func newUpgrader(allowed []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin: func(r *http.Request) bool {
			return checkOrigin(r, allowed)
		},
	}
}

// checkOrigin validates the request origin. Requests without an Origin
// header (direct clients, tests) are allowed. Otherwise the scheme and host
// must equal those of an allowed origin; the port only has to match when the
// allowed origin names one.
func checkOrigin(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	o, err := url.Parse(origin)
	if err != nil || o.Host == "" {
		return false
	}
	for _, allowedOrigin := range allowed {
		a, err := url.Parse(allowedOrigin)
		if err != nil || a.Host == "" {
			continue
		}
		if !strings.EqualFold(o.Scheme, a.Scheme) || !strings.EqualFold(o.Hostname(), a.Hostname()) {
			continue
		}
		if a.Port() == "" || a.Port() == o.Port() {
			return true
		}
	}
	return false
}

// isPortAvailable checks if a port is available for binding
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

// findAvailablePort returns port if free, otherwise the next free port
// within a small window
func findAvailablePort(port int) (int, error) {
	for p := port; p < port+10; p++ {
		if isPortAvailable(p) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("no available port in %d..%d", port, port+9)
}
