package server

import (
	"net/http"
)

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.corsMiddleware(s.HandleWebSocket))
	mux.HandleFunc("/graph.json", s.corsMiddleware(s.handleGraph))
	mux.HandleFunc("/frame.svg", s.corsMiddleware(s.handleFrame))
	mux.HandleFunc("/health", s.corsMiddleware(s.handleHealth))
	return mux
}

// corsMiddleware adds CORS headers for allowed origins
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	allowed := s.cfg.GetServerAllowedOrigins()
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && checkOrigin(r, allowed) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
