package server

import (
	"net/http"
	"strings"

	"github.com/eventstack/rollcall/internal/server/response"
)

// setupRouter creates the HTTP handler with all routes registered.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoint (unprefixed and prefixed)
	mux.HandleFunc("/health", s.handleHealth)
	if prefix != "" {
		mux.HandleFunc(prefix+"/health", s.handleHealth)
	}

	mux.HandleFunc(prefix+"/participants", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.handleUpsertBatch(w, r)
		case http.MethodGet:
			s.handleListParticipants(w, r)
		default:
			response.MethodNotAllowed(w)
		}
	})

	mux.HandleFunc(prefix+"/participants/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, prefix+"/participants/")
		if id == "" || strings.Contains(id, "/") {
			response.NotFound(w, "participant not found")
			return
		}
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w)
			return
		}
		s.handleGetParticipant(w, r, id)
	})

	return s.logRequests(mux)
}

// logRequests is the single middleware: one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request received")
		next.ServeHTTP(w, r)
	})
}
