// Package web provides the HTTP API server for the guard station.
package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prasong/village-guard/internal/ocr"
	"github.com/prasong/village-guard/internal/register"
)

// Server is the guard-station API server.
type Server struct {
	reg     *register.Register
	scanner *ocr.Client
	mux     *http.ServeMux
}

// NewServer creates an API server over the given register. The scanner may
// be disabled; /api/scan then returns empty fields.
func NewServer(reg *register.Register, scanner *ocr.Client) *Server {
	s := &Server{
		reg:     reg,
		scanner: scanner,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/visitors", s.handleVisitors)
	s.mux.HandleFunc("/api/visitors/", s.handleVisitorRoute)
	s.mux.HandleFunc("/api/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/api/houses", s.handleHouses)
	s.mux.HandleFunc("/api/stats", s.handleStats)
	s.mux.HandleFunc("/api/stats/hourly", s.handleHourly)
	s.mux.HandleFunc("/api/scan", s.handleScan)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server with the given outer handler chain.
func ListenAndServe(port int, handler http.Handler) error {
	addr := fmt.Sprintf(":%d", port)
	slog.Info("starting api server", "addr", addr)
	return http.ListenAndServe(addr, handler)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
