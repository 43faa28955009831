package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prasong/village-guard/internal/ocr"
	"github.com/prasong/village-guard/internal/register"
	"github.com/prasong/village-guard/internal/visitor"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// registerError maps register and store failures onto HTTP status codes.
// Anything not recognized is treated as an upstream store failure.
func registerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, register.ErrBusy):
		apiError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, register.ErrMissingHouse),
		errors.Is(err, register.ErrUnknownHouse),
		errors.Is(err, register.ErrMissingID):
		apiError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, register.ErrNotFound):
		apiError(w, err.Error(), http.StatusNotFound)
	default:
		apiError(w, err.Error(), http.StatusBadGateway)
	}
}

// handleVisitors routes /api/visitors — list or check in.
func (s *Server) handleVisitors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.apiListVisitors(w, r)
	case http.MethodPost:
		s.apiCheckIn(w, r)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVisitorRoute routes /api/visitors/{id} and its sub-resources.
func (s *Server) handleVisitorRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/visitors/")

	if strings.HasSuffix(path, "/checkout") {
		id := strings.TrimSuffix(path, "/checkout")
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiCheckOut(w, r, id)
		return
	}

	if strings.HasSuffix(path, "/restore") {
		id := strings.TrimSuffix(path, "/restore")
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiRestore(w, r, id)
		return
	}

	if path == "" || strings.Contains(path, "/") {
		apiError(w, "invalid visitor ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.apiGetVisitor(w, path)
	case http.MethodPut:
		s.apiUpdateVisitor(w, r, path)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// apiListVisitors returns the loaded record set, filtered and searched.
// reload=1 re-fetches from the store first.
func (s *Server) apiListVisitors(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("reload") == "1" {
		if err := s.reg.Reload(r.Context()); err != nil {
			registerError(w, err)
			return
		}
	}

	filter := visitor.ListFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = visitor.ListAll
	}
	if !filter.IsValid() {
		apiError(w, "filter must be in, out, or all", http.StatusBadRequest)
		return
	}

	list := s.reg.Listing(filter, r.URL.Query().Get("q"))
	if list == nil {
		list = make([]*visitor.Visitor, 0)
	}
	apiJSON(w, list, http.StatusOK)
}

// apiCheckIn records an arrival from a submitted draft.
func (s *Server) apiCheckIn(w http.ResponseWriter, r *http.Request) {
	var d visitor.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	created, err := s.reg.CheckIn(r.Context(), d)
	if err != nil {
		registerError(w, err)
		return
	}

	apiJSON(w, created, http.StatusCreated)
}

// apiGetVisitor returns a single loaded record.
func (s *Server) apiGetVisitor(w http.ResponseWriter, id string) {
	v, ok := s.reg.Find(id)
	if !ok {
		apiError(w, "visitor not found", http.StatusNotFound)
		return
	}
	apiJSON(w, v, http.StatusOK)
}

// apiUpdateVisitor pushes a full record edit through the store.
func (s *Server) apiUpdateVisitor(w http.ResponseWriter, r *http.Request, id string) {
	var v visitor.Visitor
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	v.ID = id

	if err := s.reg.Update(r.Context(), &v); err != nil {
		registerError(w, err)
		return
	}

	if updated, ok := s.reg.Find(id); ok {
		apiJSON(w, updated, http.StatusOK)
		return
	}
	apiJSON(w, &v, http.StatusOK)
}

// apiCheckOut stamps a departure on a record.
func (s *Server) apiCheckOut(w http.ResponseWriter, r *http.Request, id string) {
	updated, err := s.reg.CheckOut(r.Context(), id)
	if err != nil {
		registerError(w, err)
		return
	}
	apiJSON(w, updated, http.StatusOK)
}

// apiRestore moves a departed record back inside.
func (s *Server) apiRestore(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.reg.Restore(r.Context(), id); err != nil {
		registerError(w, err)
		return
	}

	if restored, ok := s.reg.Find(id); ok {
		apiJSON(w, restored, http.StatusOK)
		return
	}
	apiJSON(w, map[string]interface{}{"id": id, "restored": true}, http.StatusOK)
}

// handleDashboard returns the guard-screen view of the record set.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := visitor.DashboardFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = visitor.DashboardToday
	}
	if !filter.IsValid() {
		apiError(w, "filter must be today, inside, or out", http.StatusBadRequest)
		return
	}

	list := s.reg.Dashboard(filter)
	if list == nil {
		list = make([]*visitor.Visitor, 0)
	}
	apiJSON(w, list, http.StatusOK)
}

// handleHouses returns the house registry.
func (s *Server) handleHouses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiJSON(w, s.reg.Houses(), http.StatusOK)
}

// handleStats returns daily traffic counts.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiJSON(w, s.reg.Stats(), http.StatusOK)
}

// handleHourly returns today's check-ins bucketed by hour.
func (s *Server) handleHourly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiJSON(w, s.reg.Hourly(), http.StatusOK)
}

// handleScan extracts identity fields from a submitted photo. A disabled
// scanner yields empty fields rather than an error, so the guard can keep
// typing by hand.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Photo string `json:"photo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Photo == "" {
		apiError(w, "photo is required", http.StatusBadRequest)
		return
	}

	fields := ocr.Fields{}
	if s.scanner != nil && s.scanner.Enabled() {
		fields = s.scanner.Extract(r.Context(), req.Photo)
	}
	apiJSON(w, fields, http.StatusOK)
}
