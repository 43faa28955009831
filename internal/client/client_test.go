package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prasong/village-guard/internal/visitor"
)

func TestListVisitors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/visitors" {
			t.Errorf("path = %q, want /api/visitors", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer testkey" {
			t.Error("expected Bearer testkey")
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]*visitor.Visitor{{ID: "rec-1", Name: "Somchai"}}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	visitors, err := c.ListVisitors(ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visitors) != 1 {
		t.Fatalf("got %d visitors, want 1", len(visitors))
	}
	if visitors[0].Name != "Somchai" {
		t.Errorf("name = %q", visitors[0].Name)
	}
}

func TestListVisitorsWithOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("filter") != "out" {
			t.Errorf("filter = %q, want out", q.Get("filter"))
		}
		if q.Get("q") != "somchai" {
			t.Errorf("q = %q, want somchai", q.Get("q"))
		}
		if q.Get("reload") != "1" {
			t.Errorf("reload = %q, want 1", q.Get("reload"))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]*visitor.Visitor{}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	if _, err := c.ListVisitors(ListOptions{Filter: "out", Query: "somchai", Reload: true}); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestGetVisitor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/visitors/rec-42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(&visitor.Visitor{ID: "rec-42", Name: "Pranee"}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	v, err := c.GetVisitor("rec-42")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.ID != "rec-42" {
		t.Errorf("id = %q", v.ID)
	}
}

func TestCheckIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s", r.Method)
		}
		var d visitor.Draft
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if d.HouseNumber != "101/1" {
			t.Errorf("house = %q", d.HouseNumber)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		created := &visitor.Visitor{
			ID:          "rec-1",
			Name:        d.Name,
			HouseNumber: d.HouseNumber,
			CheckInTime: time.Now(),
			Status:      visitor.StatusIn,
		}
		if err := json.NewEncoder(w).Encode(created); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	v, err := c.CheckIn(visitor.Draft{Name: "Somchai", HouseNumber: "101/1"})
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if v.ID != "rec-1" {
		t.Errorf("id = %q", v.ID)
	}
	if v.Status != visitor.StatusIn {
		t.Errorf("status = %s", v.Status)
	}
}

func TestCheckOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/visitors/rec-1/checkout" {
			t.Errorf("path = %q", r.URL.Path)
		}
		now := time.Now()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(&visitor.Visitor{ID: "rec-1", Status: visitor.StatusOut, CheckOutTime: &now}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	v, err := c.CheckOut("rec-1")
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if v.Status != visitor.StatusOut {
		t.Errorf("status = %s", v.Status)
	}
}

func TestRestore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/visitors/rec-1/restore" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(&visitor.Visitor{ID: "rec-1", Status: visitor.StatusIn}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	v, err := c.Restore("rec-1")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if v.Status != visitor.StatusIn {
		t.Errorf("status = %s", v.Status)
	}
}

func TestUpdateVisitor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/visitors/rec-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var v visitor.Visitor
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(&v); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	v, err := c.UpdateVisitor(&visitor.Visitor{ID: "rec-1", Name: "Pranee"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v.Name != "Pranee" {
		t.Errorf("name = %q", v.Name)
	}
}

func TestHouses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/houses" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]string{"101/1", "102/3"}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	houses, err := c.Houses()
	if err != nil {
		t.Fatalf("houses: %v", err)
	}
	if len(houses) != 2 {
		t.Errorf("got %d houses", len(houses))
	}
}

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(visitor.Stats{TotalToday: 5, CurrentlyInside: 2}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalToday != 5 {
		t.Errorf("totalToday = %d", stats.TotalToday)
	}
}

func TestHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats/hourly" {
			t.Errorf("path = %q", r.URL.Path)
		}
		slots := make([]int, 24)
		slots[9] = 3
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(slots); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	slots, err := c.Hourly()
	if err != nil {
		t.Fatalf("hourly: %v", err)
	}
	if len(slots) != 24 || slots[9] != 3 {
		t.Errorf("slots = %v", slots)
	}
}

func TestScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/scan" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			Photo string `json:"photo"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Photo == "" {
			t.Error("expected photo payload")
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"name": "Somchai", "licensePlate": "1กข 234"}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	fields, err := c.Scan("data:image/jpeg;base64,abcd")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if fields.Name != "Somchai" {
		t.Errorf("name = %q", fields.Name)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		if err := json.NewEncoder(w).Encode(map[string]string{"error": "store unreachable"}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	_, err := c.ListVisitors(ListOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "store unreachable" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "badkey")
	_, err := c.ListVisitors(ListOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
}
