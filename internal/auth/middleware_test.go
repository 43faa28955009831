package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAPIKeySkipsNonAPIPaths(t *testing.T) {
	store := testAPIKeyStore(t)
	if _, _, err := store.Create("gate"); err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := RequireAPIKey(store, okHandler())

	r := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequireAPIKeyAllowsEmptyStore(t *testing.T) {
	store := testAPIKeyStore(t)

	handler := RequireAPIKey(store, okHandler())

	r := httptest.NewRequest("GET", "/api/visitors", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d (no keys provisioned yet)", w.Code, http.StatusOK)
	}
}

func TestRequireAPIKeyRejectsMissingHeader(t *testing.T) {
	store := testAPIKeyStore(t)
	if _, _, err := store.Create("gate"); err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := RequireAPIKey(store, okHandler())

	r := httptest.NewRequest("GET", "/api/visitors", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAPIKeyRejectsInvalidKey(t *testing.T) {
	store := testAPIKeyStore(t)
	if _, _, err := store.Create("gate"); err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := RequireAPIKey(store, okHandler())

	r := httptest.NewRequest("GET", "/api/visitors", nil)
	r.RemoteAddr = "198.51.100.7:4000"
	r.Header.Set("Authorization", "Bearer vg_wrongkey")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAPIKeyAcceptsValidKey(t *testing.T) {
	store := testAPIKeyStore(t)
	rawKey, _, err := store.Create("gate")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := RequireAPIKey(store, okHandler())

	r := httptest.NewRequest("GET", "/api/visitors", nil)
	r.Header.Set("Authorization", "Bearer "+rawKey)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequireAPIKeyRateLimitsRepeatedFailures(t *testing.T) {
	store := testAPIKeyStore(t)
	if _, _, err := store.Create("gate"); err != nil {
		t.Fatalf("create: %v", err)
	}

	handler := RequireAPIKey(store, okHandler())

	// Distinct address keeps this test isolated from the shared limiter state.
	addr := "203.0.113.9:5000"
	var last int
	for i := 0; i < rateLimitMaxFail+2; i++ {
		r := httptest.NewRequest("GET", "/api/visitors", nil)
		r.RemoteAddr = addr
		r.Header.Set("Authorization", fmt.Sprintf("Bearer vg_bogus%d", i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		last = w.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("status after repeated failures = %d, want %d", last, http.StatusTooManyRequests)
	}
}
