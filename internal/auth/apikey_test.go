package auth

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/prasong/village-guard/internal/db"
)

func TestAPIKeyCreateAndValidate(t *testing.T) {
	store := testAPIKeyStore(t)

	rawKey, key, err := store.Create("Gate Station")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rawKey == "" {
		t.Fatal("expected non-empty raw key")
	}
	if !strings.HasPrefix(rawKey, "vg_") {
		t.Errorf("raw key = %q, want vg_ prefix", rawKey)
	}
	if key.Name != "Gate Station" {
		t.Errorf("name = %q, want %q", key.Name, "Gate Station")
	}
	if key.KeyPrefix == "" {
		t.Error("expected non-empty key prefix")
	}
	if len(rawKey) < 10 {
		t.Error("raw key too short")
	}

	valid, err := store.Validate(rawKey)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !valid {
		t.Error("expected valid key")
	}
}

func TestAPIKeyValidateInvalid(t *testing.T) {
	store := testAPIKeyStore(t)

	valid, err := store.Validate("vg_boguskey12345678")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if valid {
		t.Error("expected invalid key")
	}
}

func TestAPIKeyList(t *testing.T) {
	store := testAPIKeyStore(t)

	if _, _, err := store.Create("Key 1"); err != nil {
		t.Fatalf("create 1: %v", err)
	}
	if _, _, err := store.Create("Key 2"); err != nil {
		t.Fatalf("create 2: %v", err)
	}

	keys, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(keys))
	}
}

func TestAPIKeyCount(t *testing.T) {
	store := testAPIKeyStore(t)

	n, err := store.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}

	if _, _, err := store.Create("Key 1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err = store.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestAPIKeyDelete(t *testing.T) {
	store := testAPIKeyStore(t)

	rawKey, key, err := store.Create("Gate Station")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Delete(key.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	valid, err := store.Validate(rawKey)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if valid {
		t.Error("deleted key should not validate")
	}
}

func TestAPIKeyDeleteMissing(t *testing.T) {
	store := testAPIKeyStore(t)

	if err := store.Delete(999); err == nil {
		t.Error("expected error deleting unknown key")
	}
}

func TestAPIKeyValidateUpdatesLastUsed(t *testing.T) {
	store := testAPIKeyStore(t)

	rawKey, _, err := store.Create("Gate Station")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.Validate(rawKey); err != nil {
		t.Fatalf("validate: %v", err)
	}

	keys, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("got %d keys, want 1", len(keys))
	}
	if keys[0].LastUsedAt == nil {
		t.Error("expected last_used_at to be set after validation")
	}
}

func testAPIKeyStore(t *testing.T) *APIKeyStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guard.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return NewAPIKeyStore(d)
}
