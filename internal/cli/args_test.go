package cli

import (
	"testing"
)

func TestCheckinRequiresHouse(t *testing.T) {
	_, err := executeCommand("checkin")
	if err == nil {
		t.Fatal("expected error when --house not provided")
	}
}

func TestCheckoutRequiresID(t *testing.T) {
	_, err := executeCommand("checkout")
	if err == nil {
		t.Fatal("expected error when no ID provided")
	}
}

func TestRestoreRequiresID(t *testing.T) {
	_, err := executeCommand("restore")
	if err == nil {
		t.Fatal("expected error when no ID provided")
	}
}

func TestShowRequiresID(t *testing.T) {
	_, err := executeCommand("show")
	if err == nil {
		t.Fatal("expected error when no ID provided")
	}
}

func TestUpdateRequiresID(t *testing.T) {
	_, err := executeCommand("update")
	if err == nil {
		t.Fatal("expected error when no ID provided")
	}
}

func TestScanRequiresPhoto(t *testing.T) {
	_, err := executeCommand("scan")
	if err == nil {
		t.Fatal("expected error when no photo provided")
	}
}

func TestThemeRejectsUnknownValue(t *testing.T) {
	_, err := executeCommand("theme", "sepia")
	if err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestKeysRevokeRejectsNonNumericID(t *testing.T) {
	_, err := executeCommand("keys", "revoke", "abc")
	if err == nil {
		t.Fatal("expected error for non-numeric key ID")
	}
}
