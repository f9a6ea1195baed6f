package localstore

import (
	"path/filepath"
	"testing"
)

// TestInMemoryKV_GetSetDelete tests basic operations on the in-memory store.
func TestInMemoryKV_GetSetDelete(t *testing.T) {
	kv := NewInMemoryKV()

	if _, err := kv.Get("cart"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound for missing key, got %v", err)
	}

	if err := kv.Set("cart", `{"items":[]}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := kv.Get("cart")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != `{"items":[]}` {
		t.Errorf("expected stored value, got %q", value)
	}

	if err := kv.Delete("cart"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kv.Get("cart"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

// TestInMemoryKV_DeleteMissing tests that deleting a missing key is a no-op.
func TestInMemoryKV_DeleteMissing(t *testing.T) {
	kv := NewInMemoryKV()

	if err := kv.Delete("nope"); err != nil {
		t.Errorf("expected nil error deleting missing key, got %v", err)
	}
}

// TestFileKV_RoundTrip tests persistence across store instances.
func TestFileKV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")

	kv := NewFileKV(path)
	if err := kv.Set("recovery_records", `[{"order_id":"SAPI_1_a"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Set("cart", `{"items":[]}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh instance reading the same file sees both keys.
	reopened := NewFileKV(path)
	value, err := reopened.Get("recovery_records")
	if err != nil {
		t.Fatalf("Get failed after reopen: %v", err)
	}
	if value != `[{"order_id":"SAPI_1_a"}]` {
		t.Errorf("unexpected value after reopen: %q", value)
	}

	if err := reopened.Delete("cart"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := reopened.Get("cart"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
	// The other key survives the delete.
	if _, err := reopened.Get("recovery_records"); err != nil {
		t.Errorf("expected surviving key, got %v", err)
	}
}

// TestFileKV_MissingFile tests that a missing backing file reads as empty.
func TestFileKV_MissingFile(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "does-not-exist.json"))

	if _, err := kv.Get("cart"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
	if err := kv.Delete("cart"); err != nil {
		t.Errorf("expected nil deleting from empty store, got %v", err)
	}
}
