package recovery

import (
	"testing"
	"time"

	"github.com/onnwee/walletpay/internal/localstore"
)

func TestRecordStaleBefore(t *testing.T) {
	now := time.Now()
	record := Record{OrderID: "SAPI_1_a", CreatedAt: now.Add(-10 * time.Minute)}

	if !record.StaleBefore(now.Add(-5 * time.Minute)) {
		t.Error("10m old record not stale past a 5m cutoff")
	}
	if record.StaleBefore(now.Add(-15 * time.Minute)) {
		t.Error("10m old record stale past a 15m cutoff")
	}
}

func TestRecordStorePutReplaceDelete(t *testing.T) {
	store := NewRecordStore(localstore.NewInMemoryKV())

	first := Record{OrderID: "SAPI_1_a", PaymentID: "PID1", CreatedAt: time.Now()}
	if err := store.Put(first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put(Record{OrderID: "SAPI_2_b", PaymentID: "PID2", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Putting the same order ID replaces, never duplicates.
	first.PaymentID = "PID1b"
	if err := store.Put(first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %+v, want 2", records)
	}
	for _, r := range records {
		if r.OrderID == "SAPI_1_a" && r.PaymentID != "PID1b" {
			t.Errorf("record not replaced: %+v", r)
		}
	}

	if err := store.Delete("SAPI_1_a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	records, _ = store.List()
	if len(records) != 1 || records[0].OrderID != "SAPI_2_b" {
		t.Errorf("records after delete = %+v, want only SAPI_2_b", records)
	}

	// Deleting a missing record is a no-op.
	if err := store.Delete("SAPI_9_z"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestRecordStoreEmptyListClearsKey(t *testing.T) {
	kv := localstore.NewInMemoryKV()
	store := NewRecordStore(kv)

	if err := store.Put(Record{OrderID: "SAPI_1_a", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Delete("SAPI_1_a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := kv.Get(StorageKey); err != localstore.ErrKeyNotFound {
		t.Errorf("storage key still present after last delete: %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %+v, want none", records)
	}
}
