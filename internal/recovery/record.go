// Package recovery provides the stuck-payment breadcrumbs and the background
// sweep that force-cancels payments left non-terminal by an interrupted session.
package recovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/onnwee/walletpay/internal/localstore"
)

// StorageKey is the device-local key holding the JSON-encoded record list.
const StorageKey = "wallet_recovery_records"

// Record is a local breadcrumb for a payment that has not reached a terminal
// state yet. It is deleted once the payment terminates or the sweep cleans it up.
type Record struct {
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StaleBefore reports whether the record is older than the cutoff.
func (r Record) StaleBefore(cutoff time.Time) bool {
	return r.CreatedAt.Before(cutoff)
}

// RecordStore persists recovery records under a single device-local JSON key.
type RecordStore struct {
	mu sync.Mutex
	kv localstore.KV
}

// NewRecordStore creates a record store over the given device-local KV.
func NewRecordStore(kv localstore.KV) *RecordStore {
	return &RecordStore{kv: kv}
}

// Put adds or replaces the record for its order ID.
func (s *RecordStore) Put(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range records {
		if records[i].OrderID == record.OrderID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	return s.save(records)
}

// Delete removes the record for an order ID. Deleting a missing record is a no-op.
func (s *RecordStore) Delete(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, record := range records {
		if record.OrderID != orderID {
			kept = append(kept, record)
		}
	}
	return s.save(kept)
}

// List returns all stored records.
func (s *RecordStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// load reads and decodes the record list. Caller must hold mu.
func (s *RecordStore) load() ([]Record, error) {
	value, err := s.kv.Get(StorageKey)
	if err != nil {
		if errors.Is(err, localstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read recovery records: %w", err)
	}

	var records []Record
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("failed to parse recovery records: %w", err)
	}
	return records, nil
}

// save encodes and writes the record list. Caller must hold mu.
func (s *RecordStore) save(records []Record) error {
	if len(records) == 0 {
		return s.kv.Delete(StorageKey)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode recovery records: %w", err)
	}
	return s.kv.Set(StorageKey, string(data))
}
