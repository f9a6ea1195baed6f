package payment

import (
	"context"
	"sync"
	"time"
)

// Journal records terminal payment transitions for audit. Implementations must
// be safe for concurrent use. Recording is best-effort from the orchestrator's
// point of view: a journal failure never blocks a terminal transition.
type Journal interface {
	RecordTerminal(ctx context.Context, intent *Intent) error
}

// JournalEntry is one recorded terminal transition.
type JournalEntry struct {
	OrderID      string
	PaymentID    string
	Status       Status
	Amount       float64
	TxID         string
	ErrorMessage string
	RecordedAt   time.Time
}

// InMemoryJournal implements Journal with in-memory storage.
type InMemoryJournal struct {
	mu      sync.Mutex
	entries []JournalEntry
}

// NewInMemoryJournal creates a new in-memory journal.
func NewInMemoryJournal() *InMemoryJournal {
	return &InMemoryJournal{}
}

// RecordTerminal appends a journal entry for the intent's terminal state.
func (j *InMemoryJournal) RecordTerminal(_ context.Context, intent *Intent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, JournalEntry{
		OrderID:      intent.OrderID,
		PaymentID:    intent.PaymentID,
		Status:       intent.Status,
		Amount:       intent.Amount,
		TxID:         intent.TxID,
		ErrorMessage: intent.ErrorMessage,
		RecordedAt:   time.Now(),
	})
	return nil
}

// Entries returns a copy of all recorded entries.
func (j *InMemoryJournal) Entries() []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := make([]JournalEntry, len(j.entries))
	copy(entries, j.entries)
	return entries
}
