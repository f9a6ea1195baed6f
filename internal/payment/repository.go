package payment

import (
	"errors"
	"sync"
)

// ErrIntentNotFound is returned when an intent is not found.
var ErrIntentNotFound = errors.New("payment intent not found")

// ErrIntentInFlight is returned when a non-terminal intent already exists for an
// order ID.
var ErrIntentInFlight = errors.New("a non-terminal intent already exists for this order")

// IntentRepository defines methods for payment intent persistence.
type IntentRepository interface {
	Create(intent *Intent) error
	GetByOrderID(orderID string) (*Intent, error)
	GetByPaymentID(paymentID string) (*Intent, error)
	Update(intent *Intent) error
}

// InMemoryIntentRepository implements IntentRepository with in-memory storage.
type InMemoryIntentRepository struct {
	mu      sync.RWMutex
	intents map[string]*Intent // keyed by orderID
}

// NewInMemoryIntentRepository creates a new in-memory intent repository.
func NewInMemoryIntentRepository() *InMemoryIntentRepository {
	return &InMemoryIntentRepository{
		intents: make(map[string]*Intent),
	}
}

// Create stores a new intent. It enforces the single non-terminal intent per
// order ID invariant: a terminal predecessor is superseded, a non-terminal one
// is rejected with ErrIntentInFlight.
func (r *InMemoryIntentRepository) Create(intent *Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.intents[intent.OrderID]; ok && !existing.Status.Terminal() {
		return ErrIntentInFlight
	}

	copied := r.copyIntent(intent)
	r.intents[intent.OrderID] = copied
	return nil
}

// GetByOrderID retrieves an intent by order ID.
func (r *InMemoryIntentRepository) GetByOrderID(orderID string) (*Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intent, ok := r.intents[orderID]
	if !ok {
		return nil, ErrIntentNotFound
	}
	return r.copyIntent(intent), nil
}

// GetByPaymentID retrieves an intent by wallet-assigned payment ID.
func (r *InMemoryIntentRepository) GetByPaymentID(paymentID string) (*Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, intent := range r.intents {
		if intent.PaymentID == paymentID && intent.PaymentID != "" {
			return r.copyIntent(intent), nil
		}
	}
	return nil, ErrIntentNotFound
}

// Update replaces the stored intent for its order ID.
func (r *InMemoryIntentRepository) Update(intent *Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.intents[intent.OrderID]; !ok {
		return ErrIntentNotFound
	}
	r.intents[intent.OrderID] = r.copyIntent(intent)
	return nil
}

// copyIntent creates a deep copy to prevent external mutation.
func (r *InMemoryIntentRepository) copyIntent(intent *Intent) *Intent {
	copied := *intent
	if intent.Metadata != nil {
		copied.Metadata = make(map[string]interface{}, len(intent.Metadata))
		for k, v := range intent.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}
