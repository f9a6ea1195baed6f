package wallet

import "sync"

// Registry maps payment IDs to their callback bundles so that sequential or
// concurrent payments never cross-fire each other's handlers. Bundles are
// registered when the runtime assigns a payment ID and removed on any terminal
// state.
type Registry struct {
	mu      sync.RWMutex
	bundles map[string]Callbacks
}

// NewRegistry creates an empty callback registry.
func NewRegistry() *Registry {
	return &Registry{
		bundles: make(map[string]Callbacks),
	}
}

// Register associates a callback bundle with a payment ID.
// Registering the same payment ID again replaces the previous bundle.
func (r *Registry) Register(paymentID string, cb Callbacks) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bundles[paymentID] = cb
}

// Lookup returns the callback bundle for a payment ID.
func (r *Registry) Lookup(paymentID string) (Callbacks, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cb, ok := r.bundles[paymentID]
	return cb, ok
}

// Remove deletes the bundle for a payment ID. Removing a missing ID is a no-op.
func (r *Registry) Remove(paymentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bundles, paymentID)
}

// Len returns the number of registered bundles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.bundles)
}
