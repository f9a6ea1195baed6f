package cart

import (
	"context"
	"log/slog"
	"sync"
)

// Store is the dual-location cart: device-local storage while the shopper is
// anonymous, the remote account document once they authenticate. The merge on
// the authentication transition runs exactly once per session; repeated
// auth-state notifications are no-ops.
type Store struct {
	mu        sync.Mutex
	local     *LocalCarts
	remote    RemoteStore
	logger    *slog.Logger
	accountID string
	merged    bool
}

// NewStore creates a cart store over the given local and remote tiers.
func NewStore(local *LocalCarts, remote RemoteStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		local:  local,
		remote: remote,
		logger: logger,
	}
}

// authenticated reports whether the remote document is authoritative.
// Caller must hold mu.
func (s *Store) authenticated() bool {
	return s.merged && s.accountID != ""
}

// Authenticated performs the one-time merge of the device-local cart with the
// account's remote cart and switches the authoritative location to remote.
// A failed merge falls back to the local cart and leaves the transition
// unconsumed so a later notification can retry; items are never silently lost.
func (s *Store) Authenticated(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.merged && s.accountID == accountID {
		return nil
	}

	local, err := s.local.Load()
	if err != nil {
		s.logger.Warn("failed to load local cart for merge, treating as empty", "error", err)
		local = Cart{}
	}

	remote, err := s.remote.Load(ctx, accountID)
	if err != nil {
		s.logger.Error("cart merge failed, falling back to local cart", "error", err)
		return err
	}

	mergedCart := Merge(local, remote)
	if err := s.remote.Save(ctx, accountID, mergedCart); err != nil {
		s.logger.Error("failed to write merged cart, falling back to local cart", "error", err)
		return err
	}

	// Refresh the local copy once so an offline reload shows the merged cart.
	if err := s.local.Save(mergedCart); err != nil {
		s.logger.Warn("failed to refresh local cart after merge", "error", err)
	}

	s.accountID = accountID
	s.merged = true
	s.logger.Info("cart merged on authentication",
		"account_id", accountID,
		"items", len(mergedCart.Items))
	return nil
}

// Get returns the cart from the authoritative location.
func (s *Store) Get(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadAuthoritative(ctx)
}

// Add merges a line into the cart.
func (s *Store) Add(ctx context.Context, line Line) (Cart, error) {
	return s.mutate(ctx, func(cart *Cart) error {
		return cart.Add(line)
	})
}

// Remove deletes the line for a product ID.
func (s *Store) Remove(ctx context.Context, productID string) (Cart, error) {
	return s.mutate(ctx, func(cart *Cart) error {
		return cart.Remove(productID)
	})
}

// SetQuantity sets the quantity for a product; n = 0 removes the line.
func (s *Store) SetQuantity(ctx context.Context, productID string, n int) (Cart, error) {
	return s.mutate(ctx, func(cart *Cart) error {
		return cart.SetQuantity(productID, n)
	})
}

// Clear empties the cart in both locations so stale items cannot resurrect on
// the next authenticated session.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.local.Clear(); err != nil {
		return err
	}
	if s.authenticated() {
		if err := s.remote.Clear(ctx, s.accountID); err != nil {
			return err
		}
	}
	return nil
}

// mutate loads the authoritative cart, applies fn, and writes it back.
func (s *Store) mutate(ctx context.Context, fn func(*Cart) error) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadAuthoritative(ctx)
	if err != nil {
		return Cart{}, err
	}
	if err := fn(&cart); err != nil {
		return Cart{}, err
	}
	if err := s.saveAuthoritative(ctx, cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// loadAuthoritative reads from the current authoritative location.
// Caller must hold mu.
func (s *Store) loadAuthoritative(ctx context.Context) (Cart, error) {
	if s.authenticated() {
		return s.remote.Load(ctx, s.accountID)
	}
	return s.local.Load()
}

// saveAuthoritative writes to the current authoritative location.
// Caller must hold mu.
func (s *Store) saveAuthoritative(ctx context.Context, cart Cart) error {
	if s.authenticated() {
		return s.remote.Save(ctx, s.accountID, cart)
	}
	return s.local.Save(cart)
}
