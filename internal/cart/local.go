package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/onnwee/walletpay/internal/localstore"
)

// StorageKey is the device-local key holding the JSON-encoded cart.
const StorageKey = "wallet_cart"

// LocalCarts persists the cart in device-local storage under a single JSON key.
type LocalCarts struct {
	kv localstore.KV
}

// NewLocalCarts creates a local cart store over the given device-local KV.
func NewLocalCarts(kv localstore.KV) *LocalCarts {
	return &LocalCarts{kv: kv}
}

// Load reads the cart; a missing key reads as an empty cart.
func (s *LocalCarts) Load() (Cart, error) {
	value, err := s.kv.Get(StorageKey)
	if err != nil {
		if errors.Is(err, localstore.ErrKeyNotFound) {
			return Cart{}, nil
		}
		return Cart{}, fmt.Errorf("failed to read local cart: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(value), &cart); err != nil {
		return Cart{}, fmt.Errorf("failed to parse local cart: %w", err)
	}
	return cart, nil
}

// Save writes the cart.
func (s *LocalCarts) Save(cart Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode local cart: %w", err)
	}
	return s.kv.Set(StorageKey, string(data))
}

// Clear removes the stored cart.
func (s *LocalCarts) Clear() error {
	return s.kv.Delete(StorageKey)
}
