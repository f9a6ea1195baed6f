// Package cart provides the shopping cart model and its dual-location store:
// device-local when the shopper is anonymous, an account-scoped remote document
// once they authenticate, with a one-shot merge on the transition.
package cart

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrEmptyProductID  = errors.New("product ID cannot be empty")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("unit price cannot be negative")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Line is one product entry in a cart. ProductID is unique within a cart.
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Validate checks the line's invariants.
func (l Line) Validate() error {
	if l.ProductID == "" {
		return ErrEmptyProductID
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if l.UnitPrice < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Cart is an ordered collection of lines keyed by product ID.
// TotalQuantity and TotalAmount are derived and recomputed from scratch on
// every mutation, never incrementally drifted.
type Cart struct {
	Items         []Line  `json:"items"`
	TotalQuantity int     `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
}

// Document is the remote account-scoped cart representation.
// The whole items array is overwritten on every write; the last writer wins.
type Document struct {
	Items     []Line    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Add merges a line into the cart: an existing product's quantity grows,
// a new product is appended.
func (c *Cart) Add(line Line) error {
	if err := line.Validate(); err != nil {
		return err
	}

	for i := range c.Items {
		if c.Items[i].ProductID == line.ProductID {
			c.Items[i].Quantity += line.Quantity
			c.recompute()
			return nil
		}
	}
	c.Items = append(c.Items, line)
	c.recompute()
	return nil
}

// Remove deletes the line for a product ID.
func (c *Cart) Remove(productID string) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recompute()
			return nil
		}
	}
	return ErrLineNotFound
}

// SetQuantity sets the quantity for a product; n = 0 removes the line.
func (c *Cart) SetQuantity(productID string, n int) error {
	if n < 0 {
		return ErrInvalidQuantity
	}
	if n == 0 {
		return c.Remove(productID)
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = n
			c.recompute()
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
	c.recompute()
}

// recompute rebuilds the derived totals from the items.
func (c *Cart) recompute() {
	quantity := 0
	amount := 0.0
	for _, line := range c.Items {
		quantity += line.Quantity
		amount += line.UnitPrice * float64(line.Quantity)
	}
	c.TotalQuantity = quantity
	c.TotalAmount = amount
}

// Merge reconciles a device-local cart with the account-scoped remote cart.
// An empty remote cart adopts the local one. Otherwise the remote line wins per
// conflicting product ID, and local-only lines are kept so no items are
// silently lost.
func Merge(local, remote Cart) Cart {
	if remote.IsEmpty() {
		merged := Cart{Items: append([]Line(nil), local.Items...)}
		merged.recompute()
		return merged
	}

	merged := Cart{Items: append([]Line(nil), remote.Items...)}
	seen := make(map[string]bool, len(remote.Items))
	for _, line := range remote.Items {
		seen[line.ProductID] = true
	}
	for _, line := range local.Items {
		if !seen[line.ProductID] {
			merged.Items = append(merged.Items, line)
		}
	}
	merged.recompute()
	return merged
}
