// Package payment provides the payment intent model and the orchestration state
// machine driving a wallet payment from creation to a terminal state.
package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a payment intent.
type Status string

// Payment lifecycle states. completed, cancelled, expired and error are terminal;
// error is retryable by starting over from idle.
const (
	StatusIdle            Status = "idle"
	StatusAuthenticating  Status = "authenticating"
	StatusCreating        Status = "creating"
	StatusWaitingApproval Status = "waiting_approval"
	StatusApproved        Status = "approved"
	StatusCompleting      Status = "completing"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusExpired         Status = "expired"
	StatusError           Status = "error"
)

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusExpired, StatusError:
		return true
	}
	return false
}

// Intent is a payment in flight. Exactly one non-terminal Intent may exist per
// order ID at a time.
type Intent struct {
	// PaymentID is assigned by the wallet runtime once creation succeeds;
	// empty before that.
	PaymentID string `json:"payment_id,omitempty"`

	// OrderID is generated by this library before any wallet call; immutable.
	OrderID string `json:"order_id"`

	// Amount in the target asset's numeric unit.
	Amount float64 `json:"amount"`

	// Memo is surfaced to the payer by the wallet.
	Memo string `json:"memo,omitempty"`

	// Metadata is passed through verbatim to the wallet and backend.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	Status Status `json:"status"`

	// ErrorMessage carries the human-readable failure for StatusError.
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// TxID is the blockchain transaction ID, present from completion onward.
	TxID string `json:"txid,omitempty"`
}

// NewOrderID generates an order ID of the form <prefix>_<epochMillis>_<random>.
func NewOrderID(prefix string) string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), random)
}

// NewIntent builds an Intent in the creating state with the given expiry window.
func NewIntent(orderID string, amount float64, memo string, metadata map[string]interface{}, timeout time.Duration) *Intent {
	now := time.Now()
	return &Intent{
		OrderID:   orderID,
		Amount:    amount,
		Memo:      memo,
		Metadata:  metadata,
		Status:    StatusCreating,
		CreatedAt: now,
		ExpiresAt: now.Add(timeout),
	}
}
