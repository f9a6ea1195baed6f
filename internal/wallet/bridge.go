// Package wallet adapts the external digital-currency wallet runtime: availability
// detection, user authentication, and payment creation with callback delivery.
package wallet

import (
	"context"
	"fmt"
)

// AuthResult identifies the wallet user after a successful authentication.
type AuthResult struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AuthError is returned when the wallet declines or cannot perform authentication.
type AuthError struct {
	Reason string // e.g. "declined", "unsupported_browser"
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("wallet authentication failed: %s", e.Reason)
}

// CreationError is returned when the wallet rejects a payment creation request.
type CreationError struct {
	Reason string
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("wallet rejected payment creation: %s", e.Reason)
}

// CreatePaymentRequest describes the wallet-side payment object to create.
// Metadata is passed through to the wallet verbatim; the bridge never inspects it.
type CreatePaymentRequest struct {
	Amount   float64                `json:"amount"`
	Memo     string                 `json:"memo"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Callbacks is the bundle of hooks the wallet runtime invokes as a payment
// progresses. The runtime guarantees causal order per payment ID (approval before
// completion before terminal), but hooks may be retransmitted.
type Callbacks struct {
	// OnApproval fires when the payment is ready for server-side approval.
	OnApproval func(paymentID string)

	// OnCompletion fires when the payment is ready for server-side completion,
	// carrying the blockchain transaction ID.
	OnCompletion func(paymentID, txid string)

	// OnCancel fires when the payer or the runtime cancels the payment.
	OnCancel func(paymentID string)

	// OnError fires on any wallet-side failure. paymentID may be empty if the
	// failure happened before the runtime assigned one.
	OnError func(err error, paymentID string)
}

// Bridge is an interface for wallet runtime operations to enable testing with mocks.
// The concrete implementation is supplied by the host application, which owns the
// actual wallet SDK session.
type Bridge interface {
	// DetectAvailability reports whether the wallet runtime is present in the
	// current environment.
	DetectAvailability() bool

	// Authenticate requests the given scopes from the wallet user.
	// Returns an *AuthError if the user declines or the environment is unsupported.
	Authenticate(ctx context.Context, scopes []string) (*AuthResult, error)

	// CreatePayment asks the wallet runtime to create a payment object.
	// The runtime assigns the payment ID asynchronously and reports it through
	// the callbacks; CreatePayment itself only fails on submission errors.
	CreatePayment(ctx context.Context, req CreatePaymentRequest, cb Callbacks) error
}
