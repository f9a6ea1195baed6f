// Package backend adapts the merchant payment backend: the approve/complete/cancel
// RPCs that mirror wallet-reported events into the system of record, and the
// realtime payment-status feed.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/onnwee/walletpay/internal/auth"
)

// ErrEmptyPaymentID is returned when an RPC is attempted without a payment ID.
var ErrEmptyPaymentID = errors.New("payment ID cannot be empty")

// RPCResult is the backend's answer to a fire-and-confirm RPC.
// Success false with a non-empty Error means the backend rejected the operation;
// transport failures surface as a Go error instead, never as a rejection.
type RPCResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client is an interface for backend RPC operations to enable testing with mocks.
type Client interface {
	Approve(ctx context.Context, paymentID, orderID string, amount float64) (*RPCResult, error)
	Complete(ctx context.Context, paymentID, txid, orderID string) (*RPCResult, error)
	Cancel(ctx context.Context, paymentID, reason string) (*RPCResult, error)
}

// HTTPClient implements Client over HTTPS with JWT-signed requests.
type HTTPClient struct {
	baseURL string
	signer  *auth.Signer
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPClient creates a backend RPC client for the given base URL.
// Requests are traced via otelhttp and authenticated with short-lived service
// tokens minted by the signer.
func NewHTTPClient(baseURL string, signer *auth.Signer, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL: baseURL,
		signer:  signer,
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// approveRequest is the JSON body for the approve RPC.
type approveRequest struct {
	PaymentID string  `json:"payment_id"`
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"`
}

// completeRequest is the JSON body for the complete RPC.
type completeRequest struct {
	PaymentID string `json:"payment_id"`
	TxID      string `json:"txid"`
	OrderID   string `json:"order_id"`
}

// cancelRequest is the JSON body for the cancel RPC.
type cancelRequest struct {
	PaymentID string `json:"payment_id"`
	Reason    string `json:"reason"`
}

// Approve asks the backend to acknowledge a wallet payment that is ready for
// approval. The backend treats repeated approvals for the same payment ID as
// no-ops after the first success.
func (c *HTTPClient) Approve(ctx context.Context, paymentID, orderID string, amount float64) (*RPCResult, error) {
	if paymentID == "" {
		return nil, ErrEmptyPaymentID
	}
	return c.post(ctx, "/payments/"+paymentID+"/approve", approveRequest{
		PaymentID: paymentID,
		OrderID:   orderID,
		Amount:    amount,
	})
}

// Complete asks the backend to finalize a payment with its blockchain transaction ID.
// Idempotent under the same rule as Approve.
func (c *HTTPClient) Complete(ctx context.Context, paymentID, txid, orderID string) (*RPCResult, error) {
	if paymentID == "" {
		return nil, ErrEmptyPaymentID
	}
	return c.post(ctx, "/payments/"+paymentID+"/complete", completeRequest{
		PaymentID: paymentID,
		TxID:      txid,
		OrderID:   orderID,
	})
}

// Cancel asks the backend to void a payment, recording the reason
// ("expired", "user_cancelled", "auto_recovered", ...).
func (c *HTTPClient) Cancel(ctx context.Context, paymentID, reason string) (*RPCResult, error) {
	if paymentID == "" {
		return nil, ErrEmptyPaymentID
	}
	return c.post(ctx, "/payments/"+paymentID+"/cancel", cancelRequest{
		PaymentID: paymentID,
		Reason:    reason,
	})
}

// post sends a JSON body to the backend and decodes the RPCResult.
func (c *HTTPClient) post(ctx context.Context, path string, body interface{}) (*RPCResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.signer.Mint()
	if err != nil {
		return nil, fmt.Errorf("failed to mint service token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend RPC failed: %w", err)
	}
	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Warn("failed to drain response body", "error", err)
		}
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("backend RPC returned status %d", resp.StatusCode)
	}

	var result RPCResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode RPC result: %w", err)
	}

	if !result.Success {
		c.logger.WarnContext(ctx, "backend rejected RPC",
			"path", path,
			"error", result.Error)
	}
	return &result, nil
}
