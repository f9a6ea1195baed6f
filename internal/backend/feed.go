package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
)

// Feed decoding errors.
var (
	ErrInvalidFrame   = errors.New("invalid status frame")
	ErrMissingStatus  = errors.New("missing status in frame")
	ErrMissingFeedURL = errors.New("feed URL is required")
	ErrInvalidBackoff = errors.New("base delay must be positive and not exceed max delay")
)

// StatusUpdate is one push from the realtime payment document.
// Updates are not ordered relative to wallet callbacks and may arrive before,
// after, or instead of them.
type StatusUpdate struct {
	PaymentID   string     `cbor:"payment_id"`
	Status      string     `cbor:"status"`
	TxID        string     `cbor:"txid,omitempty"`
	CompletedAt *time.Time `cbor:"completed_at,omitempty"`
}

// UpdateHandler is a callback for processing incoming status updates.
// Return an error to signal the feed should disconnect.
type UpdateHandler func(update StatusUpdate) error

// FeedConfig configures the realtime feed connection for one payment ID.
type FeedConfig struct {
	// URL is the websocket endpoint of the realtime document service.
	URL string

	// PaymentID addresses the remote payment document to observe.
	PaymentID string

	// Reconnect backoff tuning.
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	JitterFactor float64
}

// Validate checks the feed configuration.
func (c FeedConfig) Validate() error {
	if c.URL == "" {
		return ErrMissingFeedURL
	}
	if c.PaymentID == "" {
		return ErrEmptyPaymentID
	}
	if c.BaseDelay <= 0 || c.MaxDelay < c.BaseDelay {
		return ErrInvalidBackoff
	}
	return nil
}

// DefaultFeedConfig returns a feed configuration with standard backoff tuning.
func DefaultFeedConfig(url, paymentID string) FeedConfig {
	return FeedConfig{
		URL:          url,
		PaymentID:    paymentID,
		BaseDelay:    time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.2,
	}
}

// Feed is a resilient websocket subscriber for one remote payment document.
// It automatically reconnects with exponential backoff and jitter until the
// context is cancelled.
type Feed struct {
	config  FeedConfig
	handler UpdateHandler
	logger  *slog.Logger

	mu          sync.Mutex
	rng         *rand.Rand // protected by mu
	conn        *websocket.Conn
	isConnected bool

	// reconnectCount tracks consecutive reconnection attempts (atomic)
	reconnectCount int64
}

// NewFeed creates a new realtime feed subscriber for the given configuration.
// The handler is called for each decoded status update.
func NewFeed(config FeedConfig, handler UpdateHandler, logger *slog.Logger) (*Feed, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		config:  config,
		handler: handler,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Run starts the subscription and blocks until the context is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			f.logger.Info("status feed stopping", "payment_id", f.config.PaymentID)
			f.close()
			return ctx.Err()
		default:
		}

		if err := f.connect(ctx); err != nil {
			attempt := atomic.LoadInt64(&f.reconnectCount) + 1
			f.logger.Warn("status feed connection failed",
				slog.String("error", err.Error()),
				slog.Int64("attempt", attempt))

			delay := f.computeBackoff()
			atomic.AddInt64(&f.reconnectCount, 1)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}

		// Reset reconnect count on successful connection
		atomic.StoreInt64(&f.reconnectCount, 0)

		f.readLoop(ctx)
	}
}

// connect establishes the websocket connection to the document endpoint.
func (f *Feed) connect(ctx context.Context) error {
	url := f.config.URL + "/payments/" + f.config.PaymentID

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.conn = conn
	f.isConnected = true
	f.mu.Unlock()

	f.logger.Info("status feed connected", "payment_id", f.config.PaymentID)
	return nil
}

// readLoop reads frames from the connection until it closes.
func (f *Feed) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		f.mu.Lock()
		conn := f.conn
		f.mu.Unlock()

		if conn == nil {
			return
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			f.logger.Warn("status feed connection closed",
				slog.String("error", err.Error()))
			f.close()
			return
		}

		update, err := DecodeStatusFrame(payload)
		if err != nil {
			f.logger.Warn("dropping undecodable status frame",
				slog.String("error", err.Error()),
				slog.String("payment_id", f.config.PaymentID))
			continue
		}

		if f.handler != nil {
			if err := f.handler(update); err != nil {
				f.logger.Error("status update handler error",
					slog.String("error", err.Error()))
				f.close()
				return
			}
		}
	}
}

// close cleanly closes the websocket connection.
func (f *Feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn != nil {
		_ = f.conn.Close()
		f.conn = nil
	}
	f.isConnected = false
}

// computeBackoff calculates the next reconnection delay with exponential backoff and jitter.
func (f *Feed) computeBackoff() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Exponential backoff: baseDelay * 2^attempts, shift capped to prevent overflow
	reconnectCount := atomic.LoadInt64(&f.reconnectCount)
	shift := uint(reconnectCount)
	if shift > 30 {
		shift = 30
	}
	backoff := float64(f.config.BaseDelay) * float64(uint64(1)<<shift)

	if backoff > float64(f.config.MaxDelay) {
		backoff = float64(f.config.MaxDelay)
	}

	// Jitter range: [delay*(1-jitter/2), delay*(1+jitter/2)]
	if f.config.JitterFactor > 0 {
		jitter := (f.rng.Float64() - 0.5) * f.config.JitterFactor
		backoff = backoff * (1 + jitter)
	}

	return time.Duration(backoff)
}

// IsConnected returns whether the feed is currently connected.
func (f *Feed) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isConnected
}

// DecodeStatusFrame decodes one CBOR frame from the realtime document service.
func DecodeStatusFrame(payload []byte) (StatusUpdate, error) {
	var update StatusUpdate
	if err := cbor.Unmarshal(payload, &update); err != nil {
		return StatusUpdate{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	if update.Status == "" {
		return StatusUpdate{}, ErrMissingStatus
	}
	return update, nil
}

// EncodeStatusFrame encodes a status update as a CBOR frame.
// Used by tests and by fake document services.
func EncodeStatusFrame(update StatusUpdate) ([]byte, error) {
	return cbor.Marshal(update)
}
