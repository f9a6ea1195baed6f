package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/onnwee/walletpay/internal/backend"
	"github.com/onnwee/walletpay/internal/recovery"
	"github.com/onnwee/walletpay/internal/tracing"
	"github.com/onnwee/walletpay/internal/wallet"
)

// Orchestrator construction and request errors.
var (
	ErrWalletUnavailable  = errors.New("wallet runtime is not available in this environment")
	ErrInvalidAmount      = errors.New("payment amount must be positive")
	ErrOrchestratorClosed = errors.New("orchestrator is closed")
	ErrNoActivePayment    = errors.New("no active payment for this order")
	ErrMissingBridge      = errors.New("wallet bridge is required")
	ErrMissingBackend     = errors.New("backend client is required")
)

// Cancel reasons reported to the backend.
const (
	ReasonCancelled  = "cancelled"
	ReasonUserCancel = "user_cancelled"
	ReasonExpired    = "expired"
	ReasonSuperseded = "superseded"
)

// Feed statuses the orchestrator reacts to. Other statuses are informational.
const (
	feedStatusCompleted = "completed"
	feedStatusCancelled = "cancelled"
)

// Carts is the slice of the cart store the orchestrator drives: the one-time
// merge on authentication and the clear on confirmed payment success.
type Carts interface {
	Authenticated(ctx context.Context, accountID string) error
	Clear(ctx context.Context) error
}

// Records is the recovery breadcrumb store consulted after a crash or reload.
type Records interface {
	Put(record recovery.Record) error
	Delete(orderID string) error
}

// FeedOpener starts a realtime observation of the remote payment document,
// delivering updates to handler until ctx is cancelled. It must not block.
type FeedOpener func(ctx context.Context, paymentID string, handler backend.UpdateHandler)

// Options configures a new Orchestrator.
type Options struct {
	Bridge   wallet.Bridge
	Backend  backend.Client
	Carts    Carts
	Records  Records
	Repo     IntentRepository // defaults to in-memory
	Journal  Journal          // defaults to in-memory
	Metrics  *Metrics         // optional
	OpenFeed FeedOpener       // optional; no realtime observation when nil
	Logger   *slog.Logger

	// Timeout is the payment expiry window (default 600s).
	Timeout time.Duration

	// OrderPrefix for generated order IDs (default "SAPI").
	OrderPrefix string

	// Scopes requested from the wallet on authentication.
	Scopes []string
}

// session is the runtime state for one in-flight payment, keyed by order ID.
type session struct {
	intent    *Intent
	callbacks wallet.Callbacks
	timer     *time.Timer
	stopFeed  context.CancelFunc

	// RPC idempotency markers: set before the corresponding RPC is issued so
	// retransmitted callbacks never double-invoke the backend.
	approveSent  bool
	completeSent bool

	done chan struct{}
}

// Orchestrator owns the payment lifecycle: it sequences the wallet bridge,
// the backend RPCs, the realtime status mirror, the expiry timer, and the
// cart/recovery side effects. Every producer funnels through the mutex so the
// first terminal signal wins and later duplicates are ignored.
type Orchestrator struct {
	bridge   wallet.Bridge
	rpc      backend.Client
	carts    Carts
	records  Records
	repo     IntentRepository
	journal  Journal
	metrics  *Metrics
	registry *wallet.Registry
	openFeed FeedOpener
	logger   *slog.Logger

	timeout     time.Duration
	orderPrefix string
	scopes      []string

	mu       sync.Mutex
	user     *wallet.AuthResult
	sessions map[string]*session // orderID -> session
	closed   bool
}

// New creates a payment orchestrator from the given options.
func New(opts Options) (*Orchestrator, error) {
	if opts.Bridge == nil {
		return nil, ErrMissingBridge
	}
	if opts.Backend == nil {
		return nil, ErrMissingBackend
	}
	if opts.Repo == nil {
		opts.Repo = NewInMemoryIntentRepository()
	}
	if opts.Journal == nil {
		opts.Journal = NewInMemoryJournal()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 600 * time.Second
	}
	if opts.OrderPrefix == "" {
		opts.OrderPrefix = "SAPI"
	}
	if len(opts.Scopes) == 0 {
		opts.Scopes = []string{"username", "payments"}
	}

	return &Orchestrator{
		bridge:      opts.Bridge,
		rpc:         opts.Backend,
		carts:       opts.Carts,
		records:     opts.Records,
		repo:        opts.Repo,
		journal:     opts.Journal,
		metrics:     opts.Metrics,
		registry:    wallet.NewRegistry(),
		openFeed:    opts.OpenFeed,
		logger:      opts.Logger,
		timeout:     opts.Timeout,
		orderPrefix: opts.OrderPrefix,
		scopes:      opts.Scopes,
		sessions:    make(map[string]*session),
	}, nil
}

// Pay drives a payment for the given amount to a terminal state and returns the
// final intent. A pending payment is superseded, never duplicated. If ctx is
// cancelled mid-flight the payment keeps its recovery record so a later session
// (or the sweep) can resolve it.
func (o *Orchestrator) Pay(ctx context.Context, amount float64, memo string, metadata map[string]interface{}) (*Intent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !o.bridge.DetectAvailability() {
		return nil, ErrWalletUnavailable
	}

	if err := o.ensureAuthenticated(ctx); err != nil {
		if o.metrics != nil {
			o.metrics.IncOutcome(StatusError)
		}
		return nil, err
	}

	sess, err := o.startSession(ctx, amount, memo, metadata)
	if err != nil {
		return nil, err
	}
	orderID := sess.intent.OrderID

	ctx, endSpan := tracing.StartPaymentSpan(ctx, "pay", orderID)
	defer func() { endSpan(nil) }()

	// Suspension point: the wallet runtime takes over and reports progress
	// through the registered callbacks.
	req := wallet.CreatePaymentRequest{Amount: amount, Memo: memo, Metadata: metadata}
	if err := o.bridge.CreatePayment(ctx, req, sess.callbacks); err != nil {
		o.failPayment(orderID, fmt.Sprintf("creation_failed: %v", err))
		return o.snapshot(orderID), &wallet.CreationError{Reason: err.Error()}
	}

	select {
	case <-sess.done:
		return o.snapshot(orderID), nil
	case <-ctx.Done():
		return o.snapshot(orderID), ctx.Err()
	}
}

// ensureAuthenticated runs the wallet authentication once per orchestrator
// lifetime and notifies the cart store so the one-time merge can run.
func (o *Orchestrator) ensureAuthenticated(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrOrchestratorClosed
	}
	if o.user != nil {
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	o.logger.InfoContext(ctx, "authenticating wallet user", "scopes", o.scopes)
	user, err := o.bridge.Authenticate(ctx, o.scopes)
	if err != nil {
		o.logger.WarnContext(ctx, "wallet authentication failed", "error", err)
		return fmt.Errorf("auth_failed: %w", err)
	}

	o.mu.Lock()
	o.user = user
	o.mu.Unlock()

	if o.carts != nil {
		// Merge failures fall back to the local cart; they never block payment.
		if err := o.carts.Authenticated(ctx, user.UserID); err != nil {
			o.logger.WarnContext(ctx, "cart merge failed, continuing with local cart", "error", err)
		}
	}
	return nil
}

// startSession supersedes any pending payment, creates the intent, arms the
// expiry timer, and registers the callback bundle.
func (o *Orchestrator) startSession(ctx context.Context, amount float64, memo string, metadata map[string]interface{}) (*session, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrOrchestratorClosed
	}

	// A new payment must never duplicate a pending intent: supersede it.
	var after []func()
	for _, prev := range o.sessions {
		if !prev.intent.Status.Terminal() {
			o.logger.Info("superseding pending payment",
				"order_id", prev.intent.OrderID,
				"payment_id", prev.intent.PaymentID)
			after = append(after, o.applyTerminalLocked(prev, StatusCancelled, ReasonSuperseded))
		}
	}

	orderID := NewOrderID(o.orderPrefix)
	intent := NewIntent(orderID, amount, memo, metadata, o.timeout)
	intent.Status = StatusCreating
	if err := o.repo.Create(intent); err != nil {
		o.mu.Unlock()
		return nil, err
	}

	sess := &session{
		intent: intent,
		done:   make(chan struct{}),
	}
	sess.callbacks = wallet.Callbacks{
		OnApproval:   func(paymentID string) { o.handleApproval(orderID, paymentID) },
		OnCompletion: func(paymentID, txid string) { o.handleCompletion(orderID, paymentID, txid) },
		OnCancel:     func(paymentID string) { o.handleCancel(orderID, paymentID) },
		OnError:      func(err error, paymentID string) { o.handleWalletError(orderID, paymentID, err) },
	}
	sess.timer = time.AfterFunc(o.timeout, func() { o.expire(orderID) })
	o.sessions[orderID] = sess
	o.mu.Unlock()

	for _, fn := range after {
		fn()
	}

	o.logger.InfoContext(ctx, "payment intent created",
		"order_id", orderID,
		"amount", amount,
		"expires_at", intent.ExpiresAt)
	return sess, nil
}

// bindPaymentIDLocked records the wallet-assigned payment ID on first sight:
// index, registry entry, recovery breadcrumb, and realtime observation.
// Returns deferred work to run outside the lock. Caller must hold mu.
func (o *Orchestrator) bindPaymentIDLocked(sess *session, paymentID string) func() {
	if sess.intent.PaymentID != "" || paymentID == "" {
		return func() {}
	}

	sess.intent.PaymentID = paymentID
	o.registry.Register(paymentID, sess.callbacks)

	record := recovery.Record{
		OrderID:   sess.intent.OrderID,
		PaymentID: paymentID,
		CreatedAt: sess.intent.CreatedAt,
	}

	var feedCtx context.Context
	if o.openFeed != nil {
		feedCtx, sess.stopFeed = context.WithCancel(context.Background())
	}

	orderID := sess.intent.OrderID
	return func() {
		if o.records != nil {
			if err := o.records.Put(record); err != nil {
				o.logger.Error("failed to write recovery record",
					"order_id", record.OrderID,
					"error", err)
			}
		}
		if o.openFeed != nil {
			o.openFeed(feedCtx, paymentID, o.feedHandler(orderID))
		}
	}
}

// handleApproval processes the wallet's "ready for approval" callback.
func (o *Orchestrator) handleApproval(orderID, paymentID string) {
	o.mu.Lock()
	sess, ok := o.sessions[orderID]
	if !ok || o.closed || sess.intent.Status.Terminal() {
		o.mu.Unlock()
		o.suppress("approval_callback", orderID, paymentID)
		return
	}

	bound := o.bindPaymentIDLocked(sess, paymentID)

	if sess.approveSent {
		o.mu.Unlock()
		bound()
		o.suppress("approval_callback", orderID, paymentID)
		return
	}
	sess.approveSent = true
	sess.intent.Status = StatusWaitingApproval
	o.updateIntentLocked(sess)
	amount := sess.intent.Amount
	o.mu.Unlock()
	bound()

	result, err := o.callRPC(RPCApprove, func(ctx context.Context) (*backend.RPCResult, error) {
		return o.rpc.Approve(ctx, paymentID, orderID, amount)
	})

	var after func()
	o.mu.Lock()
	switch {
	case o.closed || sess.intent.Status.Terminal():
		// The realtime mirror or a cancel won the race; nothing to apply.
	case err != nil:
		after = o.applyTerminalLocked(sess, StatusError, fmt.Sprintf("approval_rpc_failed: %v", err))
	case !result.Success:
		after = o.applyTerminalLocked(sess, StatusError, fmt.Sprintf("approval_rejected: %s", result.Error))
	case sess.intent.Status == StatusWaitingApproval:
		sess.intent.Status = StatusApproved
		o.updateIntentLocked(sess)
	default:
		// The completion callback raced ahead of the approve acknowledgement;
		// never step the payment back from completing.
	}
	o.mu.Unlock()
	if after != nil {
		after()
	}
}

// handleCompletion processes the wallet's "ready for completion" callback.
// The wallet runtime is the authority on ordering: completion proceeds even if
// the approval acknowledgement has not been confirmed yet.
func (o *Orchestrator) handleCompletion(orderID, paymentID, txid string) {
	o.mu.Lock()
	sess, ok := o.sessions[orderID]
	if !ok || o.closed || sess.intent.Status.Terminal() {
		o.mu.Unlock()
		o.suppress("completion_callback", orderID, paymentID)
		return
	}

	bound := o.bindPaymentIDLocked(sess, paymentID)

	if sess.completeSent {
		o.mu.Unlock()
		bound()
		o.suppress("completion_callback", orderID, paymentID)
		return
	}
	sess.completeSent = true
	sess.intent.Status = StatusCompleting
	sess.intent.TxID = txid
	o.updateIntentLocked(sess)
	o.mu.Unlock()
	bound()

	result, err := o.callRPC(RPCComplete, func(ctx context.Context) (*backend.RPCResult, error) {
		return o.rpc.Complete(ctx, paymentID, txid, orderID)
	})

	var after func()
	o.mu.Lock()
	switch {
	case o.closed || sess.intent.Status.Terminal():
		// The realtime mirror already confirmed completion.
	case err != nil:
		after = o.applyTerminalLocked(sess, StatusError, fmt.Sprintf("completion_rpc_failed: %v", err))
	case !result.Success:
		after = o.applyTerminalLocked(sess, StatusError, fmt.Sprintf("completion_rejected: %s", result.Error))
	default:
		after = o.applyTerminalLocked(sess, StatusCompleted, "")
	}
	o.mu.Unlock()
	if after != nil {
		after()
	}
}

// handleCancel processes the wallet's cancel callback.
func (o *Orchestrator) handleCancel(orderID, paymentID string) {
	o.terminate(orderID, StatusCancelled, ReasonCancelled, "cancel_callback")
}

// handleWalletError processes the wallet's error callback.
func (o *Orchestrator) handleWalletError(orderID, paymentID string, walletErr error) {
	message := "wallet_error"
	if walletErr != nil {
		message = fmt.Sprintf("wallet_error: %v", walletErr)
	}
	o.terminate(orderID, StatusError, message, "error_callback")
}

// Cancel cancels an in-flight payment at the user's request.
func (o *Orchestrator) Cancel(orderID string) error {
	o.mu.Lock()
	sess, ok := o.sessions[orderID]
	if !ok || o.closed || sess.intent.Status.Terminal() {
		o.mu.Unlock()
		return ErrNoActivePayment
	}
	after := o.applyTerminalLocked(sess, StatusCancelled, ReasonUserCancel)
	o.mu.Unlock()
	after()
	return nil
}

// expire is the countdown timer firing for one order. It is cleared on every
// terminal transition, so a fire against a settled session is a no-op.
func (o *Orchestrator) expire(orderID string) {
	o.terminate(orderID, StatusExpired, ReasonExpired, "expiry_timer")
}

// terminate applies a terminal state if the session is still live.
func (o *Orchestrator) terminate(orderID string, status Status, message, signal string) {
	o.mu.Lock()
	sess, ok := o.sessions[orderID]
	if !ok || o.closed || sess.intent.Status.Terminal() {
		o.mu.Unlock()
		o.suppress(signal, orderID, "")
		return
	}
	after := o.applyTerminalLocked(sess, status, message)
	o.mu.Unlock()
	after()
}

// feedHandler adapts realtime document pushes into terminal signals.
func (o *Orchestrator) feedHandler(orderID string) backend.UpdateHandler {
	return func(update backend.StatusUpdate) error {
		switch update.Status {
		case feedStatusCompleted:
			o.completeFromFeed(orderID, update)
		case feedStatusCancelled:
			o.terminate(orderID, StatusCancelled, ReasonCancelled, "feed_cancelled")
		default:
			o.logger.Debug("ignoring informational status push",
				"order_id", orderID,
				"status", update.Status)
		}
		return nil
	}
}

// completeFromFeed applies a "completed" push from the realtime mirror.
// Either signal source is sufficient; whichever arrives first wins.
func (o *Orchestrator) completeFromFeed(orderID string, update backend.StatusUpdate) {
	o.mu.Lock()
	sess, ok := o.sessions[orderID]
	if !ok || o.closed || sess.intent.Status.Terminal() {
		o.mu.Unlock()
		o.suppress("feed_completed", orderID, update.PaymentID)
		return
	}
	if update.TxID != "" {
		sess.intent.TxID = update.TxID
	}
	after := o.applyTerminalLocked(sess, StatusCompleted, "")
	o.mu.Unlock()
	after()
}

// applyTerminalLocked moves a session to a terminal state: stops the timer,
// tears down the realtime observation, unregisters callbacks, persists and
// journals the transition, and returns the out-of-lock side effects (cart
// clear, best-effort backend cancel, breadcrumb removal). Caller must hold mu
// and must run the returned func after unlocking.
func (o *Orchestrator) applyTerminalLocked(sess *session, status Status, message string) func() {
	intent := sess.intent
	intent.Status = status
	intent.ErrorMessage = ""
	if status == StatusError {
		intent.ErrorMessage = message
	}

	if sess.timer != nil {
		sess.timer.Stop()
	}
	if sess.stopFeed != nil {
		sess.stopFeed()
		sess.stopFeed = nil
	}
	if intent.PaymentID != "" {
		o.registry.Remove(intent.PaymentID)
	}

	o.updateIntentLocked(sess)
	if o.metrics != nil {
		o.metrics.IncOutcome(status)
	}

	snapshot := *intent

	// done is closed only after the side effects below complete, so waiters
	// observe the cart and backend in their settled state.
	return func() {
		defer close(sess.done)
		ctx := context.Background()

		if err := o.journal.RecordTerminal(ctx, &snapshot); err != nil {
			o.logger.Error("failed to journal terminal transition",
				"order_id", snapshot.OrderID,
				"status", snapshot.Status,
				"error", err)
		}

		switch status {
		case StatusCompleted:
			if o.carts != nil {
				if err := o.carts.Clear(ctx); err != nil {
					o.logger.Error("failed to clear cart after payment",
						"order_id", snapshot.OrderID,
						"error", err)
				}
			}
		case StatusCancelled, StatusExpired:
			o.cancelRemote(ctx, snapshot, message)
		}

		if o.records != nil {
			if err := o.records.Delete(snapshot.OrderID); err != nil {
				o.logger.Error("failed to delete recovery record",
					"order_id", snapshot.OrderID,
					"error", err)
			}
		}

		o.logger.Info("payment reached terminal state",
			"order_id", snapshot.OrderID,
			"payment_id", snapshot.PaymentID,
			"status", snapshot.Status)
	}
}

// cancelRemote mirrors a cancellation into the backend, best-effort: failures
// are logged, never surfaced.
func (o *Orchestrator) cancelRemote(ctx context.Context, intent Intent, reason string) {
	// Before the wallet assigns a payment ID the order ID addresses the payment.
	identifier := intent.PaymentID
	if identifier == "" {
		identifier = intent.OrderID
	}

	result, err := o.callRPC(RPCCancel, func(ctx context.Context) (*backend.RPCResult, error) {
		return o.rpc.Cancel(ctx, identifier, reason)
	})
	switch {
	case err != nil:
		o.logger.Warn("backend cancel failed",
			"order_id", intent.OrderID,
			"reason", reason,
			"error", err)
	case !result.Success:
		o.logger.Warn("backend cancel rejected",
			"order_id", intent.OrderID,
			"reason", reason,
			"error", result.Error)
	}
}

// failPayment marks a payment as errored before any callback arrived.
func (o *Orchestrator) failPayment(orderID, message string) {
	o.terminate(orderID, StatusError, message, "creation")
}

// Resume restores observation of a payment left non-terminal by an interrupted
// session. The wallet call is never retried; the realtime mirror (or the expiry
// timer, or the recovery sweep) resolves the payment.
func (o *Orchestrator) Resume(record recovery.Record) (*Intent, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrOrchestratorClosed
	}
	if _, exists := o.sessions[record.OrderID]; exists {
		o.mu.Unlock()
		return nil, ErrIntentInFlight
	}

	intent := &Intent{
		PaymentID: record.PaymentID,
		OrderID:   record.OrderID,
		Status:    StatusWaitingApproval,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.CreatedAt.Add(o.timeout),
	}
	if err := o.repo.Create(intent); err != nil {
		o.mu.Unlock()
		return nil, err
	}

	sess := &session{
		intent: intent,
		done:   make(chan struct{}),
	}
	sess.callbacks = wallet.Callbacks{
		OnApproval:   func(paymentID string) { o.handleApproval(record.OrderID, paymentID) },
		OnCompletion: func(paymentID, txid string) { o.handleCompletion(record.OrderID, paymentID, txid) },
		OnCancel:     func(paymentID string) { o.handleCancel(record.OrderID, paymentID) },
		OnError:      func(err error, paymentID string) { o.handleWalletError(record.OrderID, paymentID, err) },
	}

	remaining := time.Until(intent.ExpiresAt)
	if remaining < 0 {
		remaining = 0
	}
	sess.timer = time.AfterFunc(remaining, func() { o.expire(record.OrderID) })
	o.sessions[record.OrderID] = sess

	var feedCtx context.Context
	if record.PaymentID != "" {
		o.registry.Register(record.PaymentID, sess.callbacks)
		if o.openFeed != nil {
			feedCtx, sess.stopFeed = context.WithCancel(context.Background())
		}
	}
	o.mu.Unlock()

	if feedCtx != nil {
		o.openFeed(feedCtx, record.PaymentID, o.feedHandler(record.OrderID))
	}

	o.logger.Info("resumed observation of interrupted payment",
		"order_id", record.OrderID,
		"payment_id", record.PaymentID)
	return o.snapshot(record.OrderID), nil
}

// Status returns the current intent for an order ID.
func (o *Orchestrator) Status(orderID string) (*Intent, error) {
	return o.repo.GetByOrderID(orderID)
}

// Wait blocks until the payment for orderID reaches a terminal state or ctx is
// cancelled.
func (o *Orchestrator) Wait(ctx context.Context, orderID string) (*Intent, error) {
	o.mu.Lock()
	sess, ok := o.sessions[orderID]
	o.mu.Unlock()
	if !ok {
		return nil, ErrNoActivePayment
	}

	select {
	case <-sess.done:
		return o.snapshot(orderID), nil
	case <-ctx.Done():
		return o.snapshot(orderID), ctx.Err()
	}
}

// Close tears down every live observation and timer without forcing terminal
// transitions; recovery records stay behind for the next session. The realtime
// subscriptions never outlive the orchestrator.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true

	for _, sess := range o.sessions {
		if sess.timer != nil {
			sess.timer.Stop()
		}
		if sess.stopFeed != nil {
			sess.stopFeed()
			sess.stopFeed = nil
		}
		if !sess.intent.Status.Terminal() {
			close(sess.done)
		}
	}
}

// suppress counts an ignored duplicate or late signal.
func (o *Orchestrator) suppress(signal, orderID, paymentID string) {
	if o.metrics != nil {
		o.metrics.IncDuplicateSignal(signal)
	}
	o.logger.Debug("suppressed duplicate signal",
		"signal", signal,
		"order_id", orderID,
		"payment_id", paymentID)
}

// callRPC runs one backend RPC with a bounded context and duration metric.
func (o *Orchestrator) callRPC(name string, fn func(ctx context.Context) (*backend.RPCResult, error)) (*backend.RPCResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	result, err := fn(ctx)
	if o.metrics != nil {
		o.metrics.ObserveRPCDuration(name, time.Since(start).Seconds())
	}
	return result, err
}

// updateIntentLocked persists the session's intent. Caller must hold mu.
func (o *Orchestrator) updateIntentLocked(sess *session) {
	if err := o.repo.Update(sess.intent); err != nil {
		o.logger.Error("failed to persist intent",
			"order_id", sess.intent.OrderID,
			"error", err)
	}
}

// snapshot returns a copy of the stored intent for an order ID.
func (o *Orchestrator) snapshot(orderID string) *Intent {
	intent, err := o.repo.GetByOrderID(orderID)
	if err != nil {
		return nil
	}
	return intent
}
