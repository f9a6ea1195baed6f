package recovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/onnwee/walletpay/internal/backend"
)

// DefaultStaleness is how old a record must be before the sweep cancels it.
const DefaultStaleness = 5 * time.Minute

// CancelReason is sent to the backend for sweep-initiated cancellations.
const CancelReason = "auto_recovered"

// Sweeper finds payments left in a non-terminal state past the staleness
// threshold and force-cancels them through the payment backend.
type Sweeper struct {
	records *RecordStore
	rpc     backend.Client
	metrics *Metrics
	logger  *slog.Logger
}

// NewSweeper creates a sweeper over the given record store and backend client.
// metrics may be nil to disable instrumentation.
func NewSweeper(records *RecordStore, rpc backend.Client, metrics *Metrics, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		records: records,
		rpc:     rpc,
		metrics: metrics,
		logger:  logger,
	}
}

// SweepOnce cancels every record older than the staleness threshold and deletes
// it regardless of RPC outcome: a failed cancel is not retried indefinitely, it
// only blocks a new payment for the same order ID, not the whole cart.
// Returns the number of records cleaned up.
func (s *Sweeper) SweepOnce(ctx context.Context, staleness time.Duration) (int, error) {
	records, err := s.records.List()
	if err != nil {
		s.logger.Error("failed to list recovery records", "error", err)
		if s.metrics != nil {
			s.metrics.IncSweeps(StatusFailure)
		}
		return 0, err
	}

	cutoff := time.Now().Add(-staleness)
	swept := 0

	for _, record := range records {
		if !record.StaleBefore(cutoff) {
			continue
		}

		result, err := s.rpc.Cancel(ctx, record.PaymentID, CancelReason)
		switch {
		case err != nil:
			s.logger.Warn("recovery cancel failed",
				"order_id", record.OrderID,
				"payment_id", record.PaymentID,
				"error", err)
			if s.metrics != nil {
				s.metrics.IncCancelFailures()
			}
		case !result.Success:
			s.logger.Warn("recovery cancel rejected",
				"order_id", record.OrderID,
				"payment_id", record.PaymentID,
				"error", result.Error)
			if s.metrics != nil {
				s.metrics.IncCancelFailures()
			}
		default:
			s.logger.Info("recovered stuck payment",
				"order_id", record.OrderID,
				"payment_id", record.PaymentID)
		}

		// Best-effort cleanup: the record goes away either way.
		if err := s.records.Delete(record.OrderID); err != nil {
			s.logger.Error("failed to delete recovery record",
				"order_id", record.OrderID,
				"error", err)
			continue
		}
		swept++
	}

	if s.metrics != nil {
		s.metrics.IncSweeps(StatusSuccess)
		s.metrics.AddRecordsSwept(swept)
	}
	if swept > 0 {
		s.logger.Info("recovery sweep finished", "swept", swept, "older_than", staleness)
	}
	return swept, nil
}

// RunPeriodicSweep runs the sweep periodically at the specified interval.
// This function blocks and should typically be run in a goroutine.
// It will continue running until the provided stop channel is closed.
func (s *Sweeper) RunPeriodicSweep(ctx context.Context, interval, staleness time.Duration, stopChan <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run a sweep immediately on start so a reloaded session cleans up fast.
	if _, err := s.SweepOnce(ctx, staleness); err != nil {
		s.logger.Error("initial recovery sweep failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx, staleness); err != nil {
				s.logger.Error("periodic recovery sweep failed", "error", err)
			}
		case <-stopChan:
			s.logger.Info("stopping recovery sweep")
			return
		case <-ctx.Done():
			s.logger.Info("recovery sweep context cancelled")
			return
		}
	}
}
