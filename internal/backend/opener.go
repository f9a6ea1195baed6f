package backend

import (
	"context"
	"log/slog"
)

// OpenFeeds returns a function that starts a realtime observation of one remote
// payment document, delivering updates to the handler until ctx is cancelled.
// The returned function never blocks; the subscription runs in its own goroutine
// and reconnects as needed.
func OpenFeeds(url string, logger *slog.Logger) func(ctx context.Context, paymentID string, handler UpdateHandler) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, paymentID string, handler UpdateHandler) {
		feed, err := NewFeed(DefaultFeedConfig(url, paymentID), handler, logger)
		if err != nil {
			logger.Error("failed to open status feed",
				"payment_id", paymentID,
				"error", err)
			return
		}
		go func() {
			_ = feed.Run(ctx)
		}()
	}
}
