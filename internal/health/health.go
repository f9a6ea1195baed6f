// Package health provides health check implementations for the external
// dependencies of the checkout flow.
package health

import "context"

// Checker reports whether one dependency is reachable and serving.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
