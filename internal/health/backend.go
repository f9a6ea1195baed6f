package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// BackendChecker implements health checking for the payment backend over HTTP.
type BackendChecker struct {
	baseURL string
	client  *http.Client
}

// NewBackendChecker creates a backend health checker against the given base URL.
func NewBackendChecker(baseURL string) *BackendChecker {
	return &BackendChecker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// HealthCheck issues a GET against the backend's health endpoint.
func (b *BackendChecker) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend health returned status %d", resp.StatusCode)
	}
	return nil
}
