//go:build integration

package cart

import (
	"context"
	"os"
	"testing"
)

// Requires a running Redis instance. Set REDIS_URL to run, e.g.
// redis://localhost:6379/1
func openTestRedisCarts(t *testing.T) *RedisCarts {
	t.Helper()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}

	store, err := NewRedisCartsFromURL(redisURL)
	if err != nil {
		t.Fatalf("NewRedisCartsFromURL() error = %v", err)
	}
	return store
}

func TestRedisCartsRoundTrip(t *testing.T) {
	store := openTestRedisCarts(t)
	ctx := context.Background()
	accountID := "it_round_trip"
	t.Cleanup(func() { _ = store.Clear(ctx, accountID) })

	// Missing document reads as empty.
	cart, err := store.Load(ctx, accountID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("missing document = %+v, want empty cart", cart)
	}

	saved := Cart{Items: []Line{line("p1", 2.5, 2), line("p2", 1, 1)}}
	saved.recompute()
	if err := store.Save(ctx, accountID, saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx, accountID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Items) != 2 || got.TotalQuantity != 3 {
		t.Errorf("loaded cart = %+v, want 2 lines totalling 3", got)
	}
}

func TestRedisCartsLastWriterWins(t *testing.T) {
	store := openTestRedisCarts(t)
	ctx := context.Background()
	accountID := "it_lww"
	t.Cleanup(func() { _ = store.Clear(ctx, accountID) })

	first := Cart{Items: []Line{line("p1", 2, 5)}}
	second := Cart{Items: []Line{line("p2", 3, 1)}}
	if err := store.Save(ctx, accountID, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, accountID, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx, accountID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ProductID != "p2" {
		t.Errorf("loaded cart = %+v, want only the second writer's document", got.Items)
	}
}

func TestRedisCartsClear(t *testing.T) {
	store := openTestRedisCarts(t)
	ctx := context.Background()
	accountID := "it_clear"

	if err := store.Save(ctx, accountID, Cart{Items: []Line{line("p1", 2, 1)}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(ctx, accountID); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, err := store.Load(ctx, accountID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("cart after Clear = %+v, want empty", got)
	}
}
