package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/onnwee/walletpay/internal/localstore"
)

// fakeRemote is an in-memory RemoteStore with injectable failures.
type fakeRemote struct {
	mu      sync.Mutex
	docs    map[string]Cart
	loadErr error
	saveErr error
	saves   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{docs: make(map[string]Cart)}
}

func (f *fakeRemote) Load(ctx context.Context, accountID string) (Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return Cart{}, f.loadErr
	}
	return f.docs[accountID], nil
}

func (f *fakeRemote) Save(ctx context.Context, accountID string, cart Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.docs[accountID] = cart
	return nil
}

func (f *fakeRemote) Clear(ctx context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, accountID)
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeRemote) {
	t.Helper()
	remote := newFakeRemote()
	return NewStore(NewLocalCarts(localstore.NewInMemoryKV()), remote, nil), remote
}

func TestStoreAnonymousUsesLocal(t *testing.T) {
	store, remote := newTestStore(t)
	ctx := context.Background()

	cart, err := store.Add(ctx, line("p1", 2.5, 2))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if cart.TotalQuantity != 2 {
		t.Errorf("total quantity = %d, want 2", cart.TotalQuantity)
	}

	remote.mu.Lock()
	saves := remote.saves
	remote.mu.Unlock()
	if saves != 0 {
		t.Errorf("remote saves = %d, want 0 while anonymous", saves)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ProductID != "p1" {
		t.Errorf("local cart = %+v", got.Items)
	}
}

func TestStoreMergeOnAuthentication(t *testing.T) {
	store, remote := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, line("p1", 2, 5)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := store.Add(ctx, line("p3", 4, 1)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	seeded := Cart{Items: []Line{line("p1", 2, 1), line("p2", 3, 2)}}
	seeded.recompute()
	remote.docs["acct_1"] = seeded

	if err := store.Authenticated(ctx, "acct_1"); err != nil {
		t.Fatalf("Authenticated() error = %v", err)
	}

	cart, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	byID := make(map[string]Line)
	for _, l := range cart.Items {
		byID[l.ProductID] = l
	}
	if len(cart.Items) != 3 {
		t.Fatalf("merged cart = %+v, want 3 products", cart.Items)
	}
	if byID["p1"].Quantity != 1 {
		t.Errorf("p1 quantity = %d, want remote's 1", byID["p1"].Quantity)
	}
	if _, ok := byID["p3"]; !ok {
		t.Errorf("local-only p3 lost in merge: %+v", cart.Items)
	}
}

func TestStoreMergeRunsOnce(t *testing.T) {
	store, remote := newTestStore(t)
	ctx := context.Background()

	if err := store.Authenticated(ctx, "acct_1"); err != nil {
		t.Fatalf("Authenticated() error = %v", err)
	}
	remote.mu.Lock()
	savesAfterFirst := remote.saves
	remote.mu.Unlock()

	// Repeated notifications for the same account are no-ops.
	if err := store.Authenticated(ctx, "acct_1"); err != nil {
		t.Fatalf("repeated Authenticated() error = %v", err)
	}
	remote.mu.Lock()
	savesAfterSecond := remote.saves
	remote.mu.Unlock()

	if savesAfterSecond != savesAfterFirst {
		t.Errorf("second notification wrote remote: %d -> %d saves", savesAfterFirst, savesAfterSecond)
	}
}

func TestStoreMergeFailureFallsBackToLocal(t *testing.T) {
	store, remote := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, line("p1", 2, 1)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	remote.loadErr = errors.New("redis down")
	if err := store.Authenticated(ctx, "acct_1"); err == nil {
		t.Fatal("Authenticated() error = nil, want merge failure")
	}

	// The local cart stays authoritative and intact.
	cart, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(cart.Items) != 1 {
		t.Errorf("local cart = %+v, want 1 item after failed merge", cart.Items)
	}

	// The transition stays unconsumed, so a later notification retries the merge.
	remote.loadErr = nil
	if err := store.Authenticated(ctx, "acct_1"); err != nil {
		t.Fatalf("retry Authenticated() error = %v", err)
	}
	if got := remote.docs["acct_1"]; len(got.Items) != 1 {
		t.Errorf("remote cart after retried merge = %+v, want 1 item", got.Items)
	}
}

func TestStoreAuthenticatedMutationsHitRemote(t *testing.T) {
	store, remote := newTestStore(t)
	ctx := context.Background()

	if err := store.Authenticated(ctx, "acct_1"); err != nil {
		t.Fatalf("Authenticated() error = %v", err)
	}

	if _, err := store.Add(ctx, line("p1", 2, 2)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := remote.docs["acct_1"]; len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Errorf("remote cart = %+v, want p1 x2", got.Items)
	}

	if _, err := store.SetQuantity(ctx, "p1", 7); err != nil {
		t.Fatalf("SetQuantity() error = %v", err)
	}
	if got := remote.docs["acct_1"]; got.Items[0].Quantity != 7 {
		t.Errorf("remote quantity = %d, want 7", got.Items[0].Quantity)
	}
}

func TestStoreClearWritesThroughBothTiers(t *testing.T) {
	store, remote := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, line("p1", 2, 2)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := store.Authenticated(ctx, "acct_1"); err != nil {
		t.Fatalf("Authenticated() error = %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	cart, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !cart.IsEmpty() {
		t.Errorf("remote cart not empty after Clear: %+v", cart.Items)
	}
	if _, ok := remote.docs["acct_1"]; ok {
		t.Error("remote document still present after Clear")
	}
}
