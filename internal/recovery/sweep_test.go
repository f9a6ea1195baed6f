package recovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/onnwee/walletpay/internal/backend"
	"github.com/onnwee/walletpay/internal/localstore"
)

type cancelCall struct {
	paymentID string
	reason    string
}

type fakeBackend struct {
	mu        sync.Mutex
	cancels   []cancelCall
	cancelErr error
	result    *backend.RPCResult
}

func (f *fakeBackend) Approve(ctx context.Context, paymentID, orderID string, amount float64) (*backend.RPCResult, error) {
	return &backend.RPCResult{Success: true}, nil
}

func (f *fakeBackend) Complete(ctx context.Context, paymentID, txid, orderID string) (*backend.RPCResult, error) {
	return &backend.RPCResult{Success: true}, nil
}

func (f *fakeBackend) Cancel(ctx context.Context, paymentID, reason string) (*backend.RPCResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels = append(f.cancels, cancelCall{paymentID: paymentID, reason: reason})
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &backend.RPCResult{Success: true}, nil
}

func (f *fakeBackend) cancelCalls() []cancelCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]cancelCall, len(f.cancels))
	copy(calls, f.cancels)
	return calls
}

func TestSweepOnceCancelsOnlyStaleRecords(t *testing.T) {
	store := NewRecordStore(localstore.NewInMemoryKV())
	rpc := &fakeBackend{}
	sweeper := NewSweeper(store, rpc, nil, nil)

	stale := Record{OrderID: "SAPI_1_old", PaymentID: "PID_OLD", CreatedAt: time.Now().Add(-10 * time.Minute)}
	fresh := Record{OrderID: "SAPI_2_new", PaymentID: "PID_NEW", CreatedAt: time.Now()}
	if err := store.Put(stale); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put(fresh); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	swept, err := sweeper.SweepOnce(context.Background(), DefaultStaleness)
	if err != nil {
		t.Fatalf("SweepOnce() error = %v", err)
	}
	if swept != 1 {
		t.Errorf("swept = %d, want 1", swept)
	}

	calls := rpc.cancelCalls()
	if len(calls) != 1 {
		t.Fatalf("cancel calls = %+v, want exactly 1", calls)
	}
	if calls[0].paymentID != "PID_OLD" {
		t.Errorf("cancelled payment = %q, want PID_OLD", calls[0].paymentID)
	}
	if calls[0].reason != CancelReason {
		t.Errorf("cancel reason = %q, want %q", calls[0].reason, CancelReason)
	}

	records, _ := store.List()
	if len(records) != 1 || records[0].OrderID != "SAPI_2_new" {
		t.Errorf("remaining records = %+v, want only the fresh one", records)
	}
}

func TestSweepOnceDeletesRecordOnCancelFailure(t *testing.T) {
	store := NewRecordStore(localstore.NewInMemoryKV())
	rpc := &fakeBackend{cancelErr: errors.New("backend unreachable")}
	metrics := NewMetrics()
	sweeper := NewSweeper(store, rpc, metrics, nil)

	record := Record{OrderID: "SAPI_1_old", PaymentID: "PID_OLD", CreatedAt: time.Now().Add(-time.Hour)}
	if err := store.Put(record); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	swept, err := sweeper.SweepOnce(context.Background(), DefaultStaleness)
	if err != nil {
		t.Fatalf("SweepOnce() error = %v", err)
	}
	if swept != 1 {
		t.Errorf("swept = %d, want 1 even when the cancel RPC fails", swept)
	}

	// A failed cancel is not retried forever; the breadcrumb still goes away.
	records, _ := store.List()
	if len(records) != 0 {
		t.Errorf("records = %+v, want none after failed cancel", records)
	}
}

func TestSweepOnceDeletesRecordOnCancelRejection(t *testing.T) {
	store := NewRecordStore(localstore.NewInMemoryKV())
	rpc := &fakeBackend{result: &backend.RPCResult{Success: false, Error: "already settled"}}
	sweeper := NewSweeper(store, rpc, nil, nil)

	record := Record{OrderID: "SAPI_1_old", PaymentID: "PID_OLD", CreatedAt: time.Now().Add(-time.Hour)}
	if err := store.Put(record); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if _, err := sweeper.SweepOnce(context.Background(), DefaultStaleness); err != nil {
		t.Fatalf("SweepOnce() error = %v", err)
	}

	records, _ := store.List()
	if len(records) != 0 {
		t.Errorf("records = %+v, want none after rejected cancel", records)
	}
}

func TestSweepOnceEmptyStore(t *testing.T) {
	store := NewRecordStore(localstore.NewInMemoryKV())
	rpc := &fakeBackend{}
	sweeper := NewSweeper(store, rpc, nil, nil)

	swept, err := sweeper.SweepOnce(context.Background(), DefaultStaleness)
	if err != nil {
		t.Fatalf("SweepOnce() error = %v", err)
	}
	if swept != 0 {
		t.Errorf("swept = %d, want 0", swept)
	}
	if calls := rpc.cancelCalls(); len(calls) != 0 {
		t.Errorf("cancel calls = %+v, want none", calls)
	}
}

func TestRunPeriodicSweepStops(t *testing.T) {
	store := NewRecordStore(localstore.NewInMemoryKV())
	rpc := &fakeBackend{}
	sweeper := NewSweeper(store, rpc, nil, nil)

	record := Record{OrderID: "SAPI_1_old", PaymentID: "PID_OLD", CreatedAt: time.Now().Add(-time.Hour)}
	if err := store.Put(record); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		sweeper.RunPeriodicSweep(context.Background(), time.Hour, DefaultStaleness, stop)
		close(done)
	}()

	// The initial sweep runs immediately, before the first tick.
	deadline := time.After(2 * time.Second)
	for len(rpc.cancelCalls()) == 0 {
		select {
		case <-deadline:
			t.Fatal("initial sweep never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}

	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic sweep did not stop")
	}
}
