package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/config"
)

type countingExpirer struct{ calls atomic.Int32 }

func (e *countingExpirer) ExpirePendingContracts(context.Context) (int, error) {
	e.calls.Add(1)
	return 1, nil
}

type failingReconciler struct {
	calls atomic.Int32
	age   atomic.Int64
}

func (r *failingReconciler) ReconcileStaleDeposits(_ context.Context, olderThan time.Duration) (int, error) {
	r.calls.Add(1)
	r.age.Store(int64(olderThan))
	return 0, errors.New("gateway down")
}

func TestStartAllRunsJobs(t *testing.T) {
	expirer := &countingExpirer{}
	reconciler := &failingReconciler{}
	bt := NewBackgroundTasks(expirer, reconciler, config.Background{
		ExpireContractsSpec: "@every 1s",
		StaleDepositsSpec:   "@every 1s",
		StaleDepositAge:     30 * time.Minute,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := bt.StartAll(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for expirer.calls.Load() == 0 || reconciler.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("jobs did not run: expiry=%d sweep=%d", expirer.calls.Load(), reconciler.calls.Load())
		case <-time.After(50 * time.Millisecond):
		}
	}
	if got := time.Duration(reconciler.age.Load()); got != 30*time.Minute {
		t.Fatalf("sweep age = %v", got)
	}
}

func TestStartAllRejectsBadSpec(t *testing.T) {
	bt := NewBackgroundTasks(&countingExpirer{}, &failingReconciler{}, config.Background{
		ExpireContractsSpec: "every now and then",
		StaleDepositsSpec:   "@every 1m",
	}, nil)
	if err := bt.StartAll(context.Background()); err == nil {
		t.Fatal("invalid schedule must be reported")
	}
}
