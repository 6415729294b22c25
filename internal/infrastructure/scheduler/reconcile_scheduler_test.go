package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/expressfee"
)

// fakeReconciler records runs and optionally blocks until released
type fakeReconciler struct {
	mu       sync.Mutex
	runs     []string // tenantID:trigger
	blocking chan struct{}
	inFlight chan struct{}
	err      error
}

func (f *fakeReconciler) Reconcile(ctx context.Context, tenantID uuid.UUID, trigger string) (*expressfee.ReconcileResult, error) {
	if f.inFlight != nil {
		f.inFlight <- struct{}{}
	}
	if f.blocking != nil {
		select {
		case <-f.blocking:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.runs = append(f.runs, tenantID.String()+":"+trigger)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &expressfee.ReconcileResult{
		Created:     []decimal.Decimal{decimal.NewFromInt(5)},
		StartedAt:   time.Now(),
		CompletedAt: time.Now(),
	}, nil
}

func (f *fakeReconciler) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

func newRunningScheduler(t *testing.T, reconciler Reconciler) *ReconcileScheduler {
	t.Helper()
	s, err := NewReconcileScheduler(DefaultConfig(), reconciler, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestScheduleRunsJob(t *testing.T) {
	reconciler := &fakeReconciler{}
	s := newRunningScheduler(t, reconciler)

	s.Schedule(uuid.New(), "products/update")

	waitFor(t, func() bool { return reconciler.runCount() == 1 })
}

func TestScheduleCoalescesBurstIntoOneFollowUp(t *testing.T) {
	reconciler := &fakeReconciler{
		blocking: make(chan struct{}),
		inFlight: make(chan struct{}, 10),
	}
	s := newRunningScheduler(t, reconciler)
	tenantID := uuid.New()

	s.Schedule(tenantID, "first")
	<-reconciler.inFlight // first run is now executing

	// A burst of triggers while the run is active
	s.Schedule(tenantID, "second")
	s.Schedule(tenantID, "third")
	s.Schedule(tenantID, "fourth")

	close(reconciler.blocking)

	// Exactly one follow-up run, carrying the latest trigger
	waitFor(t, func() bool { return reconciler.runCount() == 2 })
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, reconciler.runCount())

	reconciler.mu.Lock()
	last := reconciler.runs[1]
	reconciler.mu.Unlock()
	assert.Contains(t, last, "fourth")
}

func TestScheduleIndependentTenantsRunConcurrently(t *testing.T) {
	reconciler := &fakeReconciler{
		blocking: make(chan struct{}),
		inFlight: make(chan struct{}, 10),
	}
	s := newRunningScheduler(t, reconciler)

	s.Schedule(uuid.New(), "a")
	s.Schedule(uuid.New(), "b")

	// Both jobs reach execution despite neither finishing
	<-reconciler.inFlight
	<-reconciler.inFlight
	close(reconciler.blocking)

	waitFor(t, func() bool { return reconciler.runCount() == 2 })
}

func TestRunNowReturnsResult(t *testing.T) {
	reconciler := &fakeReconciler{}
	s := newRunningScheduler(t, reconciler)

	result, err := s.RunNow(context.Background(), uuid.New(), "manual")
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
}

func TestRunNowRejectsWhileRunActive(t *testing.T) {
	reconciler := &fakeReconciler{
		blocking: make(chan struct{}),
		inFlight: make(chan struct{}, 10),
	}
	s := newRunningScheduler(t, reconciler)
	tenantID := uuid.New()

	s.Schedule(tenantID, "webhook")
	<-reconciler.inFlight

	_, err := s.RunNow(context.Background(), tenantID, "manual")
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(reconciler.blocking)
}

func TestRunNowPropagatesError(t *testing.T) {
	wantErr := errors.New("catalog down")
	reconciler := &fakeReconciler{err: wantErr}
	s := newRunningScheduler(t, reconciler)

	_, err := s.RunNow(context.Background(), uuid.New(), "manual")
	assert.ErrorIs(t, err, wantErr)

	// Gate released after the failed run
	_, err = s.RunNow(context.Background(), uuid.New(), "manual")
	assert.ErrorIs(t, err, wantErr)
}

func TestScheduleWhileStoppedIsDropped(t *testing.T) {
	reconciler := &fakeReconciler{}
	s, err := NewReconcileScheduler(DefaultConfig(), reconciler, zap.NewNop())
	require.NoError(t, err)

	s.Schedule(uuid.New(), "early")
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, reconciler.runCount())
}

func TestScheduleAfterStopIsDropped(t *testing.T) {
	reconciler := &fakeReconciler{}
	s, err := NewReconcileScheduler(DefaultConfig(), reconciler, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	assert.NotPanics(t, func() { s.Schedule(uuid.New(), "late") })
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, reconciler.runCount())
}

func TestScheduleConcurrentWithStopDoesNotPanic(t *testing.T) {
	reconciler := &fakeReconciler{}
	s, err := NewReconcileScheduler(DefaultConfig(), reconciler, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			assert.NotPanics(t, func() { s.Schedule(uuid.New(), "racing") })
		}()
	}

	close(start)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.Stop(ctx)
	wg.Wait()
}

func TestHistoryNewestFirst(t *testing.T) {
	reconciler := &fakeReconciler{}
	s := newRunningScheduler(t, reconciler)

	_, err := s.RunNow(context.Background(), uuid.New(), "first")
	require.NoError(t, err)
	_, err = s.RunNow(context.Background(), uuid.New(), "second")
	require.NoError(t, err)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Trigger)
	assert.Equal(t, "first", history[1].Trigger)
}

func TestInvalidConfigRejected(t *testing.T) {
	_, err := NewReconcileScheduler(Config{Workers: 0, QueueSize: 1, JobTimeout: time.Second}, &fakeReconciler{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
