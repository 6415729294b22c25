package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/expressfee"
)

// Reconciler executes a catalog reconciliation run for one tenant
type Reconciler interface {
	Reconcile(ctx context.Context, tenantID uuid.UUID, trigger string) (*expressfee.ReconcileResult, error)
}

// ReconcileJob is one queued reconciliation run
type ReconcileJob struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Trigger     string
	EnqueuedAt  time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Result      *expressfee.ReconcileResult
	Error       string
}

// Config holds reconcile scheduler configuration
type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
	MaxHistory int
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Workers:    2,
		QueueSize:  64,
		JobTimeout: 2 * time.Minute,
		MaxHistory: 100,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Workers <= 0 || c.QueueSize <= 0 || c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// tenantState tracks the per-tenant run gate. At most one run is in flight
// per tenant; triggers arriving while a run is active coalesce into a single
// follow-up run instead of queueing one job per webhook burst.
type tenantState struct {
	running        bool
	pending        bool
	pendingTrigger string
}

// ReconcileScheduler runs catalog reconciliations on a bounded worker pool
type ReconcileScheduler struct {
	config     Config
	reconciler Reconciler
	logger     *zap.Logger

	jobs      chan *ReconcileJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	tenantMu sync.Mutex
	tenants  map[uuid.UUID]*tenantState

	historyMu  sync.RWMutex
	history    []*ReconcileJob
	maxHistory int
}

// NewReconcileScheduler creates a new reconcile scheduler
func NewReconcileScheduler(config Config, reconciler Reconciler, logger *zap.Logger) (*ReconcileScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	maxHistory := config.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 100
	}

	return &ReconcileScheduler{
		config:     config,
		reconciler: reconciler,
		logger:     logger.Named("reconcile_scheduler"),
		jobs:       make(chan *ReconcileJob, config.QueueSize),
		tenants:    make(map[uuid.UUID]*tenantState),
		history:    make([]*ReconcileJob, 0, maxHistory),
		maxHistory: maxHistory,
	}, nil
}

// Start starts the worker pool
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Reconcile scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *ReconcileScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	// Closing under mu serializes the close against enqueue's send
	close(s.jobs)
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reconcile scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reconcile scheduler stop timed out")
		return ctx.Err()
	}
}

// Schedule requests a reconciliation run for a tenant. It never blocks the
// caller: if a run is already active for the tenant the request coalesces
// into one pending follow-up run, and queue pressure is only logged.
func (s *ReconcileScheduler) Schedule(tenantID uuid.UUID, trigger string) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		s.logger.Warn("Reconcile requested while scheduler stopped",
			zap.String("tenant_id", tenantID.String()),
			zap.String("trigger", trigger),
		)
		return
	}
	s.mu.Unlock()

	s.tenantMu.Lock()
	state := s.tenantState(tenantID)
	if state.running {
		state.pending = true
		state.pendingTrigger = trigger
		s.tenantMu.Unlock()
		s.logger.Debug("Reconcile coalesced into pending run",
			zap.String("tenant_id", tenantID.String()),
			zap.String("trigger", trigger),
		)
		return
	}
	state.running = true
	s.tenantMu.Unlock()

	if !s.enqueue(tenantID, trigger) {
		s.release(tenantID)
	}
}

// RunNow executes a reconciliation synchronously, bypassing the queue but
// honoring the per-tenant gate. Returns ErrRunInProgress if a run is active.
func (s *ReconcileScheduler) RunNow(ctx context.Context, tenantID uuid.UUID, trigger string) (*expressfee.ReconcileResult, error) {
	s.tenantMu.Lock()
	state := s.tenantState(tenantID)
	if state.running {
		s.tenantMu.Unlock()
		return nil, ErrRunInProgress
	}
	state.running = true
	s.tenantMu.Unlock()

	job := newJob(tenantID, trigger)
	err := s.execute(ctx, job)
	s.finish(job)

	if err != nil {
		return nil, err
	}
	return job.Result, nil
}

// History returns a snapshot of recent jobs, newest first
func (s *ReconcileScheduler) History() []*ReconcileJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	snapshot := make([]*ReconcileJob, len(s.history))
	for i, job := range s.history {
		snapshot[len(s.history)-1-i] = job
	}
	return snapshot
}

func (s *ReconcileScheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Reconcile worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Reconcile worker stopping", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			_ = s.execute(ctx, job)
			s.finish(job)
		}
	}
}

func (s *ReconcileScheduler) execute(ctx context.Context, job *ReconcileJob) error {
	now := time.Now()
	job.StartedAt = &now

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	result, err := s.reconciler.Reconcile(runCtx, job.TenantID, job.Trigger)
	completed := time.Now()
	job.CompletedAt = &completed
	job.Result = result

	if err != nil {
		job.Error = err.Error()
		s.logger.Error("Reconciliation run failed",
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("trigger", job.Trigger),
			zap.Error(err),
		)
	} else {
		s.logger.Info("Reconciliation run completed",
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("trigger", job.Trigger),
			zap.Int("created", len(result.Created)),
			zap.Int("updated", len(result.Updated)),
			zap.Int("skipped", len(result.Skipped)),
			zap.Int("errors", len(result.Errors)),
		)
	}

	s.addToHistory(job)
	return err
}

// finish releases the tenant gate and, if triggers arrived during the run,
// enqueues exactly one follow-up run.
func (s *ReconcileScheduler) finish(job *ReconcileJob) {
	s.tenantMu.Lock()
	state := s.tenantState(job.TenantID)
	if !state.pending {
		state.running = false
		delete(s.tenants, job.TenantID)
		s.tenantMu.Unlock()
		return
	}
	state.pending = false
	trigger := state.pendingTrigger
	state.pendingTrigger = ""
	s.tenantMu.Unlock()

	if !s.enqueue(job.TenantID, trigger) {
		s.release(job.TenantID)
	}
}

// tenantState returns the state entry for a tenant; caller holds tenantMu
func (s *ReconcileScheduler) tenantState(tenantID uuid.UUID) *tenantState {
	state, ok := s.tenants[tenantID]
	if !ok {
		state = &tenantState{}
		s.tenants[tenantID] = state
	}
	return state
}

// enqueue hands a job to the worker pool. The running check and the send
// share mu with Stop's channel close, so a trigger racing a shutdown is
// dropped instead of panicking on a closed channel.
func (s *ReconcileScheduler) enqueue(tenantID uuid.UUID, trigger string) bool {
	job := newJob(tenantID, trigger)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		s.logger.Warn("Reconcile dropped, scheduler stopped",
			zap.String("tenant_id", tenantID.String()),
			zap.String("trigger", trigger),
		)
		return false
	}

	select {
	case s.jobs <- job:
		return true
	default:
		s.logger.Error("Reconcile job queue full, dropping run",
			zap.String("tenant_id", tenantID.String()),
			zap.String("trigger", trigger),
		)
		return false
	}
}

func (s *ReconcileScheduler) release(tenantID uuid.UUID) {
	s.tenantMu.Lock()
	delete(s.tenants, tenantID)
	s.tenantMu.Unlock()
}

func (s *ReconcileScheduler) addToHistory(job *ReconcileJob) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append(s.history, job)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

func newJob(tenantID uuid.UUID, trigger string) *ReconcileJob {
	return &ReconcileJob{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Trigger:    trigger,
		EnqueuedAt: time.Now(),
	}
}
