package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
	// ErrJobQueueFull is returned when the job queue is at capacity
	ErrJobQueueFull = errors.New("scheduler: job queue is full")
	// ErrRunInProgress is returned by RunNow when a run is already active for the tenant
	ErrRunInProgress = errors.New("scheduler: reconciliation already in progress for tenant")
	// ErrInvalidConfig is returned for invalid scheduler configuration
	ErrInvalidConfig = errors.New("scheduler: invalid configuration")
)
