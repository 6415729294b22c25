package expressfee

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountError records a failure for a single fee amount. One amount failing
// never aborts the run; the engine keeps going and reports everything.
type AmountError struct {
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message"`
}

// ReconcileResult summarizes one reconciliation run
type ReconcileResult struct {
	Created      []decimal.Decimal `json:"created"`
	Updated      []decimal.Decimal `json:"updated"`
	Skipped      []decimal.Decimal `json:"skipped"`
	Errors       []AmountError     `json:"errors"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  time.Time         `json:"completed_at"`
}

// Success reports whether every amount reconciled cleanly
func (r *ReconcileResult) Success() bool {
	return len(r.Errors) == 0
}

// Total returns the number of amounts processed
func (r *ReconcileResult) Total() int {
	return len(r.Created) + len(r.Updated) + len(r.Skipped) + len(r.Errors)
}

// CleanupResult summarizes one cleanup run
type CleanupResult struct {
	Deleted     []decimal.Decimal `json:"deleted"`
	Kept        []decimal.Decimal `json:"kept"`
	Errors      []AmountError     `json:"errors"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Success reports whether every stale product was removed cleanly
func (r *CleanupResult) Success() bool {
	return len(r.Errors) == 0
}
