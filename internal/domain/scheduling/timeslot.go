package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/slotadmin/backend/internal/domain/shared"
)

// Method distinguishes how an order reaches the customer
type Method string

const (
	MethodDelivery   Method = "DELIVERY"
	MethodCollection Method = "COLLECTION"
)

// Timeslot is a recurring weekly window customers can book at checkout.
// Express slots carry a surcharge that is billed through a fee product in
// the storefront catalog.
type Timeslot struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Method     Method
	DayOfWeek  time.Weekday
	StartTime  string // "15:04"
	EndTime    string // "15:04"
	Capacity   int
	Express    bool
	ExpressFee decimal.Decimal
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewTimeslot creates a validated timeslot
func NewTimeslot(tenantID uuid.UUID, method Method, day time.Weekday, start, end string, capacity int) (*Timeslot, error) {
	if method != MethodDelivery && method != MethodCollection {
		return nil, shared.NewDomainError("INVALID_INPUT", "Method must be DELIVERY or COLLECTION")
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Capacity cannot be negative")
	}

	now := time.Now()
	return &Timeslot{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Method:     method,
		DayOfWeek:  day,
		StartTime:  start,
		EndTime:    end,
		Capacity:   capacity,
		ExpressFee: decimal.Zero,
		Enabled:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SetExpress marks the slot as express with the given surcharge.
// A zero or negative fee downgrades the slot to standard pricing.
func (s *Timeslot) SetExpress(fee decimal.Decimal) {
	if fee.IsPositive() {
		s.Express = true
		s.ExpressFee = fee.Round(2)
	} else {
		s.Express = false
		s.ExpressFee = decimal.Zero
	}
	s.UpdatedAt = time.Now()
}

// UpdateWindow changes the booking window
func (s *Timeslot) UpdateWindow(day time.Weekday, start, end string) error {
	if err := validateWindow(start, end); err != nil {
		return err
	}
	s.DayOfWeek = day
	s.StartTime = start
	s.EndTime = end
	s.UpdatedAt = time.Now()
	return nil
}

// UpdateCapacity changes the per-window booking capacity
func (s *Timeslot) UpdateCapacity(capacity int) error {
	if capacity < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Capacity cannot be negative")
	}
	s.Capacity = capacity
	s.UpdatedAt = time.Now()
	return nil
}

// Enable makes the slot bookable
func (s *Timeslot) Enable() {
	s.Enabled = true
	s.UpdatedAt = time.Now()
}

// Disable hides the slot from checkout
func (s *Timeslot) Disable() {
	s.Enabled = false
	s.UpdatedAt = time.Now()
}

func validateWindow(start, end string) error {
	st, err := time.Parse("15:04", start)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", "Start time must be in HH:MM format")
	}
	et, err := time.Parse("15:04", end)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", "End time must be in HH:MM format")
	}
	if !et.After(st) {
		return shared.NewDomainError("INVALID_INPUT", "End time must be after start time")
	}
	return nil
}
