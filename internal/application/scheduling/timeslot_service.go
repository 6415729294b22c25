package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/shared"
)

// TimeslotService manages weekly timeslot configuration. Any change that can
// affect the express fee set publishes a config changed event; the catalog
// reconciliation subscriber picks it up from there.
type TimeslotService struct {
	timeslots scheduling.TimeslotRepository
	blocked   scheduling.BlockedDateRepository
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewTimeslotService creates a timeslot service
func NewTimeslotService(
	timeslots scheduling.TimeslotRepository,
	blocked scheduling.BlockedDateRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *TimeslotService {
	return &TimeslotService{
		timeslots: timeslots,
		blocked:   blocked,
		events:    events,
		logger:    logger,
	}
}

// CreateTimeslotInput carries a new timeslot definition
type CreateTimeslotInput struct {
	Method     string
	DayOfWeek  int
	StartTime  string
	EndTime    string
	Capacity   int
	Express    bool
	ExpressFee decimal.Decimal
}

// CreateTimeslot adds a slot to the weekly schedule
func (s *TimeslotService) CreateTimeslot(ctx context.Context, tenantID uuid.UUID, input CreateTimeslotInput) (*scheduling.Timeslot, error) {
	if input.DayOfWeek < 0 || input.DayOfWeek > 6 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Day of week must be between 0 (Sunday) and 6 (Saturday)")
	}

	slot, err := scheduling.NewTimeslot(
		tenantID,
		scheduling.Method(input.Method),
		time.Weekday(input.DayOfWeek),
		input.StartTime,
		input.EndTime,
		input.Capacity,
	)
	if err != nil {
		return nil, err
	}
	if input.Express {
		slot.SetExpress(input.ExpressFee)
	}

	if err := s.timeslots.Save(ctx, slot); err != nil {
		return nil, err
	}

	s.publishConfigChanged(ctx, tenantID)
	return slot, nil
}

// UpdateTimeslotInput carries a timeslot edit. Pointer fields are optional.
type UpdateTimeslotInput struct {
	DayOfWeek  *int
	StartTime  *string
	EndTime    *string
	Capacity   *int
	Express    *bool
	ExpressFee *decimal.Decimal
	Enabled    *bool
}

// UpdateTimeslot edits an existing slot
func (s *TimeslotService) UpdateTimeslot(ctx context.Context, tenantID, id uuid.UUID, input UpdateTimeslotInput) (*scheduling.Timeslot, error) {
	slot, err := s.timeslots.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.DayOfWeek != nil || input.StartTime != nil || input.EndTime != nil {
		day := slot.DayOfWeek
		start := slot.StartTime
		end := slot.EndTime
		if input.DayOfWeek != nil {
			if *input.DayOfWeek < 0 || *input.DayOfWeek > 6 {
				return nil, shared.NewDomainError("INVALID_INPUT", "Day of week must be between 0 (Sunday) and 6 (Saturday)")
			}
			day = time.Weekday(*input.DayOfWeek)
		}
		if input.StartTime != nil {
			start = *input.StartTime
		}
		if input.EndTime != nil {
			end = *input.EndTime
		}
		if err := slot.UpdateWindow(day, start, end); err != nil {
			return nil, err
		}
	}

	if input.Capacity != nil {
		if err := slot.UpdateCapacity(*input.Capacity); err != nil {
			return nil, err
		}
	}

	if input.Express != nil || input.ExpressFee != nil {
		fee := slot.ExpressFee
		express := slot.Express
		if input.ExpressFee != nil {
			fee = *input.ExpressFee
		}
		if input.Express != nil {
			express = *input.Express
		}
		if express {
			slot.SetExpress(fee)
		} else {
			slot.SetExpress(decimal.Zero)
		}
	}

	if input.Enabled != nil {
		if *input.Enabled {
			slot.Enable()
		} else {
			slot.Disable()
		}
	}

	if err := s.timeslots.Save(ctx, slot); err != nil {
		return nil, err
	}

	s.publishConfigChanged(ctx, tenantID)
	return slot, nil
}

// DeleteTimeslot removes a slot from the schedule
func (s *TimeslotService) DeleteTimeslot(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.timeslots.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.publishConfigChanged(ctx, tenantID)
	return nil
}

// ListTimeslots returns the tenant's full weekly schedule
func (s *TimeslotService) ListTimeslots(ctx context.Context, tenantID uuid.UUID) ([]scheduling.Timeslot, error) {
	return s.timeslots.FindAllForTenant(ctx, tenantID)
}

// BlockDate removes a calendar date from booking
func (s *TimeslotService) BlockDate(ctx context.Context, tenantID uuid.UUID, date time.Time, method, reason string) (*scheduling.BlockedDate, error) {
	blocked, err := scheduling.NewBlockedDate(tenantID, date, scheduling.Method(method), reason)
	if err != nil {
		return nil, err
	}
	if err := s.blocked.Save(ctx, blocked); err != nil {
		return nil, err
	}
	return blocked, nil
}

// UnblockDate re-opens a previously blocked date
func (s *TimeslotService) UnblockDate(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.blocked.Delete(ctx, tenantID, id)
}

// ListBlockedDates returns all blocked dates for a tenant
func (s *TimeslotService) ListBlockedDates(ctx context.Context, tenantID uuid.UUID) ([]scheduling.BlockedDate, error) {
	return s.blocked.FindAllForTenant(ctx, tenantID)
}

func (s *TimeslotService) publishConfigChanged(ctx context.Context, tenantID uuid.UUID) {
	if err := s.events.Publish(ctx, scheduling.NewConfigChangedEvent(tenantID)); err != nil {
		s.logger.Error("failed to publish config changed event",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}
}
