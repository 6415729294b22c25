package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/shared"
)

func newTestSlot(t *testing.T, tenantID uuid.UUID, day time.Weekday, start, end string) *scheduling.Timeslot {
	t.Helper()
	slot, err := scheduling.NewTimeslot(tenantID, scheduling.MethodDelivery, day, start, end, 10)
	require.NoError(t, err)
	return slot
}

func TestTimeslotRepositorySaveAndFind(t *testing.T) {
	repo := NewGormTimeslotRepository(newTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	slot := newTestSlot(t, tenantID, time.Monday, "09:00", "12:00")
	slot.SetExpress(decimal.NewFromFloat(5.99))
	require.NoError(t, repo.Save(ctx, slot))

	found, err := repo.FindByID(ctx, tenantID, slot.ID)
	require.NoError(t, err)
	assert.True(t, found.Express)
	assert.Equal(t, "5.99", found.ExpressFee.StringFixed(2))
	assert.Equal(t, time.Monday, found.DayOfWeek)
}

func TestTimeslotRepositoryScopesByTenant(t *testing.T) {
	repo := NewGormTimeslotRepository(newTestDB(t))
	ctx := context.Background()

	slot := newTestSlot(t, uuid.New(), time.Monday, "09:00", "12:00")
	require.NoError(t, repo.Save(ctx, slot))

	_, err := repo.FindByID(ctx, uuid.New(), slot.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTimeslotRepositoryFindAllOrdered(t *testing.T) {
	repo := NewGormTimeslotRepository(newTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestSlot(t, tenantID, time.Wednesday, "14:00", "17:00")))
	require.NoError(t, repo.Save(ctx, newTestSlot(t, tenantID, time.Monday, "14:00", "17:00")))
	require.NoError(t, repo.Save(ctx, newTestSlot(t, tenantID, time.Monday, "09:00", "12:00")))

	slots, err := repo.FindAllForTenant(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, time.Monday, slots[0].DayOfWeek)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, time.Wednesday, slots[2].DayOfWeek)
}

func TestTimeslotRepositoryDeleteAllForTenant(t *testing.T) {
	repo := NewGormTimeslotRepository(newTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	otherTenant := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestSlot(t, tenantID, time.Monday, "09:00", "12:00")))
	keep := newTestSlot(t, otherTenant, time.Monday, "09:00", "12:00")
	require.NoError(t, repo.Save(ctx, keep))

	require.NoError(t, repo.DeleteAllForTenant(ctx, tenantID))

	slots, err := repo.FindAllForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = repo.FindAllForTenant(ctx, otherTenant)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}
