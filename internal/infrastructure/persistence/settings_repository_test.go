package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/shared"
)

func TestSettingsRepositoryUpsert(t *testing.T) {
	repo := NewGormSettingsRepository(newTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	settings := scheduling.DefaultSettings(tenantID)
	require.NoError(t, repo.Save(ctx, settings))

	require.NoError(t, settings.Update(false, true, 48, 21, "16:00"))
	require.NoError(t, repo.Save(ctx, settings))

	found, err := repo.FindForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.False(t, found.DeliveryEnabled)
	assert.Equal(t, 48, found.LeadTimeHours)
	assert.Equal(t, "16:00", found.CutoffTime)
}

func TestSettingsRepositoryNotFound(t *testing.T) {
	repo := NewGormSettingsRepository(newTestDB(t))

	_, err := repo.FindForTenant(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSettingsRepositoryDeleteForTenant(t *testing.T) {
	repo := NewGormSettingsRepository(newTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.Save(ctx, scheduling.DefaultSettings(tenantID)))
	require.NoError(t, repo.DeleteForTenant(ctx, tenantID))

	_, err := repo.FindForTenant(ctx, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBlockedDateRepositoryRoundTrip(t *testing.T) {
	repo := NewGormBlockedDateRepository(newTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	blocked, err := scheduling.NewBlockedDate(tenantID, mustDate(t, "2026-12-25"), "", "Christmas")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, blocked))

	dates, err := repo.FindAllForTenant(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, "Christmas", dates[0].Reason)
	assert.True(t, dates[0].Blocks(scheduling.MethodDelivery))
	assert.True(t, dates[0].Blocks(scheduling.MethodCollection))

	require.NoError(t, repo.Delete(ctx, tenantID, dates[0].ID))
	assert.ErrorIs(t, repo.Delete(ctx, tenantID, dates[0].ID), shared.ErrNotFound)
}
