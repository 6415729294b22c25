package expressfee

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotadmin/backend/internal/domain/scheduling"
)

func expressSlot(t *testing.T, fee string) scheduling.Timeslot {
	t.Helper()
	slot, err := scheduling.NewTimeslot(uuid.New(), scheduling.MethodDelivery, time.Monday, "09:00", "11:00", 10)
	require.NoError(t, err)
	slot.SetExpress(decimal.RequireFromString(fee))
	return *slot
}

func TestExtractFeeSet(t *testing.T) {
	tests := []struct {
		name     string
		slots    func(t *testing.T) []scheduling.Timeslot
		expected []string
	}{
		{
			name: "empty configuration",
			slots: func(t *testing.T) []scheduling.Timeslot {
				return nil
			},
			expected: []string{},
		},
		{
			name: "standard slots contribute nothing",
			slots: func(t *testing.T) []scheduling.Timeslot {
				slot, err := scheduling.NewTimeslot(uuid.New(), scheduling.MethodDelivery, time.Tuesday, "09:00", "11:00", 5)
				require.NoError(t, err)
				return []scheduling.Timeslot{*slot}
			},
			expected: []string{},
		},
		{
			name: "duplicate fees collapse",
			slots: func(t *testing.T) []scheduling.Timeslot {
				return []scheduling.Timeslot{
					expressSlot(t, "4.50"),
					expressSlot(t, "4.5"),
					expressSlot(t, "4.500"),
				}
			},
			expected: []string{"4.50"},
		},
		{
			name: "distinct fees sorted ascending",
			slots: func(t *testing.T) []scheduling.Timeslot {
				return []scheduling.Timeslot{
					expressSlot(t, "12.00"),
					expressSlot(t, "3.25"),
					expressSlot(t, "7.50"),
				}
			},
			expected: []string{"3.25", "7.50", "12.00"},
		},
		{
			name: "disabled slots are ignored",
			slots: func(t *testing.T) []scheduling.Timeslot {
				active := expressSlot(t, "5.00")
				disabled := expressSlot(t, "9.00")
				disabled.Disable()
				return []scheduling.Timeslot{active, disabled}
			},
			expected: []string{"5.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees := ExtractFeeSet(tt.slots(t))

			got := make([]string, 0, len(fees))
			for _, fee := range fees {
				got = append(got, fee.StringFixed(2))
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractFeeSetExpressDowngrade(t *testing.T) {
	// A slot whose fee was zeroed out is no longer express at all
	slot := expressSlot(t, "6.00")
	slot.SetExpress(decimal.Zero)

	fees := ExtractFeeSet([]scheduling.Timeslot{slot})
	assert.Empty(t, fees)
	assert.False(t, slot.Express)
}

func TestContainsAmount(t *testing.T) {
	fees := []decimal.Decimal{
		decimal.RequireFromString("3.25"),
		decimal.RequireFromString("7.50"),
	}

	assert.True(t, ContainsAmount(fees, decimal.RequireFromString("7.5")))
	assert.True(t, ContainsAmount(fees, decimal.RequireFromString("3.250")))
	assert.False(t, ContainsAmount(fees, decimal.RequireFromString("7.51")))
	assert.False(t, ContainsAmount(nil, decimal.RequireFromString("7.50")))
}
