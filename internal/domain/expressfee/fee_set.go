package expressfee

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/slotadmin/backend/internal/domain/scheduling"
)

// ExtractFeeSet derives the set of distinct express surcharges from timeslot
// configuration. Only enabled express slots with a positive fee contribute.
// Amounts are rounded to two decimal places, deduplicated and returned in
// ascending order so callers get a stable, comparable set.
func ExtractFeeSet(slots []scheduling.Timeslot) []decimal.Decimal {
	seen := make(map[string]decimal.Decimal)
	for _, slot := range slots {
		if !slot.Enabled || !slot.Express {
			continue
		}
		fee := slot.ExpressFee.Round(2)
		if !fee.IsPositive() {
			continue
		}
		seen[fee.StringFixed(2)] = fee
	}

	fees := make([]decimal.Decimal, 0, len(seen))
	for _, fee := range seen {
		fees = append(fees, fee)
	}
	sort.Slice(fees, func(i, j int) bool {
		return fees[i].LessThan(fees[j])
	})
	return fees
}

// ContainsAmount reports whether the given amount is in the fee set,
// comparing at two-decimal precision.
func ContainsAmount(fees []decimal.Decimal, amount decimal.Decimal) bool {
	target := amount.Round(2)
	for _, fee := range fees {
		if fee.Round(2).Equal(target) {
			return true
		}
	}
	return false
}
