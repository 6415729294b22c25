package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/slotadmin/backend/internal/domain/shared"
)

// BlockedDate removes a calendar date from booking, either for one method
// or for both when Method is empty.
type BlockedDate struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Date      time.Time // date only, midnight UTC
	Method    Method    // empty = both methods
	Reason    string
	CreatedAt time.Time
}

// NewBlockedDate creates a blocked date entry
func NewBlockedDate(tenantID uuid.UUID, date time.Time, method Method, reason string) (*BlockedDate, error) {
	if method != "" && method != MethodDelivery && method != MethodCollection {
		return nil, shared.NewDomainError("INVALID_INPUT", "Method must be DELIVERY, COLLECTION or empty")
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return &BlockedDate{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Date:      day,
		Method:    method,
		Reason:    reason,
		CreatedAt: time.Now(),
	}, nil
}

// Blocks reports whether this entry blocks the given method
func (b *BlockedDate) Blocks(method Method) bool {
	return b.Method == "" || b.Method == method
}
