package dto

import (
	"time"

	"github.com/slotadmin/backend/internal/domain/expressfee"
	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/tenant"
)

// TenantResponse is the API view of a tenant. The access token and webhook
// secret never leave the server.
type TenantResponse struct {
	ID         string    `json:"id"`
	ShopDomain string    `json:"shop_domain"`
	APIVersion string    `json:"api_version"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TenantResponseFromDomain maps a tenant to its API view
func TenantResponseFromDomain(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:         t.ID.String(),
		ShopDomain: t.ShopDomain,
		APIVersion: t.APIVersion,
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// TimeslotResponse is the API view of a weekly timeslot
type TimeslotResponse struct {
	ID         string    `json:"id"`
	Method     string    `json:"method"`
	DayOfWeek  int       `json:"day_of_week"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Capacity   int       `json:"capacity"`
	Express    bool      `json:"express"`
	ExpressFee string    `json:"express_fee"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TimeslotResponseFromDomain maps a timeslot to its API view
func TimeslotResponseFromDomain(slot *scheduling.Timeslot) TimeslotResponse {
	return TimeslotResponse{
		ID:         slot.ID.String(),
		Method:     string(slot.Method),
		DayOfWeek:  int(slot.DayOfWeek),
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		Capacity:   slot.Capacity,
		Express:    slot.Express,
		ExpressFee: slot.ExpressFee.StringFixed(2),
		Enabled:    slot.Enabled,
		CreatedAt:  slot.CreatedAt,
		UpdatedAt:  slot.UpdatedAt,
	}
}

// BlockedDateResponse is the API view of a blocked calendar date
type BlockedDateResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Method    string    `json:"method,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockedDateResponseFromDomain maps a blocked date to its API view
func BlockedDateResponseFromDomain(b *scheduling.BlockedDate) BlockedDateResponse {
	return BlockedDateResponse{
		ID:        b.ID.String(),
		Date:      b.Date.Format("2006-01-02"),
		Method:    string(b.Method),
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// SettingsResponse is the API view of booking settings
type SettingsResponse struct {
	DeliveryEnabled   bool      `json:"delivery_enabled"`
	CollectionEnabled bool      `json:"collection_enabled"`
	LeadTimeHours     int       `json:"lead_time_hours"`
	MaxAdvanceDays    int       `json:"max_advance_days"`
	CutoffTime        string    `json:"cutoff_time"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SettingsResponseFromDomain maps settings to their API view
func SettingsResponseFromDomain(s *scheduling.Settings) SettingsResponse {
	return SettingsResponse{
		DeliveryEnabled:   s.DeliveryEnabled,
		CollectionEnabled: s.CollectionEnabled,
		LeadTimeHours:     s.LeadTimeHours,
		MaxAdvanceDays:    s.MaxAdvanceDays,
		CutoffTime:        s.CutoffTime,
		UpdatedAt:         s.UpdatedAt,
	}
}

// FeeProductResponse is the API view of a remote fee product
type FeeProductResponse struct {
	RemoteID int64  `json:"remote_id"`
	Title    string `json:"title"`
	SKU      string `json:"sku"`
	Price    string `json:"price"`
}

// FeeProductResponseFromDomain maps a remote fee product to its API view
func FeeProductResponseFromDomain(p *expressfee.FeeProduct) FeeProductResponse {
	return FeeProductResponse{
		RemoteID: p.RemoteID,
		Title:    p.Title,
		SKU:      p.SKU,
		Price:    p.Price.StringFixed(2),
	}
}

// RunResponse is the API view of a persisted reconciliation or cleanup run
type RunResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Trigger     string    `json:"trigger"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Skipped     int       `json:"skipped"`
	Deleted     int       `json:"deleted"`
	Errors      int       `json:"errors"`
	ErrorDetail string    `json:"error_detail,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// RunResponseFromDomain maps a reconciliation log entry to its API view
func RunResponseFromDomain(l *expressfee.ReconciliationLog) RunResponse {
	return RunResponse{
		ID:          l.ID.String(),
		Kind:        string(l.Kind),
		Status:      string(l.Status),
		Trigger:     l.Trigger,
		Created:     l.CreatedCount,
		Updated:     l.UpdatedCount,
		Skipped:     l.SkippedCount,
		Deleted:     l.DeletedCount,
		Errors:      l.ErrorCount,
		ErrorDetail: l.ErrorDetail,
		StartedAt:   l.StartedAt,
		CompletedAt: l.CompletedAt,
	}
}
