package dto

// LoginRequest is the admin dashboard login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SaveCredentialsRequest registers or updates a shop's storefront credentials
type SaveCredentialsRequest struct {
	ShopDomain    string `json:"shop_domain" binding:"required,max=255"`
	AccessToken   string `json:"access_token" binding:"required"`
	APIVersion    string `json:"api_version" binding:"omitempty,max=20"`
	WebhookSecret string `json:"webhook_secret" binding:"required"`
}

// ListRequest carries common pagination and sorting parameters
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search" binding:"omitempty,max=255"`
}

// Normalize applies defaults to unset pagination fields
func (r *ListRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = 20
	}
}

// IDRequest binds a UUID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// TenantScopedIDRequest binds a tenant ID plus a child resource ID
type TenantScopedIDRequest struct {
	TenantID string `uri:"id" binding:"required,uuid"`
	ChildID  string `uri:"childID" binding:"required,uuid"`
}

// CreateTimeslotRequest adds a slot to the weekly schedule
type CreateTimeslotRequest struct {
	Method     string `json:"method" binding:"required,oneof=DELIVERY COLLECTION"`
	DayOfWeek  int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	Capacity   int    `json:"capacity" binding:"min=0"`
	Express    bool   `json:"express"`
	ExpressFee string `json:"express_fee" binding:"omitempty"`
}

// UpdateTimeslotRequest edits a slot; absent fields are left unchanged
type UpdateTimeslotRequest struct {
	DayOfWeek  *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	Capacity   *int    `json:"capacity" binding:"omitempty,min=0"`
	Express    *bool   `json:"express"`
	ExpressFee *string `json:"express_fee"`
	Enabled    *bool   `json:"enabled"`
}

// BlockDateRequest removes a calendar date from booking
type BlockDateRequest struct {
	Date   string `json:"date" binding:"required,datetime=2006-01-02"`
	Method string `json:"method" binding:"omitempty,oneof=DELIVERY COLLECTION"`
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

// UpdateSettingsRequest replaces the tenant's booking settings
type UpdateSettingsRequest struct {
	DeliveryEnabled   bool   `json:"delivery_enabled"`
	CollectionEnabled bool   `json:"collection_enabled"`
	LeadTimeHours     int    `json:"lead_time_hours" binding:"min=0,max=720"`
	MaxAdvanceDays    int    `json:"max_advance_days" binding:"min=1,max=365"`
	CutoffTime        string `json:"cutoff_time" binding:"required"`
}

// CleanupRequest optionally overrides the active fee amounts for a cleanup
// run. With no body the currently configured fee set is authoritative.
type CleanupRequest struct {
	ActiveAmounts []string `json:"active_amounts"`
}

// RunsRequest carries the query parameters for the run history endpoint
type RunsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
