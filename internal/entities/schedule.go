package entities

// SpecialSchedule overrides a tenant's hours for a single date. When
// IsClosed is set the date yields no availability; otherwise OpenTime and
// CloseTime replace the tenant defaults.
type SpecialSchedule struct {
	ID        int    `json:"id"`
	TenantID  int    `json:"tenant_id"`
	Date      string `json:"date"` // "YYYY-MM-DD"
	IsClosed  bool   `json:"is_closed"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	Reason    string `json:"reason"`
}
