package entities

type Admin struct {
	ID           int    `json:"id"`
	TenantID     int    `json:"tenant_id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
}
