package entities

type Service struct {
	ID          int     `json:"id"`
	TenantID    int     `json:"tenant_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Duration    int     `json:"duration"` // minutes
	Price       float64 `json:"price"`
	IsActive    bool    `json:"is_active"`
}
