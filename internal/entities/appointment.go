package entities

import "time"

const (
	StatusPending      = "pending"
	StatusConfirmed    = "confirmed"
	StatusCompleted    = "completed"
	StatusCancelled    = "cancelled"
	StatusNotAvailable = "notavailable"
)

// NonTerminalStatuses are the statuses that occupy a slot and count
// against the per-client active appointment cap.
var NonTerminalStatuses = []string{StatusPending, StatusConfirmed}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNotAvailable:
		return true
	}
	return false
}

type Appointment struct {
	ID        int       `json:"id"`
	TenantID  int       `json:"tenant_id"`
	ClientID  int       `json:"client_id"`
	ServiceID int       `json:"service_id"`
	Date      string    `json:"date"` // "YYYY-MM-DD"
	Time      string    `json:"time"` // "HH:MM"
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AppointmentDetail is an appointment joined with its client and service
// for listings and dialog replies.
type AppointmentDetail struct {
	Appointment
	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	ServiceName string  `json:"service_name"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
}
