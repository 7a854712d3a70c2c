package entities

import "time"

// Dialog steps. A booking walks select_service -> select_date ->
// confirm_name (skipped for known clients) -> final_confirmation.
type Step string

const (
	StepSelectService     Step = "select_service"
	StepSelectDate        Step = "select_date"
	StepConfirmName       Step = "confirm_name"
	StepFinalConfirmation Step = "final_confirmation"
	StepCancelSelection   Step = "awaiting_cancel_selection"
)

// DialogTTL is how long an idle dialog stays alive before the next
// message is treated as a fresh start.
const DialogTTL = 5 * time.Minute

// ConversationState is the accumulator of an in-flight dialog, keyed by
// (tenant, phone). At most one exists per identity.
type ConversationState struct {
	TenantID    int       `json:"tenant_id"`
	Phone       string    `json:"phone"`
	Step        Step      `json:"step"`
	ServiceID   int       `json:"service_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	ClientName  string    `json:"client_name"`
	LastTouched time.Time `json:"last_touched"`
}

// Expired reports whether the dialog sat idle for DialogTTL or longer.
func (s *ConversationState) Expired(now time.Time) bool {
	return now.Sub(s.LastTouched) >= DialogTTL
}

// Touch refreshes the idle timer.
func (s *ConversationState) Touch(now time.Time) {
	s.LastTouched = now
}
