package entities

import (
	"strconv"
	"strings"
)

type Tenant struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	BusinessPhone string `json:"business_phone"` // channel identity the bot answers as
	Address       string `json:"address"`
	OpenTime      string `json:"open_time"`  // "HH:MM"
	CloseTime     string `json:"close_time"` // "HH:MM"
	SlotDuration  int    `json:"slot_duration"` // minutes
	WorkingDays   string `json:"working_days"`  // e.g. "1,2,3,4,5", 0=Sunday
	TelegramToken string `json:"telegram_token"`
	WAEnabled     bool   `json:"wa_enabled"`
	IsActive      bool   `json:"is_active"`
}

// WorksOn reports whether weekday (0=Sunday..6=Saturday) is a working day.
func (t *Tenant) WorksOn(weekday int) bool {
	for _, part := range strings.Split(t.WorkingDays, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil && d == weekday {
			return true
		}
	}
	return false
}
