package usecases

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a half-open occupied window [Start, End) in minutes since
// midnight.
type Interval struct {
	Start int
	End   int
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight to zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateSlots walks a cursor from open to close stepping by slotDuration
// and keeps every start whose service window [cursor, cursor+serviceDuration)
// fits before close and overlaps no occupied interval. Results come out in
// ascending order. Degenerate inputs yield an empty slice.
func GenerateSlots(open, close, slotDuration, serviceDuration int, occupied []Interval) []int {
	slots := []int{}
	if slotDuration <= 0 || serviceDuration <= 0 || open < 0 || close <= open {
		return slots
	}

	for cursor := open; cursor+serviceDuration <= close; cursor += slotDuration {
		end := cursor + serviceDuration
		free := true
		for _, occ := range occupied {
			if cursor < occ.End && end > occ.Start {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, cursor)
		}
	}
	return slots
}
