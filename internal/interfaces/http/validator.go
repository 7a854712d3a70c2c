package http

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation constants
const (
	MaxUsernameLength = 64
	MaxNameLength     = 100
	MaxPhoneLength    = 30
	MaxReasonLength   = 255
)

var (
	slugPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phonePattern = regexp.MustCompile(`^\+?\d{6,20}$`)
)

// ValidSlug checks if a username is safe (alphanumeric + underscore + hyphen)
func ValidSlug(s string) bool {
	if s == "" || len(s) > MaxUsernameLength {
		return false
	}
	return slugPattern.MatchString(s)
}

// ValidDate checks the YYYY-MM-DD shape
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// ValidClock checks the zero-padded HH:MM shape
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ValidPhone checks a bare or +-prefixed number
func ValidPhone(s string) bool {
	if s == "" || len(s) > MaxPhoneLength {
		return false
	}
	return phonePattern.MatchString(s)
}

// ValidWorkingDays checks a comma list of weekday numbers 0-6
func ValidWorkingDays(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if len(part) != 1 || part[0] < '0' || part[0] > '6' {
			return false
		}
	}
	return true
}

// SanitizeString removes null bytes and control characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Keep only valid UTF-8
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}
