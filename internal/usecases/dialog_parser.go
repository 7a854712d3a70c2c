package usecases

import (
	"strings"
	"time"

	"project_turnos/internal/entities"
)

var weekdayNames = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"miércoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
}

// ParseDateTime interprets a dialog answer of the form
// "<weekday|hoy|mañana> <HH:MM>". The weekday resolves to its next
// occurrence on or after today, minutes must be :00 or :30, and the
// resulting moment must lie in the future. Failures come back as
// ValidationError so the dialog re-prompts instead of advancing.
func ParseDateTime(input string, now time.Time) (date, timeOfDay string, err error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) != 2 {
		return "", "", entities.NewValidationError("fecha", "se espera dia y hora, por ejemplo: lunes 10:30")
	}

	day, err := resolveDay(fields[0], now)
	if err != nil {
		return "", "", err
	}

	minutes, err := ParseClock(fields[1])
	if err != nil {
		return "", "", entities.NewValidationError("hora", "formato de hora invalido, use HH:MM")
	}
	if minutes%60 != 0 && minutes%60 != 30 {
		return "", "", entities.NewValidationError("hora", "los turnos son en punto o y media")
	}

	moment := time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, now.Location())
	if !moment.After(now) {
		return "", "", entities.NewValidationError("fecha", "ese horario ya paso")
	}

	return day.Format("2006-01-02"), FormatClock(minutes), nil
}

func resolveDay(token string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch token {
	case "hoy":
		return today, nil
	case "mañana", "manana":
		return today.AddDate(0, 0, 1), nil
	}

	target, ok := weekdayNames[token]
	if !ok {
		return time.Time{}, entities.NewValidationError("fecha", "dia no reconocido, use hoy, mañana o un dia de la semana")
	}

	offset := (int(target) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, offset), nil
}
