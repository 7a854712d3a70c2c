package usecases

import (
	"testing"
	"time"

	"project_turnos/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Saturday 2026-08-29 at 12:00.
var parserNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func TestParseDateTimeToday(t *testing.T) {
	date, tm, err := ParseDateTime("hoy 15:30", parserNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", date)
	assert.Equal(t, "15:30", tm)
}

func TestParseDateTimeTomorrow(t *testing.T) {
	date, tm, err := ParseDateTime("mañana 09:00", parserNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", date)
	assert.Equal(t, "09:00", tm)
}

func TestParseDateTimeWeekdayResolvesForward(t *testing.T) {
	// Next Monday after Saturday the 29th is the 31st.
	date, _, err := ParseDateTime("lunes 10:30", parserNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", date)

	// Accent and case both accepted.
	date, _, err = ParseDateTime("MIÉRCOLES 10:00", parserNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-02", date)
}

func TestParseDateTimeSameWeekdayIsToday(t *testing.T) {
	date, _, err := ParseDateTime("sabado 15:00", parserNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", date)
}

func TestParseDateTimeRejectsPastMoment(t *testing.T) {
	_, _, err := ParseDateTime("hoy 10:00", parserNow)
	assert.True(t, entities.IsValidation(err))

	// Saturday noon exactly is not in the future either.
	_, _, err = ParseDateTime("hoy 12:00", parserNow)
	assert.True(t, entities.IsValidation(err))
}

func TestParseDateTimeRejectsMinuteGranularity(t *testing.T) {
	_, _, err := ParseDateTime("lunes 10:15", parserNow)
	assert.True(t, entities.IsValidation(err))
}

func TestParseDateTimeRejectsGarbage(t *testing.T) {
	cases := []string{"", "lunes", "10:30", "algun dia 10:30", "lunes veinte", "lunes 25:00"}
	for _, c := range cases {
		_, _, err := ParseDateTime(c, parserNow)
		assert.True(t, entities.IsValidation(err), "input %q", c)
	}
}
