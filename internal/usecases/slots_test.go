package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsFullDay(t *testing.T) {
	open, _ := ParseClock("09:00")
	close, _ := ParseClock("18:00")

	slots := GenerateSlots(open, close, 30, 30, nil)

	require.Len(t, slots, 18)
	assert.Equal(t, "09:00", FormatClock(slots[0]))
	assert.Equal(t, "17:30", FormatClock(slots[len(slots)-1]))
	for i := 1; i < len(slots); i++ {
		assert.Greater(t, slots[i], slots[i-1])
	}
}

func TestGenerateSlotsExcludesOccupied(t *testing.T) {
	open, _ := ParseClock("09:00")
	close, _ := ParseClock("18:00")
	tenAM, _ := ParseClock("10:00")

	slots := GenerateSlots(open, close, 30, 30, []Interval{{Start: tenAM, End: tenAM + 30}})

	assert.Len(t, slots, 17)
	for _, s := range slots {
		assert.NotEqual(t, tenAM, s)
	}
}

func TestGenerateSlotsLongServiceOverlapsNeighbors(t *testing.T) {
	open, _ := ParseClock("09:00")
	close, _ := ParseClock("12:00")
	tenAM, _ := ParseClock("10:00")

	// 60-minute service on a 30-minute grid. A booking at 10:00-10:30
	// knocks out both the 09:30 and the 10:00 start.
	slots := GenerateSlots(open, close, 30, 60, []Interval{{Start: tenAM, End: tenAM + 30}})

	formatted := make([]string, len(slots))
	for i, s := range slots {
		formatted[i] = FormatClock(s)
	}
	assert.Equal(t, []string{"09:00", "10:30", "11:00"}, formatted)
}

func TestGenerateSlotsTailDoesNotFit(t *testing.T) {
	open, _ := ParseClock("09:00")
	close, _ := ParseClock("10:15")

	// 10:00 start would end 10:30, past close, so only two slots remain.
	slots := GenerateSlots(open, close, 30, 30, nil)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:30", FormatClock(slots[1]))
}

func TestGenerateSlotsDegenerateInputs(t *testing.T) {
	assert.Empty(t, GenerateSlots(600, 540, 30, 30, nil), "close before open")
	assert.Empty(t, GenerateSlots(540, 600, 0, 30, nil), "zero slot duration")
	assert.Empty(t, GenerateSlots(540, 600, 30, 0, nil), "zero service duration")
	assert.Empty(t, GenerateSlots(540, 600, 30, 90, nil), "service longer than the day")
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	_, err = ParseClock("24:00")
	assert.Error(t, err)
	_, err = ParseClock("0930")
	assert.Error(t, err)
	_, err = ParseClock("09:61")
	assert.Error(t, err)
}

func TestFormatClockPadsZeroes(t *testing.T) {
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "00:00", FormatClock(0))
}
