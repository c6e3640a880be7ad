package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-plan-api/internal/models"
)

func TestWeekParityAlternatesFromBase(t *testing.T) {
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, models.ParityEven, WeekParity(base, base))
	assert.Equal(t, models.ParityEven, WeekParity(base.AddDate(0, 0, 4), base))
	assert.Equal(t, models.ParityOdd, WeekParity(base.AddDate(0, 0, 7), base))
	assert.Equal(t, models.ParityOdd, WeekParity(base.AddDate(0, 0, 13), base))
	assert.Equal(t, models.ParityEven, WeekParity(base.AddDate(0, 0, 14), base))
}

func TestWeekParityBeforeBase(t *testing.T) {
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, models.ParityOdd, WeekParity(base.AddDate(0, 0, -1), base))
	assert.Equal(t, models.ParityOdd, WeekParity(base.AddDate(0, 0, -7), base))
	assert.Equal(t, models.ParityEven, WeekParity(base.AddDate(0, 0, -8), base))
}

func TestWeekParityMidWeekBaseCoversWholeWeek(t *testing.T) {
	// Wednesday base; its whole Monday-to-Sunday week is even
	base := time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, models.ParityEven, WeekParity(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), base))
	assert.Equal(t, models.ParityEven, WeekParity(time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC), base))
	assert.Equal(t, models.ParityOdd, WeekParity(time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC), base))
	assert.Equal(t, models.ParityEven, WeekParity(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), base))
}

func TestPairsForWeekEvenPriority(t *testing.T) {
	even := PairsForWeek(5, models.ParityPreferenceEven, models.ParityEven, 2)
	odd := PairsForWeek(5, models.ParityPreferenceEven, models.ParityOdd, 2)

	assert.Equal(t, 3, even)
	assert.Equal(t, 2, odd)
}

func TestPairsForWeekOddPrioritySingleHour(t *testing.T) {
	odd := PairsForWeek(1, models.ParityPreferenceOdd, models.ParityOdd, 2)
	even := PairsForWeek(1, models.ParityPreferenceOdd, models.ParityEven, 2)

	assert.Equal(t, 1, odd)
	assert.Equal(t, 0, even)
}

func TestPairsForWeekNoRemainderIsParityIndependent(t *testing.T) {
	for _, pref := range []models.ParityPreference{
		models.ParityPreferenceEven,
		models.ParityPreferenceOdd,
		models.ParityPreferenceBalanced,
	} {
		assert.Equal(t, 2, PairsForWeek(4, pref, models.ParityEven, 2))
		assert.Equal(t, 2, PairsForWeek(4, pref, models.ParityOdd, 2))
	}
}

func TestPairsForWeekZeroAndNegativeLoads(t *testing.T) {
	assert.Equal(t, 0, PairsForWeek(0, models.ParityPreferenceEven, models.ParityEven, 2))
	assert.Equal(t, 0, PairsForWeek(-3, models.ParityPreferenceOdd, models.ParityOdd, 2))
	assert.Equal(t, 0, PairsForWeek(4, models.ParityPreferenceEven, models.ParityEven, 0))
}

func TestPairsFromHours(t *testing.T) {
	assert.Equal(t, 45, PairsFromHours(90, 2, false))
	assert.Equal(t, 46, PairsFromHours(91, 2, false))
	assert.Equal(t, 23, PairsFromHours(90, 2, true))
	assert.Equal(t, 0, PairsFromHours(0, 2, false))
}

func TestParseCourseFromGroup(t *testing.T) {
	assert.Equal(t, 2, ParseCourseFromGroup("ИС-21"))
	assert.Equal(t, 1, ParseCourseFromGroup("ПО-11"))
	assert.Equal(t, 3, ParseCourseFromGroup("ВТ-3А"))
	assert.Equal(t, 0, ParseCourseFromGroup("NoDash"))
	assert.Equal(t, 0, ParseCourseFromGroup("АБ-"))
}

func TestSlotsForGroupShiftRouting(t *testing.T) {
	morning := SlotsForGroup("ИС-11", true)
	afternoon := SlotsForGroup("ИС-21", true)
	third := SlotsForGroup("ИС-31", true)

	require.NotEmpty(t, morning)
	assert.Equal(t, "08:00", morning[0].Start)
	assert.Equal(t, "13:25", afternoon[0].Start)
	assert.Equal(t, "08:00", third[0].Start)

	disabled := SlotsForGroup("ИС-21", false)
	assert.Equal(t, "08:00", disabled[0].Start)
}

func TestDayIndex(t *testing.T) {
	monday := time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC)

	idx, ok := DayIndex(monday)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = DayIndex(monday.AddDate(0, 0, 4))
	require.True(t, ok)
	assert.Equal(t, 4, idx)

	_, ok = DayIndex(monday.AddDate(0, 0, 5))
	assert.False(t, ok)
}

func TestWeekStart(t *testing.T) {
	wednesday := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, WeekStart(wednesday))
	assert.Equal(t, monday, WeekStart(sunday))
	assert.Equal(t, monday, WeekStart(monday))
}
