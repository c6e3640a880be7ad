package service

import (
	"math"
	"time"

	"github.com/noah-isme/college-plan-api/internal/models"
)

// TimeSlot is one lesson position in a daily grid.
type TimeSlot struct {
	Start string
	End   string
}

// Morning grid for first and third course groups.
var shift1Slots = []TimeSlot{
	{Start: "08:00", End: "09:30"},
	{Start: "09:40", End: "11:10"},
	{Start: "11:20", End: "12:50"},
	{Start: "13:00", End: "14:30"},
}

// Afternoon grid for the remaining courses.
var shift2Slots = []TimeSlot{
	{Start: "13:25", End: "14:55"},
	{Start: "15:05", End: "16:35"},
	{Start: "16:50", End: "18:20"},
	{Start: "18:30", End: "20:00"},
}

// planningWeekdays covers Monday through Friday, index 0..4.
const planningWeekdays = 5

// WeekParity classifies the week containing d relative to the base
// date. Weeks run Monday through Sunday; the base date's week is even,
// the next one odd, alternating. Aligning both sides to their Monday
// keeps mid-week base dates in the calendar week they belong to.
func WeekParity(d, base time.Time) models.Parity {
	days := int(WeekStart(d).Sub(WeekStart(base)).Hours() / 24)
	if (days/7)%2 == 0 {
		return models.ParityEven
	}
	return models.ParityOdd
}

// PairsForWeek splits a weekly academic-hour load into whole pairs for
// one parity class. Loads without a remainder are parity-independent.
func PairsForWeek(weeklyAH float64, pref models.ParityPreference, parity models.Parity, pairSizeAH int) int {
	if weeklyAH <= 0 || pairSizeAH <= 0 {
		return 0
	}
	avg := weeklyAH / float64(pairSizeAH)
	if pref == models.ParityPreferenceBalanced || pref == "" {
		return int(math.Round(avg))
	}
	up := int(math.Ceil(avg))
	down := int(math.Floor(avg))
	heavy := models.ParityEven
	if pref == models.ParityPreferenceOdd {
		heavy = models.ParityOdd
	}
	if parity == heavy {
		return up
	}
	return down
}

// PairsFromHours converts a total academic-hour load into whole pairs.
// Annual totals cover two semesters, so only half belongs to the one
// being planned.
func PairsFromHours(totalAH float64, pairSizeAH int, annual bool) int {
	if totalAH <= 0 || pairSizeAH <= 0 {
		return 0
	}
	if annual {
		totalAH = totalAH / 2
	}
	return int(math.Ceil(totalAH / float64(pairSizeAH)))
}

// ParseCourseFromGroup extracts the course year from a group name such
// as "ИС-21" (first digit after the dash). Returns 0 when absent.
func ParseCourseFromGroup(name string) int {
	idx := -1
	for i, ch := range name {
		if ch == '-' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0
	}
	for _, ch := range name[idx+1:] {
		if ch >= '0' && ch <= '9' {
			return int(ch - '0')
		}
	}
	return 0
}

// SlotsForGroup picks the daily grid for a group. First and third
// course groups study in the morning shift, others in the afternoon.
func SlotsForGroup(groupName string, enableShifts bool) []TimeSlot {
	if !enableShifts {
		return shift1Slots
	}
	course := ParseCourseFromGroup(groupName)
	if course == 0 {
		course = 1
	}
	if course == 1 || course == 3 {
		return shift1Slots
	}
	return shift2Slots
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// DayIndex maps a date to its planning-week index, Monday 0 through
// Friday 4. Weekend dates report ok=false.
func DayIndex(d time.Time) (int, bool) {
	idx := (int(d.Weekday()) + 6) % 7
	if idx >= planningWeekdays {
		return 0, false
	}
	return idx, true
}
