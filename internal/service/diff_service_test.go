package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-plan-api/internal/models"
)

func strPtr(s string) *string { return &s }

func planEntry(id, groupID, subjectID, roomID, start string, teacherID *string) models.DayPlanEntry {
	return models.DayPlanEntry{
		ID:        id,
		GroupID:   groupID,
		SubjectID: subjectID,
		TeacherID: teacherID,
		RoomID:    roomID,
		StartTime: start,
		EndTime:   "09:30",
		Status:    models.EntryStatusPlanned,
		Origin:    models.EntryOriginDayPlan,
	}
}

func TestBuildDiffClassifiesAllFourStates(t *testing.T) {
	plan := []models.DayPlanEntry{
		planEntry("e1", "g1", "math", "r1", "08:00", strPtr("t1")),
		planEntry("e2", "g1", "phys", "r2", "09:40", strPtr("t2")),
		planEntry("e3", "g2", "chem", "r3", "08:00", strPtr("t3")),
	}
	ref := []ReferenceSlot{
		{GroupID: "g1", StartTime: "08:00", SubjectID: "math", RoomID: "r1", TeacherID: strPtr("t1")},
		{GroupID: "g1", StartTime: "09:40", SubjectID: "phys", RoomID: "r2", TeacherID: strPtr("t9")},
		{GroupID: "g2", StartTime: "11:20", SubjectID: "chem", RoomID: "r3", TeacherID: strPtr("t3")},
	}

	diff := BuildDiff("2025-12-23", models.ParityEven, plan, ref)

	require.Len(t, diff.Items, 4)
	assert.Equal(t, 1, diff.Counters.Same)
	assert.Equal(t, 1, diff.Counters.Changed)
	assert.Equal(t, 1, diff.Counters.Added)
	assert.Equal(t, 1, diff.Counters.Removed)

	byKey := make(map[string]models.DiffItem)
	for _, item := range diff.Items {
		byKey[item.GroupID+"@"+item.StartTime] = item
	}
	assert.Equal(t, models.DiffSame, byKey["g1@08:00"].Status)
	assert.Equal(t, models.DiffChanged, byKey["g1@09:40"].Status)
	assert.Equal(t, []string{"teacher"}, byKey["g1@09:40"].ChangedFields)
	assert.Equal(t, models.DiffAdded, byKey["g2@08:00"].Status)
	assert.Equal(t, models.DiffRemoved, byKey["g2@11:20"].Status)

	assert.Equal(t, models.DiffCounters{Same: 1, Changed: 1}, diff.PerGroup["g1"])
	assert.Equal(t, models.DiffCounters{Added: 1, Removed: 1}, diff.PerGroup["g2"])
}

func TestBuildDiffCountersSumToItems(t *testing.T) {
	plan := []models.DayPlanEntry{
		planEntry("e1", "g1", "math", "r1", "08:00", strPtr("t1")),
		planEntry("e2", "g2", "phys", "r2", "08:00", nil),
	}
	ref := []ReferenceSlot{
		{GroupID: "g1", StartTime: "08:00", SubjectID: "math", RoomID: "r1", TeacherID: strPtr("t1")},
		{GroupID: "g3", StartTime: "09:40", SubjectID: "hist", RoomID: "r4", TeacherID: strPtr("t4")},
	}

	diff := BuildDiff("2025-12-23", models.ParityEven, plan, ref)

	total := diff.Counters.Same + diff.Counters.Changed + diff.Counters.Added + diff.Counters.Removed
	assert.Equal(t, len(diff.Items), total)

	// per-group counters sum to the same total and to each group's items
	perGroupTotal := 0
	for groupID, c := range diff.PerGroup {
		sum := c.Same + c.Changed + c.Added + c.Removed
		items := 0
		for _, item := range diff.Items {
			if item.GroupID == groupID {
				items++
			}
		}
		assert.Equal(t, items, sum, groupID)
		perGroupTotal += sum
	}
	assert.Equal(t, total, perGroupTotal)
}

func TestBuildDiffVacantVersusAssignedTeacherIsChange(t *testing.T) {
	plan := []models.DayPlanEntry{
		planEntry("e1", "g1", "math", "r1", "08:00", nil),
	}
	ref := []ReferenceSlot{
		{GroupID: "g1", StartTime: "08:00", SubjectID: "math", RoomID: "r1", TeacherID: strPtr("t1")},
	}

	diff := BuildDiff("2025-12-23", models.ParityEven, plan, ref)

	require.Len(t, diff.Items, 1)
	assert.Equal(t, models.DiffChanged, diff.Items[0].Status)
	assert.Equal(t, []string{"teacher"}, diff.Items[0].ChangedFields)
}

func TestBuildDiffEmptyInputs(t *testing.T) {
	diff := BuildDiff("2025-12-23", models.ParityOdd, nil, nil)

	assert.Empty(t, diff.Items)
	assert.Equal(t, models.DiffCounters{}, diff.Counters)
}

func TestValidateDayPlanDetectsBlockers(t *testing.T) {
	entries := []models.DayPlanEntry{
		planEntry("e1", "g1", "math", "r1", "08:00", strPtr("t1")),
		planEntry("e2", "g2", "phys", "r2", "08:00", strPtr("t1")),
		planEntry("e3", "g3", "chem", "r3", "09:40", strPtr("t2")),
		planEntry("e4", "g4", "biol", "r3", "09:40", strPtr("t3")),
		planEntry("e5", "g5", "hist", "r5", "11:20", strPtr("t4")),
		planEntry("e6", "g5", "geog", "r6", "11:20", strPtr("t5")),
	}
	rules := PlanningRules{
		RoomCapacity:       map[string]int{"r3": 1},
		WindowGapThreshold: 10,
	}

	report := ValidateDayPlan("2025-12-23", entries, rules)

	require.Len(t, report.Blockers, 3)
	codes := []string{report.Blockers[0].Code, report.Blockers[1].Code, report.Blockers[2].Code}
	assert.Contains(t, codes, models.IssueTeacherConflict)
	assert.Contains(t, codes, models.IssueRoomCapacity)
	assert.Contains(t, codes, models.IssueGroupDuplicateSlot)
	assert.False(t, report.CanApprove)
}

func TestValidateDayPlanGymCapacityAllowsParallelLessons(t *testing.T) {
	entries := []models.DayPlanEntry{
		planEntry("e1", "g1", "pe", "gym", "08:00", strPtr("t1")),
		planEntry("e2", "g2", "pe", "gym", "08:00", strPtr("t2")),
		planEntry("e3", "g3", "pe", "gym", "08:00", strPtr("t3")),
	}
	rules := PlanningRules{
		RoomCapacity:       map[string]int{"gym": 4},
		WindowGapThreshold: 10,
	}

	report := ValidateDayPlan("2025-12-23", entries, rules)

	assert.Empty(t, report.Blockers)
	assert.True(t, report.CanApprove)
}

func TestValidateDayPlanWarnsOnVacantTeacher(t *testing.T) {
	entries := []models.DayPlanEntry{
		planEntry("e1", "g1", "math", "r1", "08:00", nil),
	}

	report := ValidateDayPlan("2025-12-23", entries, PlanningRules{WindowGapThreshold: 10})

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, models.IssueUnknownTeacher, report.Warnings[0].Code)
	assert.True(t, report.CanApprove, "warnings alone must not block approval")
}

func TestValidateDayPlanWarnsOnGroupWindows(t *testing.T) {
	// lessons in slots 0 and 3 leave two free slots in between
	entries := []models.DayPlanEntry{
		planEntry("e1", "g1", "math", "r1", "08:00", strPtr("t1")),
		planEntry("e2", "g1", "phys", "r2", "13:00", strPtr("t2")),
	}

	report := ValidateDayPlan("2025-12-23", entries, PlanningRules{WindowGapThreshold: 1})

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, models.IssueGroupWindows, report.Warnings[0].Code)

	relaxed := ValidateDayPlan("2025-12-23", entries, PlanningRules{WindowGapThreshold: 2})
	assert.Empty(t, relaxed.Warnings)
}

func TestValidateDayPlanCleanDay(t *testing.T) {
	entries := []models.DayPlanEntry{
		planEntry("e1", "g1", "math", "r1", "08:00", strPtr("t1")),
		planEntry("e2", "g1", "phys", "r2", "09:40", strPtr("t2")),
	}
	rules := PlanningRules{
		KnownTeachers:      map[string]struct{}{"t1": {}, "t2": {}},
		WindowGapThreshold: 1,
	}

	report := ValidateDayPlan("2025-12-23", entries, rules)

	assert.Empty(t, report.Blockers)
	assert.Empty(t, report.Warnings)
	assert.True(t, report.CanApprove)
}
