package service

import (
	"fmt"
	"sort"

	"github.com/noah-isme/college-plan-api/internal/models"
)

// ReferenceSlot is one weekly-template position materialised for a
// concrete date, used as the baseline of a diff.
type ReferenceSlot struct {
	GroupID   string
	StartTime string
	SubjectID string
	RoomID    string
	TeacherID *string
}

type diffKey struct {
	GroupID   string
	StartTime string
}

// BuildDiff compares a day plan against its weekly reference. Lines
// are keyed by (group, start time); every key present on either side
// yields exactly one line, so the counters always sum to the item
// count, globally and per group. When duplicates share a key the first
// one in input order is compared and the rest are left to the
// validator.
func BuildDiff(date string, parity models.Parity, plan []models.DayPlanEntry, ref []ReferenceSlot) models.DiffResult {
	planByKey := make(map[diffKey]models.DayPlanEntry)
	for _, e := range plan {
		k := diffKey{GroupID: e.GroupID, StartTime: e.StartTime}
		if _, ok := planByKey[k]; !ok {
			planByKey[k] = e
		}
	}
	refByKey := make(map[diffKey]ReferenceSlot)
	for _, r := range ref {
		k := diffKey{GroupID: r.GroupID, StartTime: r.StartTime}
		if _, ok := refByKey[k]; !ok {
			refByKey[k] = r
		}
	}

	keys := make([]diffKey, 0, len(planByKey)+len(refByKey))
	seen := make(map[diffKey]struct{})
	for k := range planByKey {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range refByKey {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].StartTime != keys[j].StartTime {
			return keys[i].StartTime < keys[j].StartTime
		}
		return keys[i].GroupID < keys[j].GroupID
	})

	result := models.DiffResult{Date: date, Parity: parity, PerGroup: make(map[string]models.DiffCounters)}
	for _, k := range keys {
		item := models.DiffItem{GroupID: k.GroupID, StartTime: k.StartTime}
		planEntry, inPlan := planByKey[k]
		refSlot, inRef := refByKey[k]
		group := result.PerGroup[k.GroupID]

		switch {
		case inPlan && inRef:
			item.PlanEntryID = planEntry.ID
			item.PlanTeacherID = planEntry.TeacherID
			item.PlanRoomID = planEntry.RoomID
			item.PlanSubjectID = planEntry.SubjectID
			item.RefTeacherID = refSlot.TeacherID
			item.RefRoomID = refSlot.RoomID
			item.RefSubjectID = refSlot.SubjectID
			item.ChangedFields = changedFields(planEntry, refSlot)
			if len(item.ChangedFields) == 0 {
				item.Status = models.DiffSame
				result.Counters.Same++
				group.Same++
			} else {
				item.Status = models.DiffChanged
				result.Counters.Changed++
				group.Changed++
			}
		case inPlan:
			item.Status = models.DiffAdded
			item.PlanEntryID = planEntry.ID
			item.PlanTeacherID = planEntry.TeacherID
			item.PlanRoomID = planEntry.RoomID
			item.PlanSubjectID = planEntry.SubjectID
			result.Counters.Added++
			group.Added++
		default:
			item.Status = models.DiffRemoved
			item.RefTeacherID = refSlot.TeacherID
			item.RefRoomID = refSlot.RoomID
			item.RefSubjectID = refSlot.SubjectID
			result.Counters.Removed++
			group.Removed++
		}
		result.PerGroup[k.GroupID] = group
		result.Items = append(result.Items, item)
	}
	return result
}

func changedFields(e models.DayPlanEntry, r ReferenceSlot) []string {
	var fields []string
	if e.SubjectID != r.SubjectID {
		fields = append(fields, "subject")
	}
	if !teacherEqual(e.TeacherID, r.TeacherID) {
		fields = append(fields, "teacher")
	}
	if e.RoomID != r.RoomID {
		fields = append(fields, "room")
	}
	return fields
}

func teacherEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// PlanningRules carries the catalog facts the validator needs.
type PlanningRules struct {
	RoomCapacity       map[string]int
	KnownTeachers      map[string]struct{}
	WindowGapThreshold int
}

// ValidateDayPlan inspects a day's entries and classifies every
// finding as a blocker or a warning. Approval is possible exactly when
// no blockers exist.
func ValidateDayPlan(date string, entries []models.DayPlanEntry, rules PlanningRules) models.ValidationReport {
	report := models.ValidationReport{
		Date:     date,
		Blockers: []models.ValidationIssue{},
		Warnings: []models.ValidationIssue{},
	}

	teacherSlots := make(map[slotKey][]string)
	roomSlots := make(map[slotKey][]string)
	groupSlots := make(map[slotKey][]string)
	for _, e := range entries {
		if e.TeacherID != nil {
			k := slotKey{ID: *e.TeacherID, Start: e.StartTime}
			teacherSlots[k] = append(teacherSlots[k], e.ID)
		}
		rk := slotKey{ID: e.RoomID, Start: e.StartTime}
		roomSlots[rk] = append(roomSlots[rk], e.ID)
		gk := slotKey{ID: e.GroupID, Start: e.StartTime}
		groupSlots[gk] = append(groupSlots[gk], e.ID)
	}

	for _, k := range sortedSlotKeys(teacherSlots) {
		ids := teacherSlots[k]
		if len(ids) > 1 {
			report.Blockers = append(report.Blockers, models.ValidationIssue{
				Code:     models.IssueTeacherConflict,
				Severity: models.SeverityBlocker,
				Message:  fmt.Sprintf("teacher %s has %d lessons at %s", k.ID, len(ids), k.Start),
				EntryIDs: ids,
			})
		}
	}
	for _, k := range sortedSlotKeys(roomSlots) {
		ids := roomSlots[k]
		capacity := rules.RoomCapacity[k.ID]
		if capacity < 1 {
			capacity = 1
		}
		if len(ids) > capacity {
			report.Blockers = append(report.Blockers, models.ValidationIssue{
				Code:     models.IssueRoomCapacity,
				Severity: models.SeverityBlocker,
				Message:  fmt.Sprintf("room %s holds %d lessons at %s, capacity %d", k.ID, len(ids), k.Start, capacity),
				EntryIDs: ids,
			})
		}
	}
	for _, k := range sortedSlotKeys(groupSlots) {
		ids := groupSlots[k]
		if len(ids) > 1 {
			report.Blockers = append(report.Blockers, models.ValidationIssue{
				Code:     models.IssueGroupDuplicateSlot,
				Severity: models.SeverityBlocker,
				Message:  fmt.Sprintf("group %s has %d lessons at %s", k.ID, len(ids), k.Start),
				EntryIDs: ids,
				GroupID:  k.ID,
			})
		}
	}

	report.Warnings = append(report.Warnings, vacantTeacherWarnings(entries, rules.KnownTeachers)...)
	report.Warnings = append(report.Warnings, groupWindowWarnings(entries, rules.WindowGapThreshold)...)

	report.CanApprove = len(report.Blockers) == 0
	return report
}

func vacantTeacherWarnings(entries []models.DayPlanEntry, known map[string]struct{}) []models.ValidationIssue {
	var issues []models.ValidationIssue
	for _, e := range entries {
		if e.TeacherID == nil {
			issues = append(issues, models.ValidationIssue{
				Code:     models.IssueUnknownTeacher,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("entry at %s for group %s has no teacher assigned", e.StartTime, e.GroupID),
				EntryIDs: []string{e.ID},
				GroupID:  e.GroupID,
			})
			continue
		}
		if known != nil {
			if _, ok := known[*e.TeacherID]; !ok {
				issues = append(issues, models.ValidationIssue{
					Code:     models.IssueUnknownTeacher,
					Severity: models.SeverityWarning,
					Message:  fmt.Sprintf("entry at %s references unknown teacher %s", e.StartTime, *e.TeacherID),
					EntryIDs: []string{e.ID},
					GroupID:  e.GroupID,
				})
			}
		}
	}
	return issues
}

// groupWindowWarnings flags groups whose day has more free slots
// between lessons than the threshold allows. Slot positions come from
// the group's own start times ranked within the daily grid.
func groupWindowWarnings(entries []models.DayPlanEntry, threshold int) []models.ValidationIssue {
	if threshold < 0 {
		return nil
	}
	positions := slotPositions()

	byGroup := make(map[string][]int)
	for _, e := range entries {
		pos, ok := positions[e.StartTime]
		if !ok {
			continue
		}
		byGroup[e.GroupID] = append(byGroup[e.GroupID], pos)
	}

	groupIDs := make([]string, 0, len(byGroup))
	for id := range byGroup {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)

	var issues []models.ValidationIssue
	for _, id := range groupIDs {
		ords := byGroup[id]
		sort.Ints(ords)
		gaps := 0
		for i := 1; i < len(ords); i++ {
			if d := ords[i] - ords[i-1] - 1; d > 0 {
				gaps += d
			}
		}
		if gaps > threshold {
			issues = append(issues, models.ValidationIssue{
				Code:     models.IssueGroupWindows,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("group %s has %d free slots between lessons", id, gaps),
				GroupID:  id,
			})
		}
	}
	return issues
}

// slotPositions ranks every known start time within its shift grid.
func slotPositions() map[string]int {
	out := make(map[string]int, len(shift1Slots)+len(shift2Slots))
	for i, s := range shift1Slots {
		out[s.Start] = i
	}
	for i, s := range shift2Slots {
		out[s.Start] = i
	}
	return out
}

func sortedSlotKeys(m map[slotKey][]string) []slotKey {
	keys := make([]slotKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Start != keys[j].Start {
			return keys[i].Start < keys[j].Start
		}
		return keys[i].ID < keys[j].ID
	})
	return keys
}
