package models

// IssueSeverity splits validation findings into approval blockers and
// advisory warnings.
type IssueSeverity string

const (
	SeverityBlocker IssueSeverity = "blocker"
	SeverityWarning IssueSeverity = "warning"
)

// Validation issue codes.
const (
	IssueTeacherConflict    = "teacher_conflict"
	IssueRoomCapacity       = "room_capacity"
	IssueGroupDuplicateSlot = "group_duplicate_slot"
	IssueUnknownTeacher     = "unknown_teacher"
	IssueGroupWindows       = "group_windows"
)

// ValidationIssue is one finding of the day-plan validator.
type ValidationIssue struct {
	Code     string        `json:"code"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
	EntryIDs []string      `json:"entry_ids,omitempty"`
	GroupID  string        `json:"group_id,omitempty"`
}

// ValidationReport is the full analysis of a single day plan.
type ValidationReport struct {
	Date       string            `json:"date"`
	Blockers   []ValidationIssue `json:"blockers"`
	Warnings   []ValidationIssue `json:"warnings"`
	CanApprove bool              `json:"can_approve"`
}

// DiffStatus classifies one diff line.
type DiffStatus string

const (
	DiffSame    DiffStatus = "same"
	DiffChanged DiffStatus = "changed"
	DiffAdded   DiffStatus = "added"
	DiffRemoved DiffStatus = "removed"
)

// DiffItem compares the entry occupying one (group, start_time) key in
// the day plan against the weekly reference.
type DiffItem struct {
	GroupID       string     `json:"group_id"`
	StartTime     string     `json:"start_time"`
	Status        DiffStatus `json:"status"`
	PlanEntryID   string     `json:"plan_entry_id,omitempty"`
	PlanTeacherID *string    `json:"plan_teacher_id,omitempty"`
	PlanRoomID    string     `json:"plan_room_id,omitempty"`
	PlanSubjectID string     `json:"plan_subject_id,omitempty"`
	RefTeacherID  *string    `json:"ref_teacher_id,omitempty"`
	RefRoomID     string     `json:"ref_room_id,omitempty"`
	RefSubjectID  string     `json:"ref_subject_id,omitempty"`
	ChangedFields []string   `json:"changed_fields,omitempty"`
}

// DiffCounters aggregates a diff result.
type DiffCounters struct {
	Same    int `json:"same"`
	Changed int `json:"changed"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// DiffResult is the day-versus-weekly comparison for one date.
// Counters aggregate the whole day, PerGroup one group each.
type DiffResult struct {
	Date     string                  `json:"date"`
	Parity   Parity                  `json:"parity"`
	Items    []DiffItem              `json:"items"`
	Counters DiffCounters            `json:"counters"`
	PerGroup map[string]DiffCounters `json:"per_group,omitempty"`
}
