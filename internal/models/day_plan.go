package models

import "time"

// DayPlanStatus tracks the lifecycle of one planned calendar day.
type DayPlanStatus string

const (
	DayPlanStatusDraft    DayPlanStatus = "draft"
	DayPlanStatusApproved DayPlanStatus = "approved"
)

// EntryStatus tracks the lifecycle of one lesson entry within a day plan.
type EntryStatus string

const (
	EntryStatusPlanned        EntryStatus = "planned"
	EntryStatusPending        EntryStatus = "pending"
	EntryStatusApproved       EntryStatus = "approved"
	EntryStatusReplacedManual EntryStatus = "replaced_manual"
	EntryStatusReplacedAuto   EntryStatus = "replaced_auto"
)

// EntryOrigin states where an entry came from.
type EntryOrigin string

const (
	EntryOriginDayPlan EntryOrigin = "day_plan"
	EntryOriginWeekly  EntryOrigin = "weekly"
)

// DayPlan is the header row for one calendar day of one planning run.
type DayPlan struct {
	ID        string        `db:"id" json:"id"`
	Date      time.Time     `db:"date" json:"date"`
	Parity    Parity        `db:"parity" json:"parity"`
	Status    DayPlanStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// DayPlanEntry is one concrete lesson on a concrete date. TeacherID is
// nil while the position is vacant.
type DayPlanEntry struct {
	ID         string      `db:"id" json:"id"`
	DayPlanID  string      `db:"day_plan_id" json:"day_plan_id"`
	LoadSpecID string      `db:"load_spec_id" json:"load_spec_id"`
	GroupID    string      `db:"group_id" json:"group_id"`
	SubjectID  string      `db:"subject_id" json:"subject_id"`
	TeacherID  *string     `db:"teacher_id" json:"teacher_id,omitempty"`
	RoomID     string      `db:"room_id" json:"room_id"`
	Date       time.Time   `db:"date" json:"date"`
	StartTime  string      `db:"start_time" json:"start_time"`
	EndTime    string      `db:"end_time" json:"end_time"`
	Status     EntryStatus `db:"status" json:"status"`
	Origin     EntryOrigin `db:"origin" json:"origin"`
	IsOverride bool        `db:"is_override" json:"is_override"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// DayPlanEntryDetail joins the entry with its catalog names for display.
type DayPlanEntryDetail struct {
	DayPlanEntry
	GroupName   string  `db:"group_name" json:"group_name"`
	SubjectName string  `db:"subject_name" json:"subject_name"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
	RoomName    string  `db:"room_name" json:"room_name"`
	RoomKind    string  `db:"room_kind" json:"room_kind"`
}

// SkipReason explains why the day planner dropped a template slot.
type SkipReason string

const (
	SkipTeacherUnavailable SkipReason = "teacher_unavailable"
	SkipRoomBusy           SkipReason = "room_busy"
	SkipGroupBusy          SkipReason = "group_busy"
	SkipCapacityExceeded   SkipReason = "capacity_exceeded"
	SkipDailyMaxExceeded   SkipReason = "daily_max_exceeded"
)

// SkippedSlot records one dropped template slot for a day plan.
type SkippedSlot struct {
	ID         string     `db:"id" json:"id"`
	DayPlanID  string     `db:"day_plan_id" json:"day_plan_id"`
	LoadSpecID string     `db:"load_spec_id" json:"load_spec_id"`
	GroupID    string     `db:"group_id" json:"group_id"`
	StartTime  string     `db:"start_time" json:"start_time"`
	Reason     SkipReason `db:"reason" json:"reason"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
