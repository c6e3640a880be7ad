package dto

import "github.com/noah-isme/college-plan-api/internal/models"

// PlanDayRequest builds (or rebuilds) the plan for one calendar date.
// GroupID narrows generation to one group; AutoVacantRemove fills
// vacant slots from the ranked candidate mapping while placing.
type PlanDayRequest struct {
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	GroupID          string `json:"groupId" validate:"omitempty"`
	Force            bool   `json:"force"`
	AutoVacantRemove bool   `json:"autoVacantRemove"`
}

// DayPlanView is the full materialised plan of one date.
type DayPlanView struct {
	ID      string                      `json:"id"`
	Date    string                      `json:"date"`
	Parity  models.Parity               `json:"parity"`
	Status  models.DayPlanStatus        `json:"status"`
	Entries []models.DayPlanEntryDetail `json:"entries"`
	Skipped []SkippedSlotView           `json:"skipped"`
	Diff    *models.DiffResult          `json:"diff,omitempty"`
}

// SkippedSlotView reports one template slot the planner dropped.
type SkippedSlotView struct {
	LoadSpecID string            `json:"loadSpecId"`
	GroupID    string            `json:"groupId"`
	StartTime  string            `json:"startTime"`
	Reason     models.SkipReason `json:"reason"`
}

// ApproveDayRequest finalises a day plan, or one group's share of it
// when GroupID is set.
type ApproveDayRequest struct {
	GroupID           string `json:"groupId" validate:"omitempty"`
	EnforceNoBlockers *bool  `json:"enforceNoBlockers"`
}

// ApproveDayResponse reports approval results including hour recording.
type ApproveDayResponse struct {
	DayPlanID       string                  `json:"dayPlanId"`
	Status          models.DayPlanStatus    `json:"status"`
	RecordedEntries int                     `json:"recordedEntries"`
	SkippedEntries  int                     `json:"skippedEntries"`
	Report          models.ValidationReport `json:"report"`
}

// UpdateEntryRequest edits one day-plan entry manually.
type UpdateEntryRequest struct {
	TeacherID *string `json:"teacherId" validate:"omitempty"`
	RoomID    *string `json:"roomId" validate:"omitempty"`
	StartTime *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

// BulkEntryUpdate is one item of a strict bulk update.
type BulkEntryUpdate struct {
	EntryID   string  `json:"entryId" validate:"required"`
	TeacherID *string `json:"teacherId" validate:"omitempty"`
	RoomID    *string `json:"roomId" validate:"omitempty"`
	StartTime *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

// BulkUpdateRequest applies several entry edits atomically.
type BulkUpdateRequest struct {
	Updates []BulkEntryUpdate `json:"updates" validate:"required,min=1,dive"`
}

// BulkItemResult reports the validation outcome for one bulk item.
type BulkItemResult struct {
	EntryID string `json:"entryId"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// BulkUpdateResponse itemises a strict bulk update. Applied is false
// whenever any item failed, in which case nothing was written.
type BulkUpdateResponse struct {
	Applied bool             `json:"applied"`
	Results []BulkItemResult `json:"results"`
}

// ReplaceTeacherRequest assigns a specific teacher to one entry.
type ReplaceTeacherRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
}

// ReplaceVacantAutoResponse reports automatic fills of vacant entries.
type ReplaceVacantAutoResponse struct {
	Filled    int                  `json:"filled"`
	Unfilled  int                  `json:"unfilled"`
	Decisions []VacantFillDecision `json:"decisions"`
}

// VacantFillDecision explains one vacant-entry resolution.
type VacantFillDecision struct {
	EntryID   string  `json:"entryId"`
	TeacherID *string `json:"teacherId,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// EntryLookupQuery filters day-plan entries.
type EntryLookupQuery struct {
	Date      string `form:"date" validate:"required,datetime=2006-01-02"`
	GroupID   string `form:"groupId" validate:"omitempty"`
	TeacherID string `form:"teacherId" validate:"omitempty"`
	RoomID    string `form:"roomId" validate:"omitempty"`
}
