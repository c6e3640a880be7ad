package dto

import "github.com/noah-isme/college-plan-api/internal/models"

// GenerateDistributionsRequest triggers weekly template regeneration.
type GenerateDistributionsRequest struct {
	Force bool `json:"force"`
}

// DistributionSummary reports one generated weekly template row.
type DistributionSummary struct {
	LoadSpecID string        `json:"loadSpecId"`
	GroupID    string        `json:"groupId"`
	SubjectID  string        `json:"subjectId"`
	Parity     models.Parity `json:"parity"`
	PairCount  int           `json:"pairCount"`
	Placed     int           `json:"placed"`
	Unplaced   int           `json:"unplaced"`
}

// GenerateDistributionsResponse summarises a weekly generation run.
type GenerateDistributionsResponse struct {
	Generated     int                   `json:"generated"`
	Distributions []DistributionSummary `json:"distributions"`
	Unplaced      []UnplacedSlotView    `json:"unplaced"`
}

// UnplacedSlotView reports one pair the generator could not place.
type UnplacedSlotView struct {
	LoadSpecID string `json:"loadSpecId"`
	GroupID    string `json:"groupId"`
	SubjectID  string `json:"subjectId"`
	Reason     string `json:"reason"`
}

// WeeklyTemplateQuery filters the weekly view by parity and group.
type WeeklyTemplateQuery struct {
	Parity  string `form:"parity" validate:"omitempty,oneof=even odd"`
	GroupID string `form:"groupId" validate:"omitempty"`
}

// CreateLoadSpecRequest registers one load row of the semester plan.
type CreateLoadSpecRequest struct {
	GroupID     string  `json:"groupId" validate:"required"`
	SubjectID   string  `json:"subjectId" validate:"required"`
	TeacherID   *string `json:"teacherId" validate:"omitempty"`
	RoomID      string  `json:"roomId" validate:"required"`
	TotalHours  float64 `json:"totalHours" validate:"required,gt=0"`
	WeeklyHours float64 `json:"weeklyHours" validate:"omitempty,gte=0"`
	Preference  string  `json:"parityPreference" validate:"omitempty,oneof=even_priority odd_priority balanced"`
}

// UpdateLoadSpecRequest amends a load row before planning starts.
type UpdateLoadSpecRequest struct {
	TeacherID   *string  `json:"teacherId" validate:"omitempty"`
	RoomID      *string  `json:"roomId" validate:"omitempty"`
	TotalHours  *float64 `json:"totalHours" validate:"omitempty,gt=0"`
	WeeklyHours *float64 `json:"weeklyHours" validate:"omitempty,gte=0"`
	Preference  *string  `json:"parityPreference" validate:"omitempty,oneof=even_priority odd_priority balanced"`
}
