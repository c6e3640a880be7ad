package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TemplateSlot is one placed pair inside a weekly template.
type TemplateSlot struct {
	Weekday   int     `json:"weekday"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	RoomID    string  `json:"room_id"`
	TeacherID *string `json:"teacher_id,omitempty"`
}

// WeeklyDistribution holds the computed pair counts and placed template
// for one load spec and one week parity. Slots is a JSON array of
// TemplateSlot.
type WeeklyDistribution struct {
	ID         string         `db:"id" json:"id"`
	LoadSpecID string         `db:"load_spec_id" json:"load_spec_id"`
	GroupID    string         `db:"group_id" json:"group_id"`
	SubjectID  string         `db:"subject_id" json:"subject_id"`
	Parity     Parity         `db:"parity" json:"parity"`
	PairCount  int            `db:"pair_count" json:"pair_count"`
	Slots      types.JSONText `db:"slots" json:"slots"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// UnplacedSlot records a pair the weekly generator could not place,
// together with the reason the last attempted position was rejected.
type UnplacedSlot struct {
	ID             string    `db:"id" json:"id"`
	DistributionID string    `db:"distribution_id" json:"distribution_id"`
	LoadSpecID     string    `db:"load_spec_id" json:"load_spec_id"`
	Reason         string    `db:"reason" json:"reason"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
