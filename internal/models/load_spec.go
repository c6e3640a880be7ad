package models

import "time"

// Parity classifies a calendar week relative to the configured base date.
type Parity string

const (
	ParityEven Parity = "even"
	ParityOdd  Parity = "odd"
)

// Opposite returns the other parity class.
func (p Parity) Opposite() Parity {
	if p == ParityEven {
		return ParityOdd
	}
	return ParityEven
}

// ParityPreference states where the extra pair of an uneven weekly load lands.
type ParityPreference string

const (
	ParityPreferenceEven     ParityPreference = "even_priority"
	ParityPreferenceOdd      ParityPreference = "odd_priority"
	ParityPreferenceBalanced ParityPreference = "balanced"
)

// LoadSpec is the immutable per-semester source of truth for one
// (group, subject, teacher) load row. TeacherID is nil for vacant
// positions awaiting assignment.
type LoadSpec struct {
	ID          string           `db:"id" json:"id"`
	GroupID     string           `db:"group_id" json:"group_id"`
	SubjectID   string           `db:"subject_id" json:"subject_id"`
	TeacherID   *string          `db:"teacher_id" json:"teacher_id,omitempty"`
	RoomID      string           `db:"room_id" json:"room_id"`
	TotalHours  float64          `db:"total_hours" json:"total_hours"`
	WeeklyHours float64          `db:"weekly_hours" json:"weekly_hours"`
	Preference  ParityPreference `db:"parity_preference" json:"parity_preference"`
	RoomKind    RoomKind         `db:"room_kind" json:"room_kind"`
	Position    int              `db:"position" json:"position"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
