package models

import "time"

// RoomKind distinguishes rooms that admit parallel lessons.
type RoomKind string

const (
	RoomKindStandard RoomKind = "standard"
	RoomKindGym      RoomKind = "gym"
)

// Group is a student group, e.g. "ИС-21".
type Group struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Subject is a taught discipline.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Teacher is a lecturer. Vacant positions are represented by a nil
// teacher reference on entries, not by placeholder rows.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Room is a physical auditorium. Capacity counts parallel entries the
// room admits at one time slot; zero means the default for its kind.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Kind      RoomKind  `db:"kind" json:"kind"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EffectiveCapacity resolves the room's parallel-entry limit.
func (r Room) EffectiveCapacity(gymCapacity int) int {
	if r.Capacity > 0 {
		return r.Capacity
	}
	if r.Kind == RoomKindGym && gymCapacity > 0 {
		return gymCapacity
	}
	return 1
}

// GroupTeacherSubject records which teachers may take which subject for
// a group. Used to rank replacement candidates, never to hard-filter
// availability.
type GroupTeacherSubject struct {
	ID        string `db:"id" json:"id"`
	GroupID   string `db:"group_id" json:"group_id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}

// ReplacementCandidate is one ranked teacher for a vacant position.
// Exact group matches rank before subject-only matches, ties broken by
// name.
type ReplacementCandidate struct {
	TeacherID   string `db:"teacher_id" json:"teacher_id"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	ExactMatch  bool   `db:"exact_match" json:"exact_match"`
}
