package models

import "time"

// ProgressRecord counts delivered hours against a load spec. Records
// created by day-plan approval carry a "day_entry:<id>" note so a
// second approval of the same day is a no-op.
type ProgressRecord struct {
	ID         string    `db:"id" json:"id"`
	LoadSpecID string    `db:"load_spec_id" json:"load_spec_id"`
	Hours      float64   `db:"hours" json:"hours"`
	Date       time.Time `db:"date" json:"date"`
	Note       string    `db:"note" json:"note"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ProgressSummary aggregates delivery against one load spec. Pair
// figures restate the hour figures in whole scheduled pairs, with
// annual totals already reduced to the semester share.
type ProgressSummary struct {
	LoadSpecID     string  `json:"load_spec_id"`
	GroupID        string  `json:"group_id"`
	SubjectID      string  `json:"subject_id"`
	TotalHours     float64 `json:"total_hours"`
	AssignedHours  float64 `json:"assigned_hours"`
	ManualHours    float64 `json:"manual_hours"`
	EffectiveHours float64 `json:"effective_hours"`
	RemainingHours float64 `json:"remaining_hours"`
	TotalPairs     int     `json:"total_pairs"`
	CompletedPairs int     `json:"completed_pairs"`
	RemainingPairs int     `json:"remaining_pairs"`
}
