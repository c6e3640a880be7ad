package models

import "time"

// Holiday is a closed date range with no lessons.
type Holiday struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
}

// Covers reports whether d falls inside the holiday.
func (h Holiday) Covers(d time.Time) bool {
	return !d.Before(h.StartDate) && !d.After(h.EndDate)
}
