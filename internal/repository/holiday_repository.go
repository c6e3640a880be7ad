package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-plan-api/internal/models"
)

// HolidayRepository manages holiday periods.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository builds repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// Create inserts a holiday period.
func (r *HolidayRepository) Create(ctx context.Context, h models.Holiday) (*models.Holiday, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	const query = `INSERT INTO holidays (id, name, start_date, end_date) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, h.ID, h.Name, h.StartDate, h.EndDate); err != nil {
		return nil, fmt.Errorf("create holiday: %w", err)
	}
	return &h, nil
}

// List returns all holiday periods ordered by start date.
func (r *HolidayRepository) List(ctx context.Context) ([]models.Holiday, error) {
	var out []models.Holiday
	const query = `SELECT id, name, start_date, end_date FROM holidays ORDER BY start_date ASC`
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return out, nil
}

// CoveringDate returns holidays containing the date.
func (r *HolidayRepository) CoveringDate(ctx context.Context, d time.Time) ([]models.Holiday, error) {
	var out []models.Holiday
	const query = `SELECT id, name, start_date, end_date FROM holidays WHERE start_date <= $1 AND end_date >= $1`
	if err := r.db.SelectContext(ctx, &out, query, d); err != nil {
		return nil, fmt.Errorf("holidays covering date: %w", err)
	}
	return out, nil
}
