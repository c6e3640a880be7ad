package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-plan-api/internal/models"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

// LoadSpecRepository manages semester load rows.
type LoadSpecRepository struct {
	db *sqlx.DB
}

// NewLoadSpecRepository builds repository.
func NewLoadSpecRepository(db *sqlx.DB) *LoadSpecRepository {
	return &LoadSpecRepository{db: db}
}

const loadSpecColumns = `id, group_id, subject_id, teacher_id, room_id, total_hours, weekly_hours, parity_preference, room_kind, position, created_at`

// Create inserts a load row at the next declared position.
func (r *LoadSpecRepository) Create(ctx context.Context, spec models.LoadSpec) (*models.LoadSpec, error) {
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}
	if spec.Preference == "" {
		spec.Preference = models.ParityPreferenceBalanced
	}
	spec.CreatedAt = time.Now().UTC()

	const query = `
INSERT INTO load_specs (id, group_id, subject_id, teacher_id, room_id, total_hours, weekly_hours, parity_preference, room_kind, position, created_at)
VALUES (:id, :group_id, :subject_id, :teacher_id, :room_id, :total_hours, :weekly_hours, :parity_preference, :room_kind,
        (SELECT COALESCE(MAX(position), 0) + 1 FROM load_specs), :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, spec); err != nil {
		return nil, fmt.Errorf("create load spec: %w", err)
	}
	return r.Get(ctx, spec.ID)
}

// Get returns one load row.
func (r *LoadSpecRepository) Get(ctx context.Context, id string) (*models.LoadSpec, error) {
	var spec models.LoadSpec
	query := `SELECT ` + loadSpecColumns + ` FROM load_specs WHERE id = $1`
	if err := r.db.GetContext(ctx, &spec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "load spec not found")
		}
		return nil, fmt.Errorf("get load spec: %w", err)
	}
	return &spec, nil
}

// List returns all load rows in declared order.
func (r *LoadSpecRepository) List(ctx context.Context) ([]models.LoadSpec, error) {
	var specs []models.LoadSpec
	query := `SELECT ` + loadSpecColumns + ` FROM load_specs ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &specs, query); err != nil {
		return nil, fmt.Errorf("list load specs: %w", err)
	}
	return specs, nil
}

// ListByGroup returns a group's load rows in declared order.
func (r *LoadSpecRepository) ListByGroup(ctx context.Context, groupID string) ([]models.LoadSpec, error) {
	var specs []models.LoadSpec
	query := `SELECT ` + loadSpecColumns + ` FROM load_specs WHERE group_id = $1 ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &specs, query, groupID); err != nil {
		return nil, fmt.Errorf("list load specs by group: %w", err)
	}
	return specs, nil
}

// Update applies non-nil fields of the patch.
func (r *LoadSpecRepository) Update(ctx context.Context, id string, teacherID *string, roomID *string, totalHours, weeklyHours *float64, preference *string) (*models.LoadSpec, error) {
	const query = `
UPDATE load_specs SET
    teacher_id = COALESCE($2, teacher_id),
    room_id = COALESCE($3, room_id),
    total_hours = COALESCE($4, total_hours),
    weekly_hours = COALESCE($5, weekly_hours),
    parity_preference = COALESCE($6, parity_preference)
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, teacherID, roomID, totalHours, weeklyHours, preference)
	if err != nil {
		return nil, fmt.Errorf("update load spec: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "load spec not found")
	}
	return r.Get(ctx, id)
}

// Delete removes a load row.
func (r *LoadSpecRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM load_specs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete load spec: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "load spec not found")
	}
	return nil
}

// SetTeacher assigns a teacher within a transaction when exec is given.
func (r *LoadSpecRepository) SetTeacher(ctx context.Context, exec sqlx.ExtContext, id string, teacherID string) error {
	target := sqlx.ExtContext(r.db)
	if exec != nil {
		target = exec
	}
	if _, err := target.ExecContext(ctx, `UPDATE load_specs SET teacher_id = $2 WHERE id = $1`, id, teacherID); err != nil {
		return fmt.Errorf("set load spec teacher: %w", err)
	}
	return nil
}
