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

// DayPlanRepository manages day plans, their entries and skip records.
type DayPlanRepository struct {
	db *sqlx.DB
}

// NewDayPlanRepository builds repository.
func NewDayPlanRepository(db *sqlx.DB) *DayPlanRepository {
	return &DayPlanRepository{db: db}
}

// DB exposes the handle for transaction control by services.
func (r *DayPlanRepository) DB() *sqlx.DB {
	return r.db
}

func (r *DayPlanRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// GetByDate returns the plan header for one date, or nil.
func (r *DayPlanRepository) GetByDate(ctx context.Context, date time.Time) (*models.DayPlan, error) {
	var plan models.DayPlan
	const query = `SELECT id, date, parity, status, created_at, updated_at FROM day_plans WHERE date = $1`
	if err := r.db.GetContext(ctx, &plan, query, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get day plan: %w", err)
	}
	return &plan, nil
}

// Get returns a plan header by ID.
func (r *DayPlanRepository) Get(ctx context.Context, id string) (*models.DayPlan, error) {
	var plan models.DayPlan
	const query = `SELECT id, date, parity, status, created_at, updated_at FROM day_plans WHERE id = $1`
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "day plan not found")
		}
		return nil, fmt.Errorf("get day plan: %w", err)
	}
	return &plan, nil
}

// Insert creates the plan header.
func (r *DayPlanRepository) Insert(ctx context.Context, exec sqlx.ExtContext, plan *models.DayPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	const query = `INSERT INTO day_plans (id, date, parity, status, created_at, updated_at)
VALUES (:id, :date, :parity, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, plan); err != nil {
		return fmt.Errorf("insert day plan: %w", err)
	}
	return nil
}

// SetStatus updates the plan lifecycle state.
func (r *DayPlanRepository) SetStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.DayPlanStatus) error {
	const query = `UPDATE day_plans SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("set day plan status: %w", err)
	}
	return nil
}

// DeleteWithEntries removes a plan and everything under it.
func (r *DayPlanRepository) DeleteWithEntries(ctx context.Context, exec sqlx.ExtContext, id string) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM skipped_slots WHERE day_plan_id = $1`, id); err != nil {
		return fmt.Errorf("delete skipped slots: %w", err)
	}
	if _, err := target.ExecContext(ctx, `DELETE FROM day_plan_entries WHERE day_plan_id = $1`, id); err != nil {
		return fmt.Errorf("delete day plan entries: %w", err)
	}
	if _, err := target.ExecContext(ctx, `DELETE FROM day_plans WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete day plan: %w", err)
	}
	return nil
}

const entryColumns = `id, day_plan_id, load_spec_id, group_id, subject_id, teacher_id, room_id, date, start_time, end_time, status, origin, is_override, created_at, updated_at`

// InsertEntries stores generated entries.
func (r *DayPlanRepository) InsertEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.DayPlanEntry) error {
	if len(entries) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO day_plan_entries (id, day_plan_id, load_spec_id, group_id, subject_id, teacher_id, room_id, date, start_time, end_time, status, origin, is_override, created_at, updated_at)
VALUES (:id, :day_plan_id, :load_spec_id, :group_id, :subject_id, :teacher_id, :room_id, :date, :start_time, :end_time, :status, :origin, :is_override, :created_at, :updated_at)`

	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		e.CreatedAt = now
		e.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, e); err != nil {
			return fmt.Errorf("insert day plan entry: %w", err)
		}
	}
	return nil
}

// ListEntries returns the entries of a plan ordered by start time and
// group.
func (r *DayPlanRepository) ListEntries(ctx context.Context, planID string) ([]models.DayPlanEntry, error) {
	var entries []models.DayPlanEntry
	query := `SELECT ` + entryColumns + ` FROM day_plan_entries WHERE day_plan_id = $1 ORDER BY start_time ASC, group_id ASC`
	if err := r.db.SelectContext(ctx, &entries, query, planID); err != nil {
		return nil, fmt.Errorf("list day plan entries: %w", err)
	}
	return entries, nil
}

// ListEntryDetails joins entries with catalog names for display.
func (r *DayPlanRepository) ListEntryDetails(ctx context.Context, planID string) ([]models.DayPlanEntryDetail, error) {
	var entries []models.DayPlanEntryDetail
	const query = `
SELECT e.id, e.day_plan_id, e.load_spec_id, e.group_id, e.subject_id, e.teacher_id, e.room_id,
       e.date, e.start_time, e.end_time, e.status, e.origin, e.is_override, e.created_at, e.updated_at,
       g.name AS group_name, s.name AS subject_name, t.name AS teacher_name, rm.name AS room_name, rm.kind AS room_kind
FROM day_plan_entries e
JOIN groups g ON g.id = e.group_id
JOIN subjects s ON s.id = e.subject_id
LEFT JOIN teachers t ON t.id = e.teacher_id
JOIN rooms rm ON rm.id = e.room_id
WHERE e.day_plan_id = $1
ORDER BY e.start_time ASC, g.name ASC`
	if err := r.db.SelectContext(ctx, &entries, query, planID); err != nil {
		return nil, fmt.Errorf("list day plan entry details: %w", err)
	}
	return entries, nil
}

// GetEntry returns one entry by ID.
func (r *DayPlanRepository) GetEntry(ctx context.Context, id string) (*models.DayPlanEntry, error) {
	var entry models.DayPlanEntry
	query := `SELECT ` + entryColumns + ` FROM day_plan_entries WHERE id = $1`
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "day plan entry not found")
		}
		return nil, fmt.Errorf("get day plan entry: %w", err)
	}
	return &entry, nil
}

// UpdateEntry persists new assignment fields of an entry.
func (r *DayPlanRepository) UpdateEntry(ctx context.Context, exec sqlx.ExtContext, e models.DayPlanEntry) error {
	const query = `
UPDATE day_plan_entries SET
    teacher_id = $2, room_id = $3, start_time = $4, end_time = $5,
    status = $6, is_override = $7, updated_at = $8
WHERE id = $1`
	res, err := r.exec(exec).ExecContext(ctx, query,
		e.ID, e.TeacherID, e.RoomID, e.StartTime, e.EndTime, e.Status, e.IsOverride, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update day plan entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "day plan entry not found")
	}
	return nil
}

// LookupEntries filters entries of one date by optional resources.
func (r *DayPlanRepository) LookupEntries(ctx context.Context, date time.Time, groupID, teacherID, roomID string) ([]models.DayPlanEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM day_plan_entries WHERE date = $1`
	args := []interface{}{date}
	if groupID != "" {
		args = append(args, groupID)
		query += fmt.Sprintf(" AND group_id = $%d", len(args))
	}
	if teacherID != "" {
		args = append(args, teacherID)
		query += fmt.Sprintf(" AND teacher_id = $%d", len(args))
	}
	if roomID != "" {
		args = append(args, roomID)
		query += fmt.Sprintf(" AND room_id = $%d", len(args))
	}
	query += " ORDER BY start_time ASC, group_id ASC"

	var entries []models.DayPlanEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("lookup day plan entries: %w", err)
	}
	return entries, nil
}

// InsertSkipped stores the slots the planner dropped.
func (r *DayPlanRepository) InsertSkipped(ctx context.Context, exec sqlx.ExtContext, slots []models.SkippedSlot) error {
	if len(slots) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO skipped_slots (id, day_plan_id, load_spec_id, group_id, start_time, reason, created_at)
VALUES (:id, :day_plan_id, :load_spec_id, :group_id, :start_time, :reason, :created_at)`

	for i := range slots {
		s := &slots[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, s); err != nil {
			return fmt.Errorf("insert skipped slot: %w", err)
		}
	}
	return nil
}

// ListSkipped returns the skip records of a plan.
func (r *DayPlanRepository) ListSkipped(ctx context.Context, planID string) ([]models.SkippedSlot, error) {
	var slots []models.SkippedSlot
	const query = `SELECT id, day_plan_id, load_spec_id, group_id, start_time, reason, created_at
FROM skipped_slots WHERE day_plan_id = $1 ORDER BY start_time ASC, group_id ASC`
	if err := r.db.SelectContext(ctx, &slots, query, planID); err != nil {
		return nil, fmt.Errorf("list skipped slots: %w", err)
	}
	return slots, nil
}
