package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-plan-api/internal/models"
)

// ProgressRepository manages delivered-hour records.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository builds repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Insert stores one record.
func (r *ProgressRepository) Insert(ctx context.Context, exec sqlx.ExtContext, rec models.ProgressRecord) (*models.ProgressRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO progress_records (id, load_spec_id, hours, date, note, created_at)
VALUES (:id, :load_spec_id, :hours, :date, :note, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, rec); err != nil {
		return nil, fmt.Errorf("insert progress record: %w", err)
	}
	return &rec, nil
}

// ExistsByNote reports whether a record with the note already exists
// for the load spec. Approval uses this for idempotency.
func (r *ProgressRepository) ExistsByNote(ctx context.Context, exec sqlx.ExtContext, loadSpecID, note string) (bool, error) {
	var count int
	const query = `SELECT COUNT(1) FROM progress_records WHERE load_spec_id = $1 AND note = $2`
	if err := sqlx.GetContext(ctx, r.exec(exec), &count, query, loadSpecID, note); err != nil {
		return false, fmt.Errorf("check progress record: %w", err)
	}
	return count > 0, nil
}

// ListByLoadSpec returns a load row's records newest first.
func (r *ProgressRepository) ListByLoadSpec(ctx context.Context, loadSpecID string) ([]models.ProgressRecord, error) {
	var recs []models.ProgressRecord
	const query = `SELECT id, load_spec_id, hours, date, note, created_at
FROM progress_records WHERE load_spec_id = $1 ORDER BY date DESC, created_at DESC`
	if err := r.db.SelectContext(ctx, &recs, query, loadSpecID); err != nil {
		return nil, fmt.Errorf("list progress records: %w", err)
	}
	return recs, nil
}

// ListAll returns every record.
func (r *ProgressRepository) ListAll(ctx context.Context) ([]models.ProgressRecord, error) {
	var recs []models.ProgressRecord
	const query = `SELECT id, load_spec_id, hours, date, note, created_at FROM progress_records ORDER BY date DESC, created_at DESC`
	if err := r.db.SelectContext(ctx, &recs, query); err != nil {
		return nil, fmt.Errorf("list progress records: %w", err)
	}
	return recs, nil
}
