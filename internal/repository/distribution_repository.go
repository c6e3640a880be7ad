package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-plan-api/internal/models"
)

// DistributionRepository manages weekly templates and their leftovers.
type DistributionRepository struct {
	db *sqlx.DB
}

// NewDistributionRepository builds repository.
func NewDistributionRepository(db *sqlx.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

func (r *DistributionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// DeleteAll clears every weekly template before regeneration.
func (r *DistributionRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM unplaced_slots`); err != nil {
		return fmt.Errorf("clear unplaced slots: %w", err)
	}
	if _, err := target.ExecContext(ctx, `DELETE FROM weekly_distributions`); err != nil {
		return fmt.Errorf("clear weekly distributions: %w", err)
	}
	return nil
}

// InsertBatch stores generated templates.
func (r *DistributionRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, dists []models.WeeklyDistribution) error {
	if len(dists) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO weekly_distributions (id, load_spec_id, group_id, subject_id, parity, pair_count, slots, created_at, updated_at)
VALUES (:id, :load_spec_id, :group_id, :subject_id, :parity, :pair_count, :slots, :created_at, :updated_at)`

	for i := range dists {
		d := &dists[i]
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		d.CreatedAt = now
		d.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, d); err != nil {
			return fmt.Errorf("insert weekly distribution: %w", err)
		}
	}
	return nil
}

// InsertUnplaced stores slots the generator could not place.
func (r *DistributionRepository) InsertUnplaced(ctx context.Context, exec sqlx.ExtContext, slots []models.UnplacedSlot) error {
	if len(slots) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO unplaced_slots (id, distribution_id, load_spec_id, reason, created_at)
VALUES (:id, :distribution_id, :load_spec_id, :reason, :created_at)`

	for i := range slots {
		s := &slots[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, s); err != nil {
			return fmt.Errorf("insert unplaced slot: %w", err)
		}
	}
	return nil
}

const distributionSelect = `SELECT d.id, d.load_spec_id, d.group_id, d.subject_id, d.parity, d.pair_count, d.slots, d.created_at, d.updated_at
FROM weekly_distributions d
JOIN load_specs ls ON ls.id = d.load_spec_id`

// ListByParity returns the weekly template for one parity class in
// declared load order.
func (r *DistributionRepository) ListByParity(ctx context.Context, parity models.Parity) ([]models.WeeklyDistribution, error) {
	var dists []models.WeeklyDistribution
	query := distributionSelect + ` WHERE d.parity = $1 ORDER BY ls.position ASC`
	if err := r.db.SelectContext(ctx, &dists, query, parity); err != nil {
		return nil, fmt.Errorf("list distributions by parity: %w", err)
	}
	return dists, nil
}

// ListAll returns every weekly template in declared load order.
func (r *DistributionRepository) ListAll(ctx context.Context) ([]models.WeeklyDistribution, error) {
	var dists []models.WeeklyDistribution
	query := distributionSelect + ` ORDER BY ls.position ASC, d.parity ASC`
	if err := r.db.SelectContext(ctx, &dists, query); err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	return dists, nil
}
