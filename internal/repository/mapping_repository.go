package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-plan-api/internal/models"
)

// MappingRepository manages group-teacher-subject links used to rank
// replacement candidates.
type MappingRepository struct {
	db *sqlx.DB
}

// NewMappingRepository builds repository.
func NewMappingRepository(db *sqlx.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// Create inserts a link, ignoring duplicates.
func (r *MappingRepository) Create(ctx context.Context, m models.GroupTeacherSubject) (*models.GroupTeacherSubject, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	const query = `
INSERT INTO group_teacher_subjects (id, group_id, teacher_id, subject_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (group_id, teacher_id, subject_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.GroupID, m.TeacherID, m.SubjectID); err != nil {
		return nil, fmt.Errorf("create mapping: %w", err)
	}
	return &m, nil
}

// Candidates lists teachers linked to the subject, those linked for
// the exact group first, then by name.
func (r *MappingRepository) Candidates(ctx context.Context, groupID, subjectID string) ([]models.ReplacementCandidate, error) {
	const query = `
SELECT m.teacher_id, t.name AS teacher_name, BOOL_OR(m.group_id = $1) AS exact_match
FROM group_teacher_subjects m
JOIN teachers t ON t.id = m.teacher_id
WHERE m.subject_id = $2
GROUP BY m.teacher_id, t.name
ORDER BY exact_match DESC, t.name ASC`
	var out []models.ReplacementCandidate
	if err := r.db.SelectContext(ctx, &out, query, groupID, subjectID); err != nil {
		return nil, fmt.Errorf("list candidate teachers: %w", err)
	}
	return out, nil
}

// ListByGroup returns a group's links.
func (r *MappingRepository) ListByGroup(ctx context.Context, groupID string) ([]models.GroupTeacherSubject, error) {
	var out []models.GroupTeacherSubject
	const query = `SELECT id, group_id, teacher_id, subject_id FROM group_teacher_subjects WHERE group_id = $1`
	if err := r.db.SelectContext(ctx, &out, query, groupID); err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return out, nil
}

// Delete removes a link.
func (r *MappingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM group_teacher_subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	return nil
}
