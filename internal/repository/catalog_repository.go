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

// CatalogRepository manages groups, subjects, teachers and rooms.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository builds repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreateGroup inserts a group.
func (r *CatalogRepository) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	g := models.Group{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	const query = `INSERT INTO groups (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, g.ID, g.Name, g.CreatedAt); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return &g, nil
}

// ListGroups returns groups ordered by name.
func (r *CatalogRepository) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	const query = `SELECT id, name, created_at FROM groups ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// GetGroup returns one group by ID.
func (r *CatalogRepository) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	var g models.Group
	const query = `SELECT id, name, created_at FROM groups WHERE id = $1`
	if err := r.db.GetContext(ctx, &g, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &g, nil
}

// CreateSubject inserts a subject.
func (r *CatalogRepository) CreateSubject(ctx context.Context, name string) (*models.Subject, error) {
	s := models.Subject{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	const query = `INSERT INTO subjects (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.CreatedAt); err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	return &s, nil
}

// ListSubjects returns subjects ordered by name.
func (r *CatalogRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	const query = `SELECT id, name, created_at FROM subjects ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// CreateTeacher inserts a teacher.
func (r *CatalogRepository) CreateTeacher(ctx context.Context, name string) (*models.Teacher, error) {
	tch := models.Teacher{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	const query = `INSERT INTO teachers (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, tch.ID, tch.Name, tch.CreatedAt); err != nil {
		return nil, fmt.Errorf("create teacher: %w", err)
	}
	return &tch, nil
}

// ListTeachers returns teachers ordered by name.
func (r *CatalogRepository) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	const query = `SELECT id, name, created_at FROM teachers ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// CreateRoom inserts a room.
func (r *CatalogRepository) CreateRoom(ctx context.Context, name string, kind models.RoomKind, capacity int) (*models.Room, error) {
	if kind == "" {
		kind = models.RoomKindStandard
	}
	room := models.Room{ID: uuid.NewString(), Name: name, Kind: kind, Capacity: capacity, CreatedAt: time.Now().UTC()}
	const query = `INSERT INTO rooms (id, name, kind, capacity, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, room.ID, room.Name, room.Kind, room.Capacity, room.CreatedAt); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &room, nil
}

// ListRooms returns rooms ordered by name.
func (r *CatalogRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	const query = `SELECT id, name, kind, capacity, created_at FROM rooms ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// GetRoom returns one room by ID.
func (r *CatalogRepository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	const query = `SELECT id, name, kind, capacity, created_at FROM rooms WHERE id = $1`
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return &room, nil
}
