package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

type loadSpecStore interface {
	Create(ctx context.Context, spec models.LoadSpec) (*models.LoadSpec, error)
	Get(ctx context.Context, id string) (*models.LoadSpec, error)
	List(ctx context.Context) ([]models.LoadSpec, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.LoadSpec, error)
	Update(ctx context.Context, id string, teacherID *string, roomID *string, totalHours, weeklyHours *float64, preference *string) (*models.LoadSpec, error)
	Delete(ctx context.Context, id string) error
}

type roomReader interface {
	GetRoom(ctx context.Context, id string) (*models.Room, error)
}

// LoadSpecService is the validated ingestion boundary for semester
// load rows.
type LoadSpecService struct {
	specs     loadSpecStore
	rooms     roomReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLoadSpecService wires load spec dependencies.
func NewLoadSpecService(specs loadSpecStore, rooms roomReader, validate *validator.Validate, logger *zap.Logger) *LoadSpecService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadSpecService{specs: specs, rooms: rooms, validator: validate, logger: logger}
}

// Create registers one load row. The room kind is denormalised onto
// the row so generators never join for it.
func (s *LoadSpecService) Create(ctx context.Context, req dto.CreateLoadSpecRequest) (*models.LoadSpec, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	pref := models.ParityPreference(req.Preference)
	if pref == "" {
		pref = models.ParityPreferenceBalanced
	}
	return s.specs.Create(ctx, models.LoadSpec{
		GroupID:     req.GroupID,
		SubjectID:   req.SubjectID,
		TeacherID:   req.TeacherID,
		RoomID:      req.RoomID,
		TotalHours:  req.TotalHours,
		WeeklyHours: req.WeeklyHours,
		Preference:  pref,
		RoomKind:    room.Kind,
	})
}

// List returns every load row in declared order.
func (s *LoadSpecService) List(ctx context.Context) ([]models.LoadSpec, error) {
	return s.specs.List(ctx)
}

// Get returns one load row.
func (s *LoadSpecService) Get(ctx context.Context, id string) (*models.LoadSpec, error) {
	return s.specs.Get(ctx, id)
}

// Update amends a load row.
func (s *LoadSpecService) Update(ctx context.Context, id string, req dto.UpdateLoadSpecRequest) (*models.LoadSpec, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if req.RoomID != nil {
		if _, err := s.rooms.GetRoom(ctx, *req.RoomID); err != nil {
			return nil, err
		}
	}
	return s.specs.Update(ctx, id, req.TeacherID, req.RoomID, req.TotalHours, req.WeeklyHours, req.Preference)
}

// Delete removes a load row.
func (s *LoadSpecService) Delete(ctx context.Context, id string) error {
	return s.specs.Delete(ctx, id)
}
