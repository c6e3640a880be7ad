package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

type catalogStore interface {
	CreateGroup(ctx context.Context, name string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	CreateSubject(ctx context.Context, name string) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	CreateTeacher(ctx context.Context, name string) (*models.Teacher, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	CreateRoom(ctx context.Context, name string, kind models.RoomKind, capacity int) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
}

type mappingStore interface {
	Create(ctx context.Context, m models.GroupTeacherSubject) (*models.GroupTeacherSubject, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.GroupTeacherSubject, error)
	Delete(ctx context.Context, id string) error
}

// CatalogService manages the dictionaries behind planning.
type CatalogService struct {
	catalog   catalogStore
	mappings  mappingStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService wires catalog dependencies.
func NewCatalogService(catalog catalogStore, mappings mappingStore, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{catalog: catalog, mappings: mappings, validator: validate, logger: logger}
}

// CreateGroup registers a group.
func (s *CatalogService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest) (*models.Group, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.catalog.CreateGroup(ctx, req.Name)
}

// ListGroups returns every group.
func (s *CatalogService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.catalog.ListGroups(ctx)
}

// CreateSubject registers a subject.
func (s *CatalogService) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.catalog.CreateSubject(ctx, req.Name)
}

// ListSubjects returns every subject.
func (s *CatalogService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.catalog.ListSubjects(ctx)
}

// CreateTeacher registers a teacher.
func (s *CatalogService) CreateTeacher(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.catalog.CreateTeacher(ctx, req.Name)
}

// ListTeachers returns every teacher.
func (s *CatalogService) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	return s.catalog.ListTeachers(ctx)
}

// CreateRoom registers a room.
func (s *CatalogService) CreateRoom(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.catalog.CreateRoom(ctx, req.Name, models.RoomKind(req.Kind), req.Capacity)
}

// ListRooms returns every room.
func (s *CatalogService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.catalog.ListRooms(ctx)
}

// CreateMapping links a teacher to a (group, subject) pair.
func (s *CatalogService) CreateMapping(ctx context.Context, req dto.CreateMappingRequest) (*models.GroupTeacherSubject, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.mappings.Create(ctx, models.GroupTeacherSubject{
		GroupID:   req.GroupID,
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
	})
}

// ListMappings returns a group's teacher links.
func (s *CatalogService) ListMappings(ctx context.Context, groupID string) ([]models.GroupTeacherSubject, error) {
	return s.mappings.ListByGroup(ctx, groupID)
}

// DeleteMapping removes a teacher link.
func (s *CatalogService) DeleteMapping(ctx context.Context, id string) error {
	return s.mappings.Delete(ctx, id)
}
