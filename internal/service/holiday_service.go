package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	"github.com/noah-isme/college-plan-api/pkg/config"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

type holidayStore interface {
	Create(ctx context.Context, h models.Holiday) (*models.Holiday, error)
	List(ctx context.Context) ([]models.Holiday, error)
}

// HolidayService manages non-teaching periods and answers calendar
// questions such as a date's week parity.
type HolidayService struct {
	store     holidayStore
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.PlanningConfig
}

// NewHolidayService wires holiday dependencies.
func NewHolidayService(store holidayStore, validate *validator.Validate, logger *zap.Logger, cfg config.PlanningConfig) *HolidayService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidayService{store: store, validator: validate, logger: logger, cfg: cfg}
}

// Create registers a holiday period.
func (s *HolidayService) Create(ctx context.Context, req dto.CreateHolidayRequest) (*models.Holiday, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end date")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}
	return s.store.Create(ctx, models.Holiday{Name: req.Name, StartDate: start, EndDate: end})
}

// List returns all holiday periods.
func (s *HolidayService) List(ctx context.Context) ([]models.Holiday, error) {
	return s.store.List(ctx)
}

// DayInfo reports the parity and school-day status of one date.
func (s *HolidayService) DayInfo(ctx context.Context, dateStr string) (*dto.DayInfoResponse, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	_, schoolDay := DayIndex(date)
	info := &dto.DayInfoResponse{
		Date:      dateStr,
		Parity:    WeekParity(date, s.cfg.ParityBaseDate),
		SchoolDay: schoolDay,
	}
	holidays, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, h := range holidays {
		if h.Covers(date) {
			info.SchoolDay = false
			info.Holiday = h.Name
			break
		}
	}
	return info, nil
}
