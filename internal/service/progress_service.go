package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	"github.com/noah-isme/college-plan-api/pkg/config"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

const dayEntryNotePrefix = "day_entry:"

type progressReader interface {
	ListByLoadSpec(ctx context.Context, loadSpecID string) ([]models.ProgressRecord, error)
	ListAll(ctx context.Context) ([]models.ProgressRecord, error)
}

type progressLoadSpecReader interface {
	List(ctx context.Context) ([]models.LoadSpec, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.LoadSpec, error)
	Get(ctx context.Context, id string) (*models.LoadSpec, error)
}

// ProgressService tracks delivered hours against semester loads.
// Hours recorded through day-plan approval and hours entered manually
// are reported separately but both count toward completion.
type ProgressService struct {
	records   progressRecorder
	reader    progressReader
	specs     progressLoadSpecReader
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.PlanningConfig
}

// NewProgressService wires progress dependencies.
func NewProgressService(
	records progressRecorder,
	reader progressReader,
	specs progressLoadSpecReader,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.PlanningConfig,
) *ProgressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PairSizeAH <= 0 {
		cfg.PairSizeAH = 2
	}
	return &ProgressService{
		records:   records,
		reader:    reader,
		specs:     specs,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Record stores manually delivered hours.
func (s *ProgressService) Record(ctx context.Context, req dto.CreateProgressRequest) (*models.ProgressRecord, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if strings.HasPrefix(req.Note, dayEntryNotePrefix) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "note prefix is reserved for day plan approval")
	}
	if _, err := s.specs.Get(ctx, req.LoadSpecID); err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	return s.records.Insert(ctx, nil, models.ProgressRecord{
		LoadSpecID: req.LoadSpecID,
		Hours:      req.Hours,
		Date:       date,
		Note:       req.Note,
	})
}

// Summary aggregates delivery per load row, optionally for one group.
func (s *ProgressService) Summary(ctx context.Context, q dto.ProgressQuery) ([]models.ProgressSummary, error) {
	if err := s.validator.Struct(&q); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	var (
		specs []models.LoadSpec
		err   error
	)
	if q.GroupID != "" {
		specs, err = s.specs.ListByGroup(ctx, q.GroupID)
	} else {
		specs, err = s.specs.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	records, err := s.reader.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]float64)
	manual := make(map[string]float64)
	for _, rec := range records {
		if strings.HasPrefix(rec.Note, dayEntryNotePrefix) {
			assigned[rec.LoadSpecID] += rec.Hours
		} else {
			manual[rec.LoadSpecID] += rec.Hours
		}
	}

	out := make([]models.ProgressSummary, 0, len(specs))
	for _, spec := range specs {
		effective := assigned[spec.ID] + manual[spec.ID]
		remaining := spec.TotalHours - effective
		if remaining < 0 {
			remaining = 0
		}
		totalPairs := PairsFromHours(spec.TotalHours, s.cfg.PairSizeAH, s.cfg.AnnualTotals)
		completedPairs := int(effective) / s.cfg.PairSizeAH
		if completedPairs > totalPairs {
			completedPairs = totalPairs
		}
		out = append(out, models.ProgressSummary{
			LoadSpecID:     spec.ID,
			GroupID:        spec.GroupID,
			SubjectID:      spec.SubjectID,
			TotalHours:     spec.TotalHours,
			AssignedHours:  assigned[spec.ID],
			ManualHours:    manual[spec.ID],
			EffectiveHours: effective,
			RemainingHours: remaining,
			TotalPairs:     totalPairs,
			CompletedPairs: completedPairs,
			RemainingPairs: totalPairs - completedPairs,
		})
	}
	return out, nil
}

// History returns one load row's records.
func (s *ProgressService) History(ctx context.Context, loadSpecID string) ([]models.ProgressRecord, error) {
	if _, err := s.specs.Get(ctx, loadSpecID); err != nil {
		return nil, err
	}
	return s.reader.ListByLoadSpec(ctx, loadSpecID)
}
