package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	"github.com/noah-isme/college-plan-api/pkg/config"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type loadSpecReader interface {
	List(ctx context.Context) ([]models.LoadSpec, error)
}

type catalogReader interface {
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
}

type distributionStore interface {
	DeleteAll(ctx context.Context, exec sqlx.ExtContext) error
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, dists []models.WeeklyDistribution) error
	InsertUnplaced(ctx context.Context, exec sqlx.ExtContext, slots []models.UnplacedSlot) error
	ListAll(ctx context.Context) ([]models.WeeklyDistribution, error)
	ListByParity(ctx context.Context, parity models.Parity) ([]models.WeeklyDistribution, error)
}

// DistributionService computes weekly templates from load rows. The
// template has no dates: one row per (load spec, parity) with the
// placed (weekday, start) positions.
type DistributionService struct {
	specs     loadSpecReader
	catalog   catalogReader
	dists     distributionStore
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.PlanningConfig
}

// NewDistributionService wires distribution dependencies.
func NewDistributionService(
	specs loadSpecReader,
	catalog catalogReader,
	dists distributionStore,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.PlanningConfig,
) *DistributionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PairSizeAH <= 0 {
		cfg.PairSizeAH = 2
	}
	if cfg.MaxPairsPerDay <= 0 {
		cfg.MaxPairsPerDay = 4
	}
	return &DistributionService{
		specs:     specs,
		catalog:   catalog,
		dists:     dists,
		tx:        tx,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate recomputes every weekly template. Existing templates are
// replaced only with force set; the whole run commits in one
// transaction so a failed run leaves the previous templates intact.
func (s *DistributionService) Generate(ctx context.Context, req dto.GenerateDistributionsRequest) (*dto.GenerateDistributionsResponse, error) {
	existing, err := s.dists.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && !req.Force {
		return nil, appErrors.Clone(appErrors.ErrConflict, "weekly distributions already generated, pass force to replace")
	}

	specs, err := s.specs.List(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.catalog.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.catalog.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	groupNames := make(map[string]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	result := s.buildTemplates(specs, groupNames, rooms)

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin distribution tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.dists.DeleteAll(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.dists.InsertBatch(ctx, tx, result.dists); err != nil {
		return nil, err
	}
	if err := s.dists.InsertUnplaced(ctx, tx, result.unplaced); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit distribution tx: %w", err)
	}
	committed = true

	s.logger.Info("weekly distributions generated",
		zap.Int("distributions", len(result.dists)),
		zap.Int("unplaced", len(result.unplaced)))

	return s.buildResponse(result), nil
}

// WeeklyTemplate returns stored templates, optionally filtered.
func (s *DistributionService) WeeklyTemplate(ctx context.Context, q dto.WeeklyTemplateQuery) ([]models.WeeklyDistribution, error) {
	if err := s.validator.Struct(&q); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	var (
		dists []models.WeeklyDistribution
		err   error
	)
	if q.Parity != "" {
		dists, err = s.dists.ListByParity(ctx, models.Parity(q.Parity))
	} else {
		dists, err = s.dists.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	if q.GroupID == "" {
		return dists, nil
	}
	filtered := dists[:0]
	for _, d := range dists {
		if d.GroupID == q.GroupID {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

type templateBuild struct {
	dists     []models.WeeklyDistribution
	unplaced  []models.UnplacedSlot
	summaries []dto.DistributionSummary
	views     []dto.UnplacedSlotView
}

// buildTemplates runs the greedy placement for both parity classes.
// Specs are processed in declared order and weekdays scanned
// ascending, so the outcome is reproducible for identical input.
func (s *DistributionService) buildTemplates(specs []models.LoadSpec, groupNames map[string]string, rooms []models.Room) templateBuild {
	var out templateBuild

	for _, parity := range []models.Parity{models.ParityEven, models.ParityOdd} {
		ix := NewAvailabilityIndex()
		for _, room := range rooms {
			ix.SetRoomCapacity(room.ID, room.EffectiveCapacity(s.cfg.GymCapacity))
		}
		groupDayLoad := make(map[string]int)

		for _, spec := range specs {
			pairCount := PairsForWeek(spec.WeeklyHours, spec.Preference, parity, s.cfg.PairSizeAH)
			dist := models.WeeklyDistribution{
				LoadSpecID: spec.ID,
				GroupID:    spec.GroupID,
				SubjectID:  spec.SubjectID,
				Parity:     parity,
				PairCount:  pairCount,
			}
			slots := SlotsForGroup(groupNames[spec.GroupID], s.cfg.EnableShifts)

			// Spread pairs over the week instead of stacking them on
			// Monday.
			perDayCap := int(math.Ceil(float64(pairCount) / float64(planningWeekdays)))
			if perDayCap < 1 {
				perDayCap = 1
			}

			placed := make([]models.TemplateSlot, 0, pairCount)
			specDayLoad := make(map[int]int)
			unplacedCount := 0

			for pair := 0; pair < pairCount; pair++ {
				pos, ok := s.findTemplatePosition(ix, spec, slots, perDayCap, specDayLoad, groupDayLoad)
				if !ok {
					unplacedCount++
					continue
				}
				placed = append(placed, pos)
				specDayLoad[pos.Weekday]++
				groupDayLoad[dayLoadKey(spec.GroupID, pos.Weekday)]++
				ix.Add(models.DayPlanEntry{
					ID:        fmt.Sprintf("%s/%s/%d", spec.ID, parity, pair),
					GroupID:   spec.GroupID,
					RoomID:    spec.RoomID,
					TeacherID: spec.TeacherID,
					StartTime: templateSlotKey(pos.Weekday, pos.StartTime),
				})
			}

			raw, _ := json.Marshal(placed)
			dist.Slots = types.JSONText(raw)
			out.dists = append(out.dists, dist)
			out.summaries = append(out.summaries, dto.DistributionSummary{
				LoadSpecID: spec.ID,
				GroupID:    spec.GroupID,
				SubjectID:  spec.SubjectID,
				Parity:     parity,
				PairCount:  pairCount,
				Placed:     len(placed),
				Unplaced:   unplacedCount,
			})
			for i := 0; i < unplacedCount; i++ {
				out.unplaced = append(out.unplaced, models.UnplacedSlot{
					LoadSpecID: spec.ID,
					Reason:     "no_free_slot",
				})
				out.views = append(out.views, dto.UnplacedSlotView{
					LoadSpecID: spec.ID,
					GroupID:    spec.GroupID,
					SubjectID:  spec.SubjectID,
					Reason:     "no_free_slot",
				})
			}
		}
	}
	return out
}

func (s *DistributionService) findTemplatePosition(
	ix *AvailabilityIndex,
	spec models.LoadSpec,
	slots []TimeSlot,
	perDayCap int,
	specDayLoad map[int]int,
	groupDayLoad map[string]int,
) (models.TemplateSlot, bool) {
	for weekday := 0; weekday < planningWeekdays; weekday++ {
		if specDayLoad[weekday] >= perDayCap {
			continue
		}
		if groupDayLoad[dayLoadKey(spec.GroupID, weekday)] >= s.cfg.MaxPairsPerDay {
			continue
		}
		for _, slot := range slots {
			key := templateSlotKey(weekday, slot.Start)
			if !ix.GroupFree(spec.GroupID, key) {
				continue
			}
			if !ix.RoomFree(spec.RoomID, key) {
				continue
			}
			if spec.TeacherID != nil && !ix.TeacherFree(*spec.TeacherID, key) {
				continue
			}
			return models.TemplateSlot{
				Weekday:   weekday,
				StartTime: slot.Start,
				EndTime:   slot.End,
				RoomID:    spec.RoomID,
				TeacherID: spec.TeacherID,
			}, true
		}
	}
	return models.TemplateSlot{}, false
}

func (s *DistributionService) buildResponse(b templateBuild) *dto.GenerateDistributionsResponse {
	return &dto.GenerateDistributionsResponse{
		Generated:     len(b.dists),
		Distributions: b.summaries,
		Unplaced:      b.views,
	}
}

func templateSlotKey(weekday int, start string) string {
	return fmt.Sprintf("%d|%s", weekday, start)
}

func dayLoadKey(groupID string, weekday int) string {
	return fmt.Sprintf("%s|%d", groupID, weekday)
}

// DecodeTemplateSlots unpacks the JSON slot list of one template row.
func DecodeTemplateSlots(d models.WeeklyDistribution) ([]models.TemplateSlot, error) {
	if len(d.Slots) == 0 {
		return nil, nil
	}
	var slots []models.TemplateSlot
	if err := json.Unmarshal(d.Slots, &slots); err != nil {
		return nil, fmt.Errorf("decode template slots: %w", err)
	}
	return slots, nil
}
