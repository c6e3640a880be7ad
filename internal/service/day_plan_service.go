package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	"github.com/noah-isme/college-plan-api/pkg/cache"
	"github.com/noah-isme/college-plan-api/pkg/config"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type dayPlanStore interface {
	GetByDate(ctx context.Context, date time.Time) (*models.DayPlan, error)
	Get(ctx context.Context, id string) (*models.DayPlan, error)
	Insert(ctx context.Context, exec sqlx.ExtContext, plan *models.DayPlan) error
	SetStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.DayPlanStatus) error
	DeleteWithEntries(ctx context.Context, exec sqlx.ExtContext, id string) error
	InsertEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.DayPlanEntry) error
	ListEntries(ctx context.Context, planID string) ([]models.DayPlanEntry, error)
	ListEntryDetails(ctx context.Context, planID string) ([]models.DayPlanEntryDetail, error)
	GetEntry(ctx context.Context, id string) (*models.DayPlanEntry, error)
	UpdateEntry(ctx context.Context, exec sqlx.ExtContext, e models.DayPlanEntry) error
	LookupEntries(ctx context.Context, date time.Time, groupID, teacherID, roomID string) ([]models.DayPlanEntry, error)
	InsertSkipped(ctx context.Context, exec sqlx.ExtContext, slots []models.SkippedSlot) error
	ListSkipped(ctx context.Context, planID string) ([]models.SkippedSlot, error)
}

type distributionReader interface {
	ListByParity(ctx context.Context, parity models.Parity) ([]models.WeeklyDistribution, error)
}

type planCatalogReader interface {
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
}

type holidayReader interface {
	CoveringDate(ctx context.Context, d time.Time) ([]models.Holiday, error)
}

type progressRecorder interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, rec models.ProgressRecord) (*models.ProgressRecord, error)
	ExistsByNote(ctx context.Context, exec sqlx.ExtContext, loadSpecID, note string) (bool, error)
}

type candidateSource interface {
	Candidates(ctx context.Context, groupID, subjectID string) ([]models.ReplacementCandidate, error)
}

// DayPlanService materialises weekly templates into dated plans and
// owns every mutation of them.
type DayPlanService struct {
	plans     dayPlanStore
	dists     distributionReader
	catalog   planCatalogReader
	holidays  holidayReader
	progress  progressRecorder
	mappings  candidateSource
	tx        txProvider
	reports   *cache.ReportCache
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.PlanningConfig
}

// NewDayPlanService wires day planning dependencies.
func NewDayPlanService(
	plans dayPlanStore,
	dists distributionReader,
	catalog planCatalogReader,
	holidays holidayReader,
	progress progressRecorder,
	mappings candidateSource,
	tx txProvider,
	reports *cache.ReportCache,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.PlanningConfig,
) *DayPlanService {
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
	return &DayPlanService{
		plans:     plans,
		dists:     dists,
		catalog:   catalog,
		holidays:  holidays,
		progress:  progress,
		mappings:  mappings,
		tx:        tx,
		reports:   reports,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// PlanDay builds the plan for one date from the weekly template of the
// date's parity. Regeneration needs force and never touches approved
// plans. Holiday and weekend dates yield an empty plan.
func (s *DayPlanService) PlanDay(ctx context.Context, req dto.PlanDayRequest) (*dto.DayPlanView, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	existing, err := s.plans.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.DayPlanStatusApproved {
			return nil, appErrors.Clone(appErrors.ErrApproved, "approved day plans are immutable")
		}
		if !req.Force {
			return nil, appErrors.Clone(appErrors.ErrConflict, "day plan already exists, pass force to rebuild")
		}
	}

	parity := WeekParity(date, s.cfg.ParityBaseDate)
	entries, skipped, err := s.buildDayEntries(ctx, date, parity, req.GroupID, req.AutoVacantRemove)
	if err != nil {
		return nil, err
	}

	plan := &models.DayPlan{Date: date, Parity: parity, Status: models.DayPlanStatusDraft}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin day plan tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if existing != nil {
		if err := s.plans.DeleteWithEntries(ctx, tx, existing.ID); err != nil {
			return nil, err
		}
	}
	if err := s.plans.Insert(ctx, tx, plan); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].DayPlanID = plan.ID
	}
	for i := range skipped {
		skipped[i].DayPlanID = plan.ID
	}
	if err := s.plans.InsertEntries(ctx, tx, entries); err != nil {
		return nil, err
	}
	if err := s.plans.InsertSkipped(ctx, tx, skipped); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit day plan tx: %w", err)
	}
	committed = true

	_ = s.reports.Invalidate(ctx, reportCacheKey(req.Date))
	s.logger.Info("day plan generated",
		zap.String("date", req.Date),
		zap.String("parity", string(parity)),
		zap.Int("entries", len(entries)),
		zap.Int("skipped", len(skipped)))

	return s.GetDayPlan(ctx, req.Date)
}

// buildDayEntries runs the greedy placement for one date. Templates
// arrive in declared load order and each one's slots in placement
// order, so two runs over the same data produce the same plan. A
// non-empty groupID restricts both placement and skip reporting to
// that group; autoVacant resolves vacant slots from the ranked
// candidate mapping while placing.
func (s *DayPlanService) buildDayEntries(ctx context.Context, date time.Time, parity models.Parity, groupID string, autoVacant bool) ([]models.DayPlanEntry, []models.SkippedSlot, error) {
	weekday, schoolDay := DayIndex(date)
	if !schoolDay {
		return nil, nil, nil
	}
	covering, err := s.holidays.CoveringDate(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	if len(covering) > 0 {
		return nil, nil, nil
	}

	dists, err := s.dists.ListByParity(ctx, parity)
	if err != nil {
		return nil, nil, err
	}
	rooms, err := s.catalog.ListRooms(ctx)
	if err != nil {
		return nil, nil, err
	}

	ix := NewAvailabilityIndex()
	for _, room := range rooms {
		ix.SetRoomCapacity(room.ID, room.EffectiveCapacity(s.cfg.GymCapacity))
	}
	roomCapacity := make(map[string]int, len(rooms))
	for _, room := range rooms {
		roomCapacity[room.ID] = room.EffectiveCapacity(s.cfg.GymCapacity)
	}

	var (
		entries []models.DayPlanEntry
		skipped []models.SkippedSlot
	)
	groupDayLoad := make(map[string]int)

	for _, dist := range dists {
		if groupID != "" && dist.GroupID != groupID {
			continue
		}
		slots, err := DecodeTemplateSlots(dist)
		if err != nil {
			return nil, nil, err
		}
		for _, slot := range slots {
			if slot.Weekday != weekday {
				continue
			}
			if reason, ok := s.rejectSlot(ix, dist, slot, roomCapacity, groupDayLoad); !ok {
				skipped = append(skipped, models.SkippedSlot{
					LoadSpecID: dist.LoadSpecID,
					GroupID:    dist.GroupID,
					StartTime:  slot.StartTime,
					Reason:     reason,
				})
				continue
			}
			entry := models.DayPlanEntry{
				LoadSpecID: dist.LoadSpecID,
				GroupID:    dist.GroupID,
				SubjectID:  dist.SubjectID,
				TeacherID:  slot.TeacherID,
				RoomID:     slot.RoomID,
				Date:       date,
				StartTime:  slot.StartTime,
				EndTime:    slot.EndTime,
				Status:     models.EntryStatusPlanned,
				Origin:     models.EntryOriginWeekly,
			}
			if autoVacant && entry.TeacherID == nil {
				if err := s.fillVacantSlot(ctx, ix, &entry); err != nil {
					return nil, nil, err
				}
			}
			entries = append(entries, entry)
			placed := entry
			placed.ID = fmt.Sprintf("placed-%d", len(entries))
			ix.Add(placed)
			groupDayLoad[dist.GroupID]++
		}
	}
	return entries, skipped, nil
}

// fillVacantSlot assigns the first ranked candidate free at the
// entry's slot. Entries nobody can cover stay vacant for the
// validator to warn about.
func (s *DayPlanService) fillVacantSlot(ctx context.Context, ix *AvailabilityIndex, entry *models.DayPlanEntry) error {
	candidates, err := s.mappings.Candidates(ctx, entry.GroupID, entry.SubjectID)
	if err != nil {
		return err
	}
	for i := range candidates {
		if ix.TeacherFree(candidates[i].TeacherID, entry.StartTime) {
			teacherID := candidates[i].TeacherID
			entry.TeacherID = &teacherID
			entry.Status = models.EntryStatusReplacedAuto
			return nil
		}
	}
	return nil
}

// rejectSlot checks one template slot against the current index and
// names the first violated constraint.
func (s *DayPlanService) rejectSlot(
	ix *AvailabilityIndex,
	dist models.WeeklyDistribution,
	slot models.TemplateSlot,
	roomCapacity map[string]int,
	groupDayLoad map[string]int,
) (models.SkipReason, bool) {
	if groupDayLoad[dist.GroupID] >= s.cfg.MaxPairsPerDay {
		return models.SkipDailyMaxExceeded, false
	}
	if !ix.GroupFree(dist.GroupID, slot.StartTime) {
		return models.SkipGroupBusy, false
	}
	if slot.TeacherID != nil && !ix.TeacherFree(*slot.TeacherID, slot.StartTime) {
		return models.SkipTeacherUnavailable, false
	}
	if !ix.RoomFree(slot.RoomID, slot.StartTime) {
		if roomCapacity[slot.RoomID] > 1 {
			return models.SkipCapacityExceeded, false
		}
		return models.SkipRoomBusy, false
	}
	return "", true
}

// GetDayPlan returns the materialised plan with its diff against the
// weekly reference.
func (s *DayPlanService) GetDayPlan(ctx context.Context, dateStr string) (*dto.DayPlanView, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	plan, err := s.plans.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no day plan for date")
	}

	details, err := s.plans.ListEntryDetails(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	skipped, err := s.plans.ListSkipped(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	entries := make([]models.DayPlanEntry, 0, len(details))
	for _, d := range details {
		entries = append(entries, d.DayPlanEntry)
	}

	ref, err := s.referenceSlots(ctx, date, plan.Parity)
	if err != nil {
		return nil, err
	}
	diff := BuildDiff(dateStr, plan.Parity, entries, ref)

	view := &dto.DayPlanView{
		ID:      plan.ID,
		Date:    dateStr,
		Parity:  plan.Parity,
		Status:  plan.Status,
		Entries: details,
		Skipped: make([]dto.SkippedSlotView, 0, len(skipped)),
		Diff:    &diff,
	}
	for _, sk := range skipped {
		view.Skipped = append(view.Skipped, dto.SkippedSlotView{
			LoadSpecID: sk.LoadSpecID,
			GroupID:    sk.GroupID,
			StartTime:  sk.StartTime,
			Reason:     sk.Reason,
		})
	}
	return view, nil
}

// referenceSlots materialises the weekly template of the date's
// weekday into diff baseline slots.
func (s *DayPlanService) referenceSlots(ctx context.Context, date time.Time, parity models.Parity) ([]ReferenceSlot, error) {
	weekday, schoolDay := DayIndex(date)
	if !schoolDay {
		return nil, nil
	}
	dists, err := s.dists.ListByParity(ctx, parity)
	if err != nil {
		return nil, err
	}
	var ref []ReferenceSlot
	for _, dist := range dists {
		slots, err := DecodeTemplateSlots(dist)
		if err != nil {
			return nil, err
		}
		for _, slot := range slots {
			if slot.Weekday != weekday {
				continue
			}
			ref = append(ref, ReferenceSlot{
				GroupID:   dist.GroupID,
				StartTime: slot.StartTime,
				SubjectID: dist.SubjectID,
				RoomID:    slot.RoomID,
				TeacherID: slot.TeacherID,
			})
		}
	}
	return ref, nil
}

func reportCacheKey(date string) string {
	return "dayplan:report:" + date
}

// Analyze validates the plan of one date. Results are cached until the
// plan changes.
func (s *DayPlanService) Analyze(ctx context.Context, dateStr string) (*models.ValidationReport, error) {
	var cached models.ValidationReport
	if hit, err := s.reports.Get(ctx, reportCacheKey(dateStr), &cached); err == nil && hit {
		return &cached, nil
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	plan, err := s.plans.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no day plan for date")
	}
	entries, err := s.plans.ListEntries(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	rules, err := s.planningRules(ctx)
	if err != nil {
		return nil, err
	}

	report := ValidateDayPlan(dateStr, entries, rules)
	if err := s.reports.Set(ctx, reportCacheKey(dateStr), report); err != nil {
		s.logger.Warn("report cache write failed", zap.Error(err))
	}
	return &report, nil
}

func (s *DayPlanService) planningRules(ctx context.Context) (PlanningRules, error) {
	rooms, err := s.catalog.ListRooms(ctx)
	if err != nil {
		return PlanningRules{}, err
	}
	teachers, err := s.catalog.ListTeachers(ctx)
	if err != nil {
		return PlanningRules{}, err
	}
	rules := PlanningRules{
		RoomCapacity:       make(map[string]int, len(rooms)),
		KnownTeachers:      make(map[string]struct{}, len(teachers)),
		WindowGapThreshold: s.cfg.WindowGapThreshold,
	}
	for _, room := range rooms {
		rules.RoomCapacity[room.ID] = room.EffectiveCapacity(s.cfg.GymCapacity)
	}
	for _, t := range teachers {
		rules.KnownTeachers[t.ID] = struct{}{}
	}
	return rules, nil
}

// Approve finalises a day plan, or one group's share when the request
// names a group. The blocker check always runs before any hour is
// recorded; recording is idempotent per entry via the progress note,
// so approving twice cannot double-count. Partially approved days stay
// in their previous status until the last group is approved.
func (s *DayPlanService) Approve(ctx context.Context, dateStr string, req dto.ApproveDayRequest) (*dto.ApproveDayResponse, error) {
	enforce := true
	if req.EnforceNoBlockers != nil {
		enforce = *req.EnforceNoBlockers
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	plan, err := s.plans.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no day plan for date")
	}

	entries, err := s.plans.ListEntries(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	scope := entries
	if req.GroupID != "" {
		scope = make([]models.DayPlanEntry, 0, len(entries))
		for _, e := range entries {
			if e.GroupID == req.GroupID {
				scope = append(scope, e)
			}
		}
	}
	rules, err := s.planningRules(ctx)
	if err != nil {
		return nil, err
	}
	report := ValidateDayPlan(dateStr, scope, rules)
	if enforce && !report.CanApprove {
		return nil, appErrors.Clone(appErrors.ErrConstraint, "day plan has blocking conflicts")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin approve tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	recorded, alreadyRecorded := 0, 0
	for _, entry := range scope {
		note := "day_entry:" + entry.ID
		exists, err := s.progress.ExistsByNote(ctx, tx, entry.LoadSpecID, note)
		if err != nil {
			return nil, err
		}
		if exists {
			alreadyRecorded++
		} else {
			if _, err := s.progress.Insert(ctx, tx, models.ProgressRecord{
				LoadSpecID: entry.LoadSpecID,
				Hours:      float64(s.cfg.PairSizeAH),
				Date:       date,
				Note:       note,
			}); err != nil {
				return nil, err
			}
			recorded++
		}
		if entry.Status != models.EntryStatusApproved {
			entry.Status = models.EntryStatusApproved
			if err := s.plans.UpdateEntry(ctx, tx, entry); err != nil {
				return nil, err
			}
		}
	}
	// The day rolls up to approved only once every group's entries are.
	dayStatus := models.DayPlanStatusApproved
	if req.GroupID != "" {
		for _, e := range entries {
			if e.GroupID != req.GroupID && e.Status != models.EntryStatusApproved {
				dayStatus = plan.Status
				break
			}
		}
	}
	if dayStatus == models.DayPlanStatusApproved {
		if err := s.plans.SetStatus(ctx, tx, plan.ID, dayStatus); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit approve tx: %w", err)
	}
	committed = true

	_ = s.reports.Invalidate(ctx, reportCacheKey(dateStr))
	s.logger.Info("day plan approved",
		zap.String("date", dateStr),
		zap.String("group", req.GroupID),
		zap.Int("recorded", recorded),
		zap.Int("already_recorded", alreadyRecorded))

	return &dto.ApproveDayResponse{
		DayPlanID:       plan.ID,
		Status:          dayStatus,
		RecordedEntries: recorded,
		SkippedEntries:  alreadyRecorded,
		Report:          report,
	}, nil
}

// UpdateEntry edits one entry after validating the new position
// against every other entry of the same date.
func (s *DayPlanService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*models.DayPlanEntry, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	entry, err := s.plans.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.Get(ctx, entry.DayPlanID)
	if err != nil {
		return nil, err
	}
	if plan.Status == models.DayPlanStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrApproved, "approved day plans are immutable")
	}
	if entry.Status == models.EntryStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrApproved, "approved entries are immutable")
	}

	updated := *entry
	if req.TeacherID != nil {
		updated.TeacherID = req.TeacherID
		updated.Status = models.EntryStatusReplacedManual
	}
	if req.RoomID != nil {
		updated.RoomID = *req.RoomID
	}
	if req.StartTime != nil {
		updated.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		updated.EndTime = *req.EndTime
	}
	updated.IsOverride = true

	siblings, err := s.plans.ListEntries(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPlacement(ctx, updated, siblings); err != nil {
		return nil, err
	}

	if err := s.plans.UpdateEntry(ctx, nil, updated); err != nil {
		return nil, err
	}
	_ = s.reports.Invalidate(ctx, reportCacheKey(entry.Date.Format(dateLayout)))
	return &updated, nil
}

// checkPlacement validates one candidate entry against its siblings
// through a fresh availability index.
func (s *DayPlanService) checkPlacement(ctx context.Context, candidate models.DayPlanEntry, siblings []models.DayPlanEntry) error {
	rules, err := s.planningRules(ctx)
	if err != nil {
		return err
	}
	ix := NewAvailabilityIndex()
	for roomID, capacity := range rules.RoomCapacity {
		ix.SetRoomCapacity(roomID, capacity)
	}
	for _, e := range siblings {
		if e.ID == candidate.ID {
			continue
		}
		ix.Add(e)
	}
	return placementViolation(ix, candidate)
}

func placementViolation(ix *AvailabilityIndex, e models.DayPlanEntry) error {
	if !ix.GroupFree(e.GroupID, e.StartTime) {
		return appErrors.Clone(appErrors.ErrConstraint, fmt.Sprintf("group already has a lesson at %s", e.StartTime))
	}
	if e.TeacherID != nil && !ix.TeacherFree(*e.TeacherID, e.StartTime) {
		return appErrors.Clone(appErrors.ErrConstraint, fmt.Sprintf("teacher is busy at %s", e.StartTime))
	}
	if !ix.RoomFree(e.RoomID, e.StartTime) {
		return appErrors.Clone(appErrors.ErrConstraint, fmt.Sprintf("room is full at %s", e.StartTime))
	}
	return nil
}

// BulkUpdate applies several entry edits atomically. Every change is
// validated against a simulated index of the final state first; if any
// item fails, the whole batch is rejected and nothing is written.
func (s *DayPlanService) BulkUpdate(ctx context.Context, dateStr string, req dto.BulkUpdateRequest) (*dto.BulkUpdateResponse, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	plan, err := s.plans.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no day plan for date")
	}
	if plan.Status == models.DayPlanStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrApproved, "approved day plans are immutable")
	}

	entries, err := s.plans.ListEntries(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.DayPlanEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	// First pass: apply every update to an in-memory copy.
	simulated := make(map[string]models.DayPlanEntry, len(byID))
	for id, e := range byID {
		simulated[id] = e
	}
	results := make([]dto.BulkItemResult, 0, len(req.Updates))
	failed := false
	for _, upd := range req.Updates {
		e, ok := simulated[upd.EntryID]
		if !ok {
			results = append(results, dto.BulkItemResult{EntryID: upd.EntryID, Error: "entry not found in day plan"})
			failed = true
			continue
		}
		if e.Status == models.EntryStatusApproved {
			results = append(results, dto.BulkItemResult{EntryID: upd.EntryID, Error: "entry already approved"})
			failed = true
			continue
		}
		if upd.TeacherID != nil {
			e.TeacherID = upd.TeacherID
			e.Status = models.EntryStatusReplacedManual
		}
		if upd.RoomID != nil {
			e.RoomID = *upd.RoomID
		}
		if upd.StartTime != nil {
			e.StartTime = *upd.StartTime
		}
		if upd.EndTime != nil {
			e.EndTime = *upd.EndTime
		}
		e.IsOverride = true
		simulated[upd.EntryID] = e
		results = append(results, dto.BulkItemResult{EntryID: upd.EntryID, OK: true})
	}

	// Second pass: validate each touched entry against the simulated
	// final state.
	if !failed {
		rules, err := s.planningRules(ctx)
		if err != nil {
			return nil, err
		}
		for i, upd := range req.Updates {
			ix := NewAvailabilityIndex()
			for roomID, capacity := range rules.RoomCapacity {
				ix.SetRoomCapacity(roomID, capacity)
			}
			for id, e := range simulated {
				if id == upd.EntryID {
					continue
				}
				ix.Add(e)
			}
			if err := placementViolation(ix, simulated[upd.EntryID]); err != nil {
				results[i] = dto.BulkItemResult{EntryID: upd.EntryID, Error: appErrors.FromError(err).Message}
				failed = true
			}
		}
	}

	if failed {
		for i := range results {
			if results[i].Error == "" {
				results[i].OK = false
				results[i].Error = "rejected, another change in the batch failed"
			} else {
				results[i].OK = false
			}
		}
		return &dto.BulkUpdateResponse{Applied: false, Results: results}, nil
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bulk update tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, upd := range req.Updates {
		if err := s.plans.UpdateEntry(ctx, tx, simulated[upd.EntryID]); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bulk update tx: %w", err)
	}
	committed = true

	_ = s.reports.Invalidate(ctx, reportCacheKey(dateStr))
	return &dto.BulkUpdateResponse{Applied: true, Results: results}, nil
}

// ReplaceEntryTeacher assigns a specific teacher to one entry.
func (s *DayPlanService) ReplaceEntryTeacher(ctx context.Context, entryID string, req dto.ReplaceTeacherRequest) (*models.DayPlanEntry, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.UpdateEntry(ctx, entryID, dto.UpdateEntryRequest{TeacherID: &req.TeacherID})
}

// ReplaceVacantAuto fills vacant entries of one date from the ranked
// candidate mapping. Candidates linked to the exact group come first,
// ties break on teacher name, so reruns pick the same teachers.
func (s *DayPlanService) ReplaceVacantAuto(ctx context.Context, dateStr string) (*dto.ReplaceVacantAutoResponse, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	plan, err := s.plans.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no day plan for date")
	}
	if plan.Status == models.DayPlanStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrApproved, "approved day plans are immutable")
	}

	entries, err := s.plans.ListEntries(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	ix := NewAvailabilityIndex()
	for _, e := range entries {
		ix.Add(e)
	}

	resp := &dto.ReplaceVacantAutoResponse{}
	var filled []models.DayPlanEntry
	for _, entry := range entries {
		if entry.TeacherID != nil {
			continue
		}
		candidates, err := s.mappings.Candidates(ctx, entry.GroupID, entry.SubjectID)
		if err != nil {
			return nil, err
		}
		var chosen *models.ReplacementCandidate
		for i := range candidates {
			if ix.TeacherFree(candidates[i].TeacherID, entry.StartTime) {
				chosen = &candidates[i]
				break
			}
		}
		if chosen == nil {
			resp.Unfilled++
			resp.Decisions = append(resp.Decisions, dto.VacantFillDecision{
				EntryID: entry.ID,
				Reason:  "no candidate available at this time",
			})
			continue
		}
		teacherID := chosen.TeacherID
		ix.Remove(entry)
		entry.TeacherID = &teacherID
		entry.Status = models.EntryStatusReplacedAuto
		ix.Add(entry)
		filled = append(filled, entry)
		resp.Filled++
		resp.Decisions = append(resp.Decisions, dto.VacantFillDecision{
			EntryID:   entry.ID,
			TeacherID: &teacherID,
		})
	}

	if len(filled) > 0 {
		tx, err := s.tx.BeginTxx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin replace tx: %w", err)
		}
		committed := false
		defer func() {
			if !committed {
				_ = tx.Rollback()
			}
		}()
		for _, e := range filled {
			if err := s.plans.UpdateEntry(ctx, tx, e); err != nil {
				return nil, err
			}
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit replace tx: %w", err)
		}
		committed = true
		_ = s.reports.Invalidate(ctx, reportCacheKey(dateStr))
	}
	return resp, nil
}

// LookupEntries filters entries of one date by optional resources.
func (s *DayPlanService) LookupEntries(ctx context.Context, q dto.EntryLookupQuery) ([]models.DayPlanEntry, error) {
	if err := s.validator.Struct(&q); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	date, err := time.Parse(dateLayout, q.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	return s.plans.LookupEntries(ctx, date, q.GroupID, q.TeacherID, q.RoomID)
}
