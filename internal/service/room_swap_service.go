package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	"github.com/noah-isme/college-plan-api/pkg/config"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

// RoomSwapService plans and executes cascading room reassignments.
// Moving an entry into a full room displaces just enough of its
// occupants into alternative rooms of the same kind; either the whole
// chain applies or nothing does.
type RoomSwapService struct {
	plans     dayPlanStore
	catalog   planCatalogReader
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.PlanningConfig
}

// NewRoomSwapService wires swap dependencies.
func NewRoomSwapService(
	plans dayPlanStore,
	catalog planCatalogReader,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.PlanningConfig,
) *RoomSwapService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomSwapService{
		plans:     plans,
		catalog:   catalog,
		tx:        tx,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Propose computes the move chain without touching anything.
func (s *RoomSwapService) Propose(ctx context.Context, req dto.RoomSwapRequest) (*dto.RoomSwapResponse, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	plan, err := s.planSwap(ctx, req)
	if err != nil {
		return nil, err
	}
	return plan.response(false), nil
}

// Execute applies the move chain in one transaction. Infeasible swaps
// mutate nothing and surface the blocking occupant.
func (s *RoomSwapService) Execute(ctx context.Context, req dto.RoomSwapRequest) (*dto.RoomSwapResponse, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	plan, err := s.planSwap(ctx, req)
	if err != nil {
		return nil, err
	}
	if !plan.canAutoResolve {
		return nil, appErrors.Clone(appErrors.ErrInfeasible, plan.reason)
	}
	if req.DryRun {
		return plan.response(false), nil
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin swap tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, moved := range plan.entries {
		if err := s.plans.UpdateEntry(ctx, tx, moved); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit swap tx: %w", err)
	}
	committed = true

	s.logger.Info("room swap executed",
		zap.String("entry_id", req.EntryID),
		zap.String("target_room", req.TargetRoomID),
		zap.Int("moves", len(plan.moves)))
	return plan.response(true), nil
}

type swapPlan struct {
	canAutoResolve bool
	reason         string
	moves          []dto.RoomMove
	entries        []models.DayPlanEntry
}

func (p *swapPlan) response(executed bool) *dto.RoomSwapResponse {
	return &dto.RoomSwapResponse{
		CanAutoResolve: p.canAutoResolve,
		Executed:       executed,
		Moves:          p.moves,
		Reason:         p.reason,
	}
}

func (s *RoomSwapService) planSwap(ctx context.Context, req dto.RoomSwapRequest) (*swapPlan, error) {
	entry, err := s.plans.GetEntry(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.RoomID == req.TargetRoomID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "entry already occupies the target room")
	}
	dayPlan, err := s.plans.Get(ctx, entry.DayPlanID)
	if err != nil {
		return nil, err
	}
	if dayPlan.Status == models.DayPlanStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrApproved, "approved day plans are immutable")
	}

	entries, err := s.plans.ListEntries(ctx, dayPlan.ID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.catalog.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	roomByID := make(map[string]models.Room, len(rooms))
	for _, room := range rooms {
		roomByID[room.ID] = room
	}
	target, ok := roomByID[req.TargetRoomID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "target room not found")
	}

	ix := NewAvailabilityIndex()
	for _, room := range rooms {
		ix.SetRoomCapacity(room.ID, room.EffectiveCapacity(s.cfg.GymCapacity))
	}
	entryByID := make(map[string]models.DayPlanEntry, len(entries))
	for _, e := range entries {
		entryByID[e.ID] = e
		ix.Add(e)
	}

	plan := &swapPlan{}
	start := entry.StartTime

	occupantIDs := ix.RoomOccupants(target.ID, start)
	capacity := target.EffectiveCapacity(s.cfg.GymCapacity)
	displaceCount := len(occupantIDs) - capacity + 1
	if displaceCount < 0 {
		displaceCount = 0
	}

	// Overridden occupants relocate first, the rest in plan order.
	toDisplace := make([]string, 0, displaceCount)
	for _, id := range occupantIDs {
		if _, ok := req.Overrides[id]; ok && len(toDisplace) < displaceCount {
			toDisplace = append(toDisplace, id)
		}
	}
	for _, id := range occupantIDs {
		if len(toDisplace) >= displaceCount {
			break
		}
		if _, ok := req.Overrides[id]; !ok {
			toDisplace = append(toDisplace, id)
		}
	}

	for _, occID := range toDisplace {
		occ := entryByID[occID]
		dest, reason := s.pickAlternative(ix, roomByID, occ, req.Overrides[occID], target.ID)
		if dest == "" {
			plan.canAutoResolve = false
			plan.reason = fmt.Sprintf("entry %s cannot be relocated: %s", occID, reason)
			return plan, nil
		}
		ix.Remove(occ)
		moved := occ
		moved.RoomID = dest
		moved.IsOverride = true
		ix.Add(moved)
		entryByID[occID] = moved
		plan.moves = append(plan.moves, dto.RoomMove{EntryID: occID, FromRoomID: occ.RoomID, ToRoomID: dest})
		plan.entries = append(plan.entries, moved)
	}

	if !ix.RoomFree(target.ID, start) {
		plan.canAutoResolve = false
		plan.reason = "target room is still full after relocations"
		return plan, nil
	}

	ix.Remove(*entry)
	moved := *entry
	moved.RoomID = target.ID
	moved.IsOverride = true
	ix.Add(moved)
	plan.moves = append(plan.moves, dto.RoomMove{EntryID: entry.ID, FromRoomID: entry.RoomID, ToRoomID: target.ID})
	plan.entries = append(plan.entries, moved)
	plan.canAutoResolve = true
	return plan, nil
}

// pickAlternative finds a destination room for a displaced occupant.
// The caller's override wins when it fits; otherwise rooms of the same
// kind are tried in name order.
func (s *RoomSwapService) pickAlternative(
	ix *AvailabilityIndex,
	roomByID map[string]models.Room,
	occ models.DayPlanEntry,
	override string,
	targetRoomID string,
) (string, string) {
	if override != "" {
		room, ok := roomByID[override]
		if !ok {
			return "", "override room not found"
		}
		if room.ID == targetRoomID {
			return "", "override room is the contested room"
		}
		if !ix.RoomFree(room.ID, occ.StartTime) {
			return "", "override room is full at this time"
		}
		return room.ID, ""
	}

	current, ok := roomByID[occ.RoomID]
	if !ok {
		return "", "occupant room not found"
	}
	candidates := make([]models.Room, 0, len(roomByID))
	for _, room := range roomByID {
		if room.ID == targetRoomID || room.ID == occ.RoomID {
			continue
		}
		if room.Kind != current.Kind {
			continue
		}
		candidates = append(candidates, room)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	for _, room := range candidates {
		if ix.RoomFree(room.ID, occ.StartTime) {
			return room.ID, ""
		}
	}
	return "", "no free room of the same kind"
}
