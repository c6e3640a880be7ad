package service

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-plan-api/internal/models"
	"github.com/noah-isme/college-plan-api/pkg/config"
)

func testPlanningConfig() config.PlanningConfig {
	return config.PlanningConfig{
		PairSizeAH:         2,
		ParityBaseDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		MaxPairsPerDay:     4,
		WindowGapThreshold: 1,
		GymCapacity:        4,
		EnableShifts:       true,
	}
}

// newMockTx returns a tx provider whose begin/commit/rollback calls
// all succeed. Writes go through the in-memory stores, so nothing else
// reaches the driver.
func newMockTx(t *testing.T) txProvider {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 32; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	return sqlx.NewDb(db, "sqlmock")
}

type memCatalog struct {
	groups   []models.Group
	rooms    []models.Room
	teachers []models.Teacher
}

func (m *memCatalog) ListGroups(context.Context) ([]models.Group, error)     { return m.groups, nil }
func (m *memCatalog) ListRooms(context.Context) ([]models.Room, error)       { return m.rooms, nil }
func (m *memCatalog) ListTeachers(context.Context) ([]models.Teacher, error) { return m.teachers, nil }

type memLoadSpecs struct {
	specs []models.LoadSpec
}

func (m *memLoadSpecs) List(context.Context) ([]models.LoadSpec, error) { return m.specs, nil }

func (m *memLoadSpecs) ListByGroup(_ context.Context, groupID string) ([]models.LoadSpec, error) {
	var out []models.LoadSpec
	for _, s := range m.specs {
		if s.GroupID == groupID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memLoadSpecs) Get(_ context.Context, id string) (*models.LoadSpec, error) {
	for i := range m.specs {
		if m.specs[i].ID == id {
			return &m.specs[i], nil
		}
	}
	return nil, errNotFoundStub
}

var errNotFoundStub = &stubError{"not found"}

type stubError struct{ msg string }

func (e *stubError) Error() string { return e.msg }

type memDists struct {
	items    []models.WeeklyDistribution
	unplaced []models.UnplacedSlot
}

func (m *memDists) DeleteAll(context.Context, sqlx.ExtContext) error {
	m.items = nil
	m.unplaced = nil
	return nil
}

func (m *memDists) InsertBatch(_ context.Context, _ sqlx.ExtContext, dists []models.WeeklyDistribution) error {
	m.items = append(m.items, dists...)
	return nil
}

func (m *memDists) InsertUnplaced(_ context.Context, _ sqlx.ExtContext, slots []models.UnplacedSlot) error {
	m.unplaced = append(m.unplaced, slots...)
	return nil
}

func (m *memDists) ListAll(context.Context) ([]models.WeeklyDistribution, error) {
	return append([]models.WeeklyDistribution(nil), m.items...), nil
}

func (m *memDists) ListByParity(_ context.Context, parity models.Parity) ([]models.WeeklyDistribution, error) {
	var out []models.WeeklyDistribution
	for _, d := range m.items {
		if d.Parity == parity {
			out = append(out, d)
		}
	}
	return out, nil
}

type memPlans struct {
	seq     int
	plans   map[string]*models.DayPlan
	entries map[string]models.DayPlanEntry
	skipped []models.SkippedSlot
}

func newMemPlans() *memPlans {
	return &memPlans{
		plans:   make(map[string]*models.DayPlan),
		entries: make(map[string]models.DayPlanEntry),
	}
}

func (m *memPlans) nextID(prefix string) string {
	m.seq++
	return prefix + "-" + strconv.Itoa(m.seq)
}

func (m *memPlans) GetByDate(_ context.Context, date time.Time) (*models.DayPlan, error) {
	for _, p := range m.plans {
		if p.Date.Equal(date) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPlans) Get(_ context.Context, id string) (*models.DayPlan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, errNotFoundStub
	}
	cp := *p
	return &cp, nil
}

func (m *memPlans) Insert(_ context.Context, _ sqlx.ExtContext, plan *models.DayPlan) error {
	if plan.ID == "" {
		plan.ID = m.nextID("plan")
	}
	cp := *plan
	m.plans[plan.ID] = &cp
	return nil
}

func (m *memPlans) SetStatus(_ context.Context, _ sqlx.ExtContext, id string, status models.DayPlanStatus) error {
	p, ok := m.plans[id]
	if !ok {
		return errNotFoundStub
	}
	p.Status = status
	return nil
}

func (m *memPlans) DeleteWithEntries(_ context.Context, _ sqlx.ExtContext, id string) error {
	delete(m.plans, id)
	for entryID, e := range m.entries {
		if e.DayPlanID == id {
			delete(m.entries, entryID)
		}
	}
	var kept []models.SkippedSlot
	for _, s := range m.skipped {
		if s.DayPlanID != id {
			kept = append(kept, s)
		}
	}
	m.skipped = kept
	return nil
}

func (m *memPlans) InsertEntries(_ context.Context, _ sqlx.ExtContext, entries []models.DayPlanEntry) error {
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = m.nextID("entry")
		}
		m.entries[entries[i].ID] = entries[i]
	}
	return nil
}

func (m *memPlans) ListEntries(_ context.Context, planID string) ([]models.DayPlanEntry, error) {
	var out []models.DayPlanEntry
	for _, e := range m.entries {
		if e.DayPlanID == planID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out, nil
}

func (m *memPlans) ListEntryDetails(ctx context.Context, planID string) ([]models.DayPlanEntryDetail, error) {
	entries, _ := m.ListEntries(ctx, planID)
	out := make([]models.DayPlanEntryDetail, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.DayPlanEntryDetail{DayPlanEntry: e})
	}
	return out, nil
}

func (m *memPlans) GetEntry(_ context.Context, id string) (*models.DayPlanEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, errNotFoundStub
	}
	return &e, nil
}

func (m *memPlans) UpdateEntry(_ context.Context, _ sqlx.ExtContext, e models.DayPlanEntry) error {
	if _, ok := m.entries[e.ID]; !ok {
		return errNotFoundStub
	}
	m.entries[e.ID] = e
	return nil
}

func (m *memPlans) LookupEntries(_ context.Context, date time.Time, groupID, teacherID, roomID string) ([]models.DayPlanEntry, error) {
	var out []models.DayPlanEntry
	for _, e := range m.entries {
		if !e.Date.Equal(date) {
			continue
		}
		if groupID != "" && e.GroupID != groupID {
			continue
		}
		if teacherID != "" && (e.TeacherID == nil || *e.TeacherID != teacherID) {
			continue
		}
		if roomID != "" && e.RoomID != roomID {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *memPlans) InsertSkipped(_ context.Context, _ sqlx.ExtContext, slots []models.SkippedSlot) error {
	m.skipped = append(m.skipped, slots...)
	return nil
}

func (m *memPlans) ListSkipped(_ context.Context, planID string) ([]models.SkippedSlot, error) {
	var out []models.SkippedSlot
	for _, s := range m.skipped {
		if s.DayPlanID == planID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memHolidays struct {
	items []models.Holiday
}

func (m *memHolidays) CoveringDate(_ context.Context, d time.Time) ([]models.Holiday, error) {
	var out []models.Holiday
	for _, h := range m.items {
		if h.Covers(d) {
			out = append(out, h)
		}
	}
	return out, nil
}

type memProgress struct {
	seq     int
	records []models.ProgressRecord
}

func (m *memProgress) Insert(_ context.Context, _ sqlx.ExtContext, rec models.ProgressRecord) (*models.ProgressRecord, error) {
	m.seq++
	if rec.ID == "" {
		rec.ID = "rec-" + strconv.Itoa(m.seq)
	}
	m.records = append(m.records, rec)
	return &rec, nil
}

func (m *memProgress) ExistsByNote(_ context.Context, _ sqlx.ExtContext, loadSpecID, note string) (bool, error) {
	for _, r := range m.records {
		if r.LoadSpecID == loadSpecID && r.Note == note {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProgress) ListByLoadSpec(_ context.Context, loadSpecID string) ([]models.ProgressRecord, error) {
	var out []models.ProgressRecord
	for _, r := range m.records {
		if r.LoadSpecID == loadSpecID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memProgress) ListAll(context.Context) ([]models.ProgressRecord, error) {
	return append([]models.ProgressRecord(nil), m.records...), nil
}

type memMappings struct {
	candidates map[string][]models.ReplacementCandidate
}

func (m *memMappings) Candidates(_ context.Context, groupID, subjectID string) ([]models.ReplacementCandidate, error) {
	return m.candidates[groupID+"/"+subjectID], nil
}
