package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

func newDistributionFixture(t *testing.T, specs []models.LoadSpec, catalog *memCatalog) (*DistributionService, *memDists) {
	t.Helper()
	dists := &memDists{}
	svc := NewDistributionService(
		&memLoadSpecs{specs: specs},
		catalog,
		dists,
		newMockTx(t),
		nil,
		nil,
		testPlanningConfig(),
	)
	return svc, dists
}

func standardCatalog() *memCatalog {
	return &memCatalog{
		groups: []models.Group{
			{ID: "g1", Name: "ИС-11"},
			{ID: "g2", Name: "ИС-21"},
		},
		rooms: []models.Room{
			{ID: "r1", Name: "101", Kind: models.RoomKindStandard},
			{ID: "r2", Name: "102", Kind: models.RoomKindStandard},
			{ID: "gym", Name: "Спортзал", Kind: models.RoomKindGym},
		},
		teachers: []models.Teacher{
			{ID: "t1", Name: "Ахметова"},
			{ID: "t2", Name: "Беков"},
		},
	}
}

func TestDistributionGenerateSplitsParity(t *testing.T) {
	specs := []models.LoadSpec{
		{ID: "ls1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), RoomID: "r1",
			TotalHours: 90, WeeklyHours: 5, Preference: models.ParityPreferenceEven, Position: 1},
	}
	svc, store := newDistributionFixture(t, specs, standardCatalog())

	resp, err := svc.Generate(context.Background(), dto.GenerateDistributionsRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Generated)

	byParity := make(map[models.Parity]models.WeeklyDistribution)
	for _, d := range store.items {
		byParity[d.Parity] = d
	}
	assert.Equal(t, 3, byParity[models.ParityEven].PairCount)
	assert.Equal(t, 2, byParity[models.ParityOdd].PairCount)

	evenSlots, err := DecodeTemplateSlots(byParity[models.ParityEven])
	require.NoError(t, err)
	require.Len(t, evenSlots, 3)

	// spread over distinct weekdays, scanned ascending
	days := map[int]bool{}
	for _, slot := range evenSlots {
		days[slot.Weekday] = true
	}
	assert.Len(t, days, 3)
	assert.Empty(t, resp.Unplaced)
}

func TestDistributionGenerateDeterministic(t *testing.T) {
	specs := []models.LoadSpec{
		{ID: "ls1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), RoomID: "r1",
			WeeklyHours: 4, Preference: models.ParityPreferenceBalanced, Position: 1},
		{ID: "ls2", GroupID: "g2", SubjectID: "phys", TeacherID: strPtr("t1"), RoomID: "r2",
			WeeklyHours: 4, Preference: models.ParityPreferenceBalanced, Position: 2},
	}
	svc, store := newDistributionFixture(t, specs, standardCatalog())

	_, err := svc.Generate(context.Background(), dto.GenerateDistributionsRequest{})
	require.NoError(t, err)
	first := make([]string, 0, len(store.items))
	for _, d := range store.items {
		first = append(first, string(d.Slots))
	}

	_, err = svc.Generate(context.Background(), dto.GenerateDistributionsRequest{Force: true})
	require.NoError(t, err)
	second := make([]string, 0, len(store.items))
	for _, d := range store.items {
		second = append(second, string(d.Slots))
	}

	assert.Equal(t, first, second)
}

func TestDistributionGenerateRequiresForceToReplace(t *testing.T) {
	specs := []models.LoadSpec{
		{ID: "ls1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), RoomID: "r1",
			WeeklyHours: 2, Preference: models.ParityPreferenceBalanced, Position: 1},
	}
	svc, _ := newDistributionFixture(t, specs, standardCatalog())

	_, err := svc.Generate(context.Background(), dto.GenerateDistributionsRequest{})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), dto.GenerateDistributionsRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDistributionGenerateAvoidsTeacherOverlap(t *testing.T) {
	// both groups study in the morning shift and share the teacher
	catalog := standardCatalog()
	catalog.groups = []models.Group{
		{ID: "g1", Name: "ИС-11"},
		{ID: "g2", Name: "ИС-31"},
	}
	specs := []models.LoadSpec{
		{ID: "ls1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), RoomID: "r1",
			WeeklyHours: 8, Preference: models.ParityPreferenceBalanced, Position: 1},
		{ID: "ls2", GroupID: "g2", SubjectID: "phys", TeacherID: strPtr("t1"), RoomID: "r2",
			WeeklyHours: 8, Preference: models.ParityPreferenceBalanced, Position: 2},
	}
	svc, store := newDistributionFixture(t, specs, catalog)

	_, err := svc.Generate(context.Background(), dto.GenerateDistributionsRequest{})
	require.NoError(t, err)

	for _, parity := range []models.Parity{models.ParityEven, models.ParityOdd} {
		taken := map[string]bool{}
		for _, d := range store.items {
			if d.Parity != parity {
				continue
			}
			slots, err := DecodeTemplateSlots(d)
			require.NoError(t, err)
			for _, slot := range slots {
				key := templateSlotKey(slot.Weekday, slot.StartTime)
				assert.False(t, taken[key], "teacher double booked at %s", key)
				taken[key] = true
			}
		}
	}
}

func TestDistributionGenerateRecordsUnplaced(t *testing.T) {
	// 12 weekly hours need 6 pairs, but one group in one room has only
	// 4 slots x 5 days shared with a second heavy spec in the same room
	catalog := standardCatalog()
	specs := []models.LoadSpec{
		{ID: "ls1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), RoomID: "r1",
			WeeklyHours: 40, Preference: models.ParityPreferenceBalanced, Position: 1},
		{ID: "ls2", GroupID: "g2", SubjectID: "phys", TeacherID: strPtr("t2"), RoomID: "r1",
			WeeklyHours: 40, Preference: models.ParityPreferenceBalanced, Position: 2},
	}
	svc, store := newDistributionFixture(t, specs, catalog)

	resp, err := svc.Generate(context.Background(), dto.GenerateDistributionsRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Unplaced)
	assert.NotEmpty(t, store.unplaced)
	for _, u := range store.unplaced {
		assert.Equal(t, "no_free_slot", u.Reason)
	}
}

func TestDistributionWeeklyTemplateFilters(t *testing.T) {
	specs := []models.LoadSpec{
		{ID: "ls1", GroupID: "g1", SubjectID: "math", TeacherID: strPtr("t1"), RoomID: "r1",
			WeeklyHours: 2, Preference: models.ParityPreferenceBalanced, Position: 1},
		{ID: "ls2", GroupID: "g2", SubjectID: "phys", TeacherID: strPtr("t2"), RoomID: "r2",
			WeeklyHours: 2, Preference: models.ParityPreferenceBalanced, Position: 2},
	}
	svc, _ := newDistributionFixture(t, specs, standardCatalog())

	_, err := svc.Generate(context.Background(), dto.GenerateDistributionsRequest{})
	require.NoError(t, err)

	even, err := svc.WeeklyTemplate(context.Background(), dto.WeeklyTemplateQuery{Parity: "even"})
	require.NoError(t, err)
	require.Len(t, even, 2)
	for _, d := range even {
		assert.Equal(t, models.ParityEven, d.Parity)
	}

	g1 := filterTemplateByGroup(even, "g1")
	assert.Len(t, g1, 1)
}

func filterTemplateByGroup(dists []models.WeeklyDistribution, groupID string) []models.WeeklyDistribution {
	var out []models.WeeklyDistribution
	for _, d := range dists {
		if d.GroupID == groupID {
			out = append(out, d)
		}
	}
	return out
}
