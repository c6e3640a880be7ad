package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-plan-api/internal/models"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

func newDayPlanRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestDayPlanRepositoryGetByDateNone(t *testing.T) {
	db, mock, cleanup := newDayPlanRepoMock(t)
	defer cleanup()
	repo := NewDayPlanRepository(db)

	date := time.Date(2025, 12, 23, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, date, parity, status, created_at, updated_at FROM day_plans WHERE date = $1")).
		WithArgs(date).
		WillReturnError(sql.ErrNoRows)

	plan, err := repo.GetByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Nil(t, plan, "missing plans are not an error")
}

func TestDayPlanRepositoryGetByDate(t *testing.T) {
	db, mock, cleanup := newDayPlanRepoMock(t)
	defer cleanup()
	repo := NewDayPlanRepository(db)

	date := time.Date(2025, 12, 23, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "date", "parity", "status", "created_at", "updated_at"}).
		AddRow("plan-1", date, "even", "draft", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, date, parity, status, created_at, updated_at FROM day_plans WHERE date = $1")).
		WithArgs(date).
		WillReturnRows(rows)

	plan, err := repo.GetByDate(context.Background(), date)
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "plan-1", plan.ID)
	assert.Equal(t, models.ParityEven, plan.Parity)
	assert.Equal(t, models.DayPlanStatusDraft, plan.Status)
}

func TestDayPlanRepositoryInsertAssignsID(t *testing.T) {
	db, mock, cleanup := newDayPlanRepoMock(t)
	defer cleanup()
	repo := NewDayPlanRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO day_plans")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	plan := &models.DayPlan{
		Date:   time.Date(2025, 12, 23, 0, 0, 0, 0, time.UTC),
		Parity: models.ParityEven,
		Status: models.DayPlanStatusDraft,
	}
	require.NoError(t, repo.Insert(context.Background(), nil, plan))
	assert.NotEmpty(t, plan.ID)
	assert.False(t, plan.CreatedAt.IsZero())
}

func TestDayPlanRepositoryDeleteWithEntriesOrder(t *testing.T) {
	db, mock, cleanup := newDayPlanRepoMock(t)
	defer cleanup()
	repo := NewDayPlanRepository(db)

	// children first, then the header
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM skipped_slots WHERE day_plan_id = $1")).
		WithArgs("plan-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM day_plan_entries WHERE day_plan_id = $1")).
		WithArgs("plan-1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM day_plans WHERE id = $1")).
		WithArgs("plan-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteWithEntries(context.Background(), nil, "plan-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDayPlanRepositoryUpdateEntryNotFound(t *testing.T) {
	db, mock, cleanup := newDayPlanRepoMock(t)
	defer cleanup()
	repo := NewDayPlanRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE day_plan_entries SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateEntry(context.Background(), nil, models.DayPlanEntry{ID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDayPlanRepositoryLookupEntriesBuildsFilters(t *testing.T) {
	db, mock, cleanup := newDayPlanRepoMock(t)
	defer cleanup()
	repo := NewDayPlanRepository(db)

	date := time.Date(2025, 12, 23, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "day_plan_id", "load_spec_id", "group_id", "subject_id", "teacher_id", "room_id",
		"date", "start_time", "end_time", "status", "origin", "is_override", "created_at", "updated_at",
	}).AddRow(
		"e1", "plan-1", "ls1", "g1", "math", sql.NullString{String: "t1", Valid: true}, "r1",
		date, "08:00", "09:30", "planned", "weekly", false, now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE date = $1 AND group_id = $2 AND room_id = $3")).
		WithArgs(date, "g1", "r1").
		WillReturnRows(rows)

	entries, err := repo.LookupEntries(context.Background(), date, "g1", "", "r1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)
	require.NotNil(t, entries[0].TeacherID)
	assert.Equal(t, "t1", *entries[0].TeacherID)
}

func TestDayPlanRepositoryInsertSkippedEmpty(t *testing.T) {
	db, mock, cleanup := newDayPlanRepoMock(t)
	defer cleanup()
	repo := NewDayPlanRepository(db)

	require.NoError(t, repo.InsertSkipped(context.Background(), nil, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
