package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
	"github.com/noah-isme/college-plan-api/pkg/export"
)

type dayPlanServiceMock struct {
	planResp    *dto.DayPlanView
	planErr     error
	getResp     *dto.DayPlanView
	getErr      error
	approveResp *dto.ApproveDayResponse
	approveErr  error
	bulkResp    *dto.BulkUpdateResponse
	lastPlanReq dto.PlanDayRequest
	planCalled  bool
}

func (m *dayPlanServiceMock) PlanDay(ctx context.Context, req dto.PlanDayRequest) (*dto.DayPlanView, error) {
	m.planCalled = true
	m.lastPlanReq = req
	return m.planResp, m.planErr
}

func (m *dayPlanServiceMock) GetDayPlan(ctx context.Context, date string) (*dto.DayPlanView, error) {
	return m.getResp, m.getErr
}

func (m *dayPlanServiceMock) Analyze(ctx context.Context, date string) (*models.ValidationReport, error) {
	return &models.ValidationReport{CanApprove: true}, nil
}

func (m *dayPlanServiceMock) Approve(ctx context.Context, date string, req dto.ApproveDayRequest) (*dto.ApproveDayResponse, error) {
	return m.approveResp, m.approveErr
}

func (m *dayPlanServiceMock) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*models.DayPlanEntry, error) {
	return &models.DayPlanEntry{ID: entryID}, nil
}

func (m *dayPlanServiceMock) BulkUpdate(ctx context.Context, date string, req dto.BulkUpdateRequest) (*dto.BulkUpdateResponse, error) {
	return m.bulkResp, nil
}

func (m *dayPlanServiceMock) ReplaceEntryTeacher(ctx context.Context, entryID string, req dto.ReplaceTeacherRequest) (*models.DayPlanEntry, error) {
	return &models.DayPlanEntry{ID: entryID, TeacherID: &req.TeacherID}, nil
}

func (m *dayPlanServiceMock) ReplaceVacantAuto(ctx context.Context, date string) (*dto.ReplaceVacantAutoResponse, error) {
	return &dto.ReplaceVacantAutoResponse{}, nil
}

func (m *dayPlanServiceMock) LookupEntries(ctx context.Context, q dto.EntryLookupQuery) ([]models.DayPlanEntry, error) {
	return nil, nil
}

func newDayPlanTestHandler(mockSvc *dayPlanServiceMock) *DayPlanHandler {
	return NewDayPlanHandler(mockSvc, nil, export.NewCSVExporter(), export.NewPDFExporter())
}

func TestDayPlanHandlerPlan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &dayPlanServiceMock{
		planResp: &dto.DayPlanView{Date: "2025-12-23", Parity: models.ParityEven},
	}
	handler := newDayPlanTestHandler(mockSvc)

	payload, _ := json.Marshal(dto.PlanDayRequest{Date: "2025-12-23", Force: true})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/day-plans", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Plan(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.planCalled)
	assert.True(t, mockSvc.lastPlanReq.Force)
}

func TestDayPlanHandlerPlanInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newDayPlanTestHandler(&dayPlanServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/day-plans", bytes.NewBufferString(`{"date":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Plan(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDayPlanHandlerApproveConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &dayPlanServiceMock{approveErr: appErrors.ErrConstraint}
	handler := newDayPlanTestHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/day-plans/2025-12-23/approve", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "date", Value: "2025-12-23"}}

	handler.Approve(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestDayPlanHandlerBulkUpdateRejectedBatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &dayPlanServiceMock{
		bulkResp: &dto.BulkUpdateResponse{Applied: false, Results: []dto.BulkItemResult{{EntryID: "e1"}}},
	}
	handler := newDayPlanTestHandler(mockSvc)

	payload, _ := json.Marshal(dto.BulkUpdateRequest{Updates: []dto.BulkEntryUpdate{{EntryID: "e1"}}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/day-plans/2025-12-23/entries", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "date", Value: "2025-12-23"}}

	handler.BulkUpdate(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestDayPlanHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	teacher := "Ахметова"
	mockSvc := &dayPlanServiceMock{
		getResp: &dto.DayPlanView{
			Date:   "2025-12-23",
			Parity: models.ParityEven,
			Entries: []models.DayPlanEntryDetail{{
				DayPlanEntry: models.DayPlanEntry{StartTime: "08:00", EndTime: "09:30", Status: models.EntryStatusPlanned},
				GroupName:    "ИС-11",
				SubjectName:  "Математика",
				TeacherName:  &teacher,
				RoomName:     "205",
			}},
		},
	}
	handler := newDayPlanTestHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/day-plans/2025-12-23/export?format=csv", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "date", Value: "2025-12-23"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "day-plan-2025-12-23.csv")
	assert.Contains(t, w.Body.String(), "ИС-11")
}
