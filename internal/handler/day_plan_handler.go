package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	"github.com/noah-isme/college-plan-api/internal/service"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
	"github.com/noah-isme/college-plan-api/pkg/export"
	"github.com/noah-isme/college-plan-api/pkg/response"
)

type dayPlanService interface {
	PlanDay(ctx context.Context, req dto.PlanDayRequest) (*dto.DayPlanView, error)
	GetDayPlan(ctx context.Context, date string) (*dto.DayPlanView, error)
	Analyze(ctx context.Context, date string) (*models.ValidationReport, error)
	Approve(ctx context.Context, date string, req dto.ApproveDayRequest) (*dto.ApproveDayResponse, error)
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*models.DayPlanEntry, error)
	BulkUpdate(ctx context.Context, date string, req dto.BulkUpdateRequest) (*dto.BulkUpdateResponse, error)
	ReplaceEntryTeacher(ctx context.Context, entryID string, req dto.ReplaceTeacherRequest) (*models.DayPlanEntry, error)
	ReplaceVacantAuto(ctx context.Context, date string) (*dto.ReplaceVacantAutoResponse, error)
	LookupEntries(ctx context.Context, q dto.EntryLookupQuery) ([]models.DayPlanEntry, error)
}

// DayPlanHandler exposes day plan generation, inspection and mutation.
type DayPlanHandler struct {
	service dayPlanService
	metrics *service.MetricsService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewDayPlanHandler builds a new handler.
func NewDayPlanHandler(svc dayPlanService, metrics *service.MetricsService, csv *export.CSVExporter, pdf *export.PDFExporter) *DayPlanHandler {
	return &DayPlanHandler{service: svc, metrics: metrics, csv: csv, pdf: pdf}
}

// Plan godoc
// @Summary Build the plan for one date
// @Tags Day Plans
// @Accept json
// @Produce json
// @Param payload body dto.PlanDayRequest true "Date and options"
// @Success 200 {object} response.Envelope
// @Router /day-plans [post]
func (h *DayPlanHandler) Plan(c *gin.Context) {
	var req dto.PlanDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	view, err := h.service.PlanDay(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	skippedByReason := make(map[string]int)
	for _, s := range view.Skipped {
		skippedByReason[string(s.Reason)]++
	}
	h.metrics.ObservePlanGeneration(len(view.Entries), skippedByReason)
	response.JSON(c, http.StatusOK, view, nil)
}

// Get godoc
// @Summary Get the plan of one date with its weekly diff
// @Tags Day Plans
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /day-plans/{date} [get]
func (h *DayPlanHandler) Get(c *gin.Context) {
	view, err := h.service.GetDayPlan(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Report godoc
// @Summary Validate the plan of one date
// @Tags Day Plans
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /day-plans/{date}/report [get]
func (h *DayPlanHandler) Report(c *gin.Context) {
	report, err := h.service.Analyze(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Approve godoc
// @Summary Approve the plan of one date and record delivered hours
// @Tags Day Plans
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param payload body dto.ApproveDayRequest false "Approval options"
// @Success 200 {object} response.Envelope
// @Router /day-plans/{date}/approve [post]
func (h *DayPlanHandler) Approve(c *gin.Context) {
	var req dto.ApproveDayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
			return
		}
	}
	result, err := h.service.Approve(c.Request.Context(), c.Param("date"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveApproval()

	var meta map[string]interface{}
	if claims := claimsFromContext(c); claims != nil {
		meta = map[string]interface{}{"approvedBy": claims.Username}
	}
	response.JSON(c, http.StatusOK, result, meta)
}

// UpdateEntry godoc
// @Summary Edit one entry manually
// @Tags Day Plans
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body dto.UpdateEntryRequest true "Entry patch"
// @Success 200 {object} response.Envelope
// @Router /entries/{id} [patch]
func (h *DayPlanHandler) UpdateEntry(c *gin.Context) {
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid entry patch payload"))
		return
	}
	entry, err := h.service.UpdateEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// BulkUpdate godoc
// @Summary Apply several entry edits atomically
// @Tags Day Plans
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param payload body dto.BulkUpdateRequest true "Batched edits"
// @Success 200 {object} response.Envelope
// @Router /day-plans/{date}/entries [patch]
func (h *DayPlanHandler) BulkUpdate(c *gin.Context) {
	var req dto.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk payload"))
		return
	}
	result, err := h.service.BulkUpdate(c.Request.Context(), c.Param("date"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if !result.Applied {
		status = http.StatusConflict
	}
	response.JSON(c, status, result, nil)
}

// ReplaceTeacher godoc
// @Summary Assign a specific teacher to one entry
// @Tags Day Plans
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body dto.ReplaceTeacherRequest true "Replacement payload"
// @Success 200 {object} response.Envelope
// @Router /entries/{id}/teacher [put]
func (h *DayPlanHandler) ReplaceTeacher(c *gin.Context) {
	var req dto.ReplaceTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid replacement payload"))
		return
	}
	entry, err := h.service.ReplaceEntryTeacher(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// ReplaceVacant godoc
// @Summary Fill vacant entries from the candidate mapping
// @Tags Day Plans
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /day-plans/{date}/replace-vacant [post]
func (h *DayPlanHandler) ReplaceVacant(c *gin.Context) {
	result, err := h.service.ReplaceVacantAuto(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// LookupEntries godoc
// @Summary Filter entries of one date by group, teacher or room
// @Tags Day Plans
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param groupId query string false "Group ID filter"
// @Param teacherId query string false "Teacher ID filter"
// @Param roomId query string false "Room ID filter"
// @Success 200 {object} response.Envelope
// @Router /entries [get]
func (h *DayPlanHandler) LookupEntries(c *gin.Context) {
	q := dto.EntryLookupQuery{
		Date:      c.Query("date"),
		GroupID:   c.Query("groupId"),
		TeacherID: c.Query("teacherId"),
		RoomID:    c.Query("roomId"),
	}
	entries, err := h.service.LookupEntries(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Export godoc
// @Summary Export the plan of one date as CSV or PDF
// @Tags Day Plans
// @Produce octet-stream
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Router /day-plans/{date}/export [get]
func (h *DayPlanHandler) Export(c *gin.Context) {
	date := c.Param("date")
	view, err := h.service.GetDayPlan(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	data := dayPlanDataset(view.Entries)

	switch c.DefaultQuery("format", "csv") {
	case "pdf":
		title := "Day plan " + date
		subtitle := fmt.Sprintf("%s week, %d lessons", view.Parity, len(view.Entries))
		raw, err := h.pdf.Render(data, title, subtitle)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=day-plan-%s.pdf", date))
		c.Data(http.StatusOK, "application/pdf", raw)
	case "csv":
		raw, err := h.csv.Render(data)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=day-plan-%s.csv", date))
		c.Data(http.StatusOK, "text/csv", raw)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown export format"))
	}
}

func dayPlanDataset(entries []models.DayPlanEntryDetail) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Start", "End", "Group", "Subject", "Teacher", "Room", "Status"},
	}
	for _, e := range entries {
		teacher := ""
		if e.TeacherName != nil {
			teacher = *e.TeacherName
		}
		data.Rows = append(data.Rows, map[string]string{
			"Start":   e.StartTime,
			"End":     e.EndTime,
			"Group":   e.GroupName,
			"Subject": e.SubjectName,
			"Teacher": teacher,
			"Room":    e.RoomName,
			"Status":  string(e.Status),
		})
	}
	return data
}
