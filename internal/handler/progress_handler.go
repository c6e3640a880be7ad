package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/models"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
	"github.com/noah-isme/college-plan-api/pkg/response"
)

type progressService interface {
	Record(ctx context.Context, req dto.CreateProgressRequest) (*models.ProgressRecord, error)
	Summary(ctx context.Context, q dto.ProgressQuery) ([]models.ProgressSummary, error)
	History(ctx context.Context, loadSpecID string) ([]models.ProgressRecord, error)
}

// ProgressHandler exposes delivered-hour tracking.
type ProgressHandler struct {
	service progressService
}

// NewProgressHandler builds a new handler.
func NewProgressHandler(service progressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// Record godoc
// @Summary Record manually delivered hours
// @Tags Progress
// @Accept json
// @Produce json
// @Param payload body dto.CreateProgressRequest true "Progress payload"
// @Success 201 {object} response.Envelope
// @Router /progress [post]
func (h *ProgressHandler) Record(c *gin.Context) {
	var req dto.CreateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid progress payload"))
		return
	}
	record, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Summary godoc
// @Summary Aggregate delivery against the load table
// @Tags Progress
// @Produce json
// @Param groupId query string false "Group ID filter"
// @Success 200 {object} response.Envelope
// @Router /progress/summary [get]
func (h *ProgressHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), dto.ProgressQuery{GroupID: c.Query("groupId")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// History godoc
// @Summary List one load row's progress records
// @Tags Progress
// @Produce json
// @Param id path string true "Load spec ID"
// @Success 200 {object} response.Envelope
// @Router /progress/{id}/history [get]
func (h *ProgressHandler) History(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}
