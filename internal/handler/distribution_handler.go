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

type distributionService interface {
	Generate(ctx context.Context, req dto.GenerateDistributionsRequest) (*dto.GenerateDistributionsResponse, error)
	WeeklyTemplate(ctx context.Context, q dto.WeeklyTemplateQuery) ([]models.WeeklyDistribution, error)
}

// DistributionHandler exposes weekly template generation.
type DistributionHandler struct {
	service distributionService
}

// NewDistributionHandler builds a new handler.
func NewDistributionHandler(service distributionService) *DistributionHandler {
	return &DistributionHandler{service: service}
}

// Generate godoc
// @Summary Generate weekly distributions from the load table
// @Tags Planning
// @Accept json
// @Produce json
// @Param payload body dto.GenerateDistributionsRequest true "Generation options"
// @Success 200 {object} response.Envelope
// @Router /planning/distributions [post]
func (h *DistributionHandler) Generate(c *gin.Context) {
	var req dto.GenerateDistributionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Weekly godoc
// @Summary Get the weekly template
// @Tags Planning
// @Produce json
// @Param parity query string false "Week parity (even|odd)"
// @Param groupId query string false "Group ID filter"
// @Success 200 {object} response.Envelope
// @Router /planning/weekly [get]
func (h *DistributionHandler) Weekly(c *gin.Context) {
	q := dto.WeeklyTemplateQuery{
		Parity:  c.Query("parity"),
		GroupID: c.Query("groupId"),
	}
	dists, err := h.service.WeeklyTemplate(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dists, nil)
}
