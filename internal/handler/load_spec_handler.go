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

type loadSpecService interface {
	Create(ctx context.Context, req dto.CreateLoadSpecRequest) (*models.LoadSpec, error)
	List(ctx context.Context) ([]models.LoadSpec, error)
	Get(ctx context.Context, id string) (*models.LoadSpec, error)
	Update(ctx context.Context, id string, req dto.UpdateLoadSpecRequest) (*models.LoadSpec, error)
	Delete(ctx context.Context, id string) error
}

// LoadSpecHandler exposes the semester load table.
type LoadSpecHandler struct {
	service loadSpecService
}

// NewLoadSpecHandler builds a new handler.
func NewLoadSpecHandler(service loadSpecService) *LoadSpecHandler {
	return &LoadSpecHandler{service: service}
}

// Create godoc
// @Summary Register a load row
// @Tags Load Specs
// @Accept json
// @Produce json
// @Param payload body dto.CreateLoadSpecRequest true "Load payload"
// @Success 201 {object} response.Envelope
// @Router /load-specs [post]
func (h *LoadSpecHandler) Create(c *gin.Context) {
	var req dto.CreateLoadSpecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid load payload"))
		return
	}
	spec, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, spec)
}

// List godoc
// @Summary List load rows in declared order
// @Tags Load Specs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /load-specs [get]
func (h *LoadSpecHandler) List(c *gin.Context) {
	specs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specs, nil)
}

// Get godoc
// @Summary Get one load row
// @Tags Load Specs
// @Produce json
// @Param id path string true "Load spec ID"
// @Success 200 {object} response.Envelope
// @Router /load-specs/{id} [get]
func (h *LoadSpecHandler) Get(c *gin.Context) {
	spec, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spec, nil)
}

// Update godoc
// @Summary Amend a load row
// @Tags Load Specs
// @Accept json
// @Produce json
// @Param id path string true "Load spec ID"
// @Param payload body dto.UpdateLoadSpecRequest true "Patch payload"
// @Success 200 {object} response.Envelope
// @Router /load-specs/{id} [patch]
func (h *LoadSpecHandler) Update(c *gin.Context) {
	var req dto.UpdateLoadSpecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid load patch payload"))
		return
	}
	spec, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spec, nil)
}

// Delete godoc
// @Summary Remove a load row
// @Tags Load Specs
// @Param id path string true "Load spec ID"
// @Success 204
// @Router /load-specs/{id} [delete]
func (h *LoadSpecHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
