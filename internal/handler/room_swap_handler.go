package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-plan-api/internal/dto"
	"github.com/noah-isme/college-plan-api/internal/service"
	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
	"github.com/noah-isme/college-plan-api/pkg/response"
)

type roomSwapService interface {
	Propose(ctx context.Context, req dto.RoomSwapRequest) (*dto.RoomSwapResponse, error)
	Execute(ctx context.Context, req dto.RoomSwapRequest) (*dto.RoomSwapResponse, error)
}

// RoomSwapHandler exposes cascading room reassignment.
type RoomSwapHandler struct {
	service roomSwapService
	metrics *service.MetricsService
}

// NewRoomSwapHandler builds a new handler.
func NewRoomSwapHandler(svc roomSwapService, metrics *service.MetricsService) *RoomSwapHandler {
	return &RoomSwapHandler{service: svc, metrics: metrics}
}

// Propose godoc
// @Summary Compute a room swap chain without applying it
// @Tags Room Swaps
// @Accept json
// @Produce json
// @Param payload body dto.RoomSwapRequest true "Swap request"
// @Success 200 {object} response.Envelope
// @Router /room-swaps/propose [post]
func (h *RoomSwapHandler) Propose(c *gin.Context) {
	var req dto.RoomSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap payload"))
		return
	}
	result, err := h.service.Propose(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Execute godoc
// @Summary Apply a room swap chain atomically
// @Tags Room Swaps
// @Accept json
// @Produce json
// @Param payload body dto.RoomSwapRequest true "Swap request"
// @Success 200 {object} response.Envelope
// @Router /room-swaps/execute [post]
func (h *RoomSwapHandler) Execute(c *gin.Context) {
	var req dto.RoomSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap payload"))
		return
	}
	result, err := h.service.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Executed {
		h.metrics.ObserveSwapChain(len(result.Moves))
	}
	response.JSON(c, http.StatusOK, result, nil)
}
