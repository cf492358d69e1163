package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
	"github.com/aci-platform/requisition-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (models.StatusCounts, bool, error)
}

// DashboardHandler serves the portal dashboard summary.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats godoc
// @Summary Dashboard status counts
// @Description Totals of requisitions per lifecycle state
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	counts, degraded, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil, response.DegradedMeta(degraded))
}
