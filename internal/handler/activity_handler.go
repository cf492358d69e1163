package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
	"github.com/aci-platform/requisition-api/pkg/response"
)

type activityService interface {
	List(ctx context.Context, limit int) ([]models.ActivityLog, bool, error)
}

// ActivityHandler serves the append-only activity feed.
type ActivityHandler struct {
	service activityService
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(svc activityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// List godoc
// @Summary List activity log entries
// @Description Returns activity entries newest first
// @Tags Activity
// @Produce json
// @Param limit query int false "Maximum entries to return"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /activity-logs [get]
func (h *ActivityHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	entries, degraded, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, nil, response.DegradedMeta(degraded))
}
