package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aci-platform/requisition-api/internal/forms"
	"github.com/aci-platform/requisition-api/internal/models"
	"github.com/aci-platform/requisition-api/internal/service"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
	"github.com/aci-platform/requisition-api/pkg/response"
)

type requisitionService interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*models.Requisition, error)
	Review(ctx context.Context, req service.ReviewRequest) (*models.Requisition, error)
	Get(ctx context.Context, id string) (*models.Requisition, bool, error)
	List(ctx context.Context, filter models.RequisitionFilter) ([]models.Requisition, bool, error)
}

// RequisitionHandler wires the requisition lifecycle to HTTP endpoints.
type RequisitionHandler struct {
	service requisitionService
}

// NewRequisitionHandler constructs the handler.
func NewRequisitionHandler(svc requisitionService) *RequisitionHandler {
	return &RequisitionHandler{service: svc}
}

type createRequisitionRequest struct {
	ServiceID   string              `json:"service_id" binding:"required"`
	Values      forms.Values        `json:"values" binding:"required"`
	Attachments []models.Attachment `json:"attachments"`
}

type reviewRequisitionRequest struct {
	Status  string  `json:"status" binding:"required"`
	Comment *string `json:"comment"`
}

// Create godoc
// @Summary Submit a requisition
// @Description Validates the form payload for the selected service and files a new request
// @Tags Requisitions
// @Accept json
// @Produce json
// @Param payload body createRequisitionRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /requisitions [post]
func (h *RequisitionHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req createRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	created, err := h.service.Submit(c.Request.Context(), service.SubmitRequest{
		ServiceID:   models.ServiceType(req.ServiceID),
		Values:      req.Values,
		Attachments: req.Attachments,
		Requester:   models.ProfileFromClaims(claims),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// List godoc
// @Summary List requisitions
// @Description Lists requisitions newest first with optional filters
// @Tags Requisitions
// @Produce json
// @Param status query string false "Status filter"
// @Param service query string false "Service category filter"
// @Param search query string false "Search over requester, id and department"
// @Param mine query bool false "Only the caller's own requests"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /requisitions [get]
func (h *RequisitionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.RequisitionFilter{
		Status:    models.RequisitionStatus(strings.TrimSpace(c.Query("status"))),
		ServiceID: models.ServiceType(strings.TrimSpace(c.Query("service"))),
		Search:    strings.TrimSpace(c.Query("search")),
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown status filter"))
		return
	}
	// Employees only ever see their own requests; admins opt in via ?mine.
	if claims.Role != models.RoleAdmin || c.Query("mine") == "true" {
		filter.RequesterID = claims.UserID
	}

	items, degraded, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, nil, response.DegradedMeta(degraded))
}

// Get godoc
// @Summary Get a requisition
// @Tags Requisitions
// @Produce json
// @Param id path string true "Requisition ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requisitions/{id} [get]
func (h *RequisitionHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requisition, degraded, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if claims.Role != models.RoleAdmin && requisition.RequesterID != claims.UserID {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	response.JSON(c, http.StatusOK, requisition, nil, response.DegradedMeta(degraded))
}

// UpdateStatus godoc
// @Summary Review a requisition
// @Description Moves a requisition to In Review, Approved or Rejected
// @Tags Requisitions
// @Accept json
// @Produce json
// @Param id path string true "Requisition ID"
// @Param payload body reviewRequisitionRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requisitions/{id}/status [patch]
func (h *RequisitionHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req reviewRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}

	updated, err := h.service.Review(c.Request.Context(), service.ReviewRequest{
		ID:      c.Param("id"),
		Status:  models.RequisitionStatus(req.Status),
		Comment: req.Comment,
		Actor:   claims.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, updated, nil)
}
