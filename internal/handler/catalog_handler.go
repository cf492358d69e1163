package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aci-platform/requisition-api/internal/models"
	"github.com/aci-platform/requisition-api/pkg/response"
)

// CatalogHandler serves the static service category catalog.
type CatalogHandler struct{}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// List godoc
// @Summary List service categories
// @Description Returns every requestable service category in display order
// @Tags Services
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /services [get]
func (h *CatalogHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.Catalog(), nil)
}
