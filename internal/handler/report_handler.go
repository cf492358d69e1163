package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
	"github.com/aci-platform/requisition-api/pkg/response"
)

type reportService interface {
	Services(ctx context.Context) (*models.ServicesReport, bool, error)
	Export(ctx context.Context, format models.ExportFormat) (*models.ReportExport, error)
	OpenDownload(token string) (*os.File, string, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

type exportReportRequest struct {
	Format string `json:"format" binding:"required"`
}

// Services godoc
// @Summary Per-service report
// @Description Aggregated totals and approval rates per service category
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/services [get]
func (h *ReportHandler) Services(c *gin.Context) {
	report, cached, err := h.service.Services(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	var meta map[string]interface{}
	if cached {
		meta = map[string]interface{}{"cached": true}
	}
	response.JSON(c, http.StatusOK, report, nil, meta)
}

// Export godoc
// @Summary Export the service report
// @Description Renders the report as CSV or PDF and returns a signed download URL
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body exportReportRequest true "Export format"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req exportReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	result, err := h.service.Export(c.Request.Context(), models.ExportFormat(strings.ToLower(req.Format)))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Download godoc
// @Summary Download an exported report via signed token
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/download/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	file, relPath, err := h.service.OpenDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not read export file"))
		return
	}

	filename := path.Base(relPath)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentTypeFor(filename), file, nil)
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
