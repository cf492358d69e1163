package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
)

type fakeReportSrv struct {
	report    *models.ServicesReport
	cached    bool
	reportErr error

	exportResp *models.ReportExport
	exportErr  error
	lastFormat models.ExportFormat

	downloadPath string
	downloadErr  error
}

func (f *fakeReportSrv) Services(context.Context) (*models.ServicesReport, bool, error) {
	return f.report, f.cached, f.reportErr
}

func (f *fakeReportSrv) Export(_ context.Context, format models.ExportFormat) (*models.ReportExport, error) {
	f.lastFormat = format
	return f.exportResp, f.exportErr
}

func (f *fakeReportSrv) OpenDownload(string) (*os.File, string, error) {
	if f.downloadErr != nil {
		return nil, "", f.downloadErr
	}
	file, err := os.Open(f.downloadPath)
	if err != nil {
		return nil, "", err
	}
	return file, filepath.Base(f.downloadPath), nil
}

func TestReportServicesCachedMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeReportSrv{
		report: &models.ServicesReport{Summary: models.ReportSummary{TotalRequests: 7}},
		cached: true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/services", nil)

	handler.Services(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cached"])
}

func TestReportExportNormalizesFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeReportSrv{exportResp: &models.ReportExport{Format: models.ExportCSV, FileName: "services_20260831.csv"}}
	handler := NewReportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/reports/export", map[string]interface{}{"format": "CSV"})

	handler.Export(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.ExportCSV, srv.lastFormat)
}

func TestReportExportMissingFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeReportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/reports/export", map[string]interface{}{})

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportDownloadStreamsFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "services_20260831.csv")
	require.NoError(t, os.WriteFile(path, []byte("Service,Total\nSafety & Security,4\n"), 0o644))

	handler := NewReportHandler(&fakeReportSrv{downloadPath: path})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/download/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "services_20260831.csv")
	assert.Contains(t, rec.Body.String(), "Safety & Security")
}

func TestReportDownloadRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeReportSrv{downloadErr: appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/download/forged", nil)
	c.Params = gin.Params{{Key: "token", Value: "forged"}}

	handler.Download(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
