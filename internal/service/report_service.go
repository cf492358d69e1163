package service

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aci-platform/requisition-api/internal/models"
	appErrors "github.com/aci-platform/requisition-api/pkg/errors"
	"github.com/aci-platform/requisition-api/pkg/export"
	"github.com/aci-platform/requisition-api/pkg/storage"
)

type reportAggregator interface {
	StatusCounts(ctx context.Context) (models.StatusCounts, error)
	AggregateByService(ctx context.Context) ([]models.ServiceStatusCount, error)
	CountDistinctRequesters(ctx context.Context) (int, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

const reportCacheKey = "reports:services"

// ReportServiceConfig tunes report caching and export retention.
type ReportServiceConfig struct {
	APIPrefix string
	CacheTTL  time.Duration
	ResultTTL time.Duration
}

// ReportService builds the per-service performance report and renders
// downloadable exports.
type ReportService struct {
	aggregates reportAggregator
	cache      *CacheService
	storage    exportStorage
	signer     *storage.SignedURLSigner
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
	cfg        ReportServiceConfig
	now        func() time.Time
}

// NewReportService constructs a ReportService. cache, storage and signer may
// be nil; the corresponding features are then disabled.
func NewReportService(aggregates reportAggregator, cache *CacheService, store exportStorage, signer *storage.SignedURLSigner, cfg ReportServiceConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		aggregates: aggregates,
		cache:      cache,
		storage:    store,
		signer:     signer,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Services returns the portal-wide report. The boolean reports a cache hit.
func (s *ReportService) Services(ctx context.Context) (*models.ServicesReport, bool, error) {
	if s.cache != nil {
		var cached models.ServicesReport
		if hit, err := s.cache.Get(ctx, reportCacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	report, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, reportCacheKey, report, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("report cache write failed", zap.Error(err))
		}
	}
	return report, false, nil
}

// InvalidateCache drops the cached report, called after requisition writes.
func (s *ReportService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, reportCacheKey); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}

// Export renders the current report in the requested format, stores the file
// and returns a signed download descriptor.
func (s *ReportService) Export(ctx context.Context, format models.ExportFormat) (*models.ReportExport, error) {
	if s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "report export is not configured")
	}

	report, _, err := s.Services(ctx)
	if err != nil {
		return nil, err
	}
	dataset := s.buildDataset(report)

	var payload []byte
	switch format {
	case models.ExportCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := uuid.NewString()
	filename := fmt.Sprintf("services_%s.%s", s.now().UTC().Format("20060102_150405"), format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	return &models.ReportExport{
		ID:        exportID,
		Format:    format,
		FileName:  filename,
		URL:       fmt.Sprintf("%s/reports/download/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// OpenDownload validates the token and returns a handle to the stored file.
func (s *ReportService) OpenDownload(token string) (*os.File, string, error) {
	if s.storage == nil || s.signer == nil {
		return nil, "", appErrors.Clone(appErrors.ErrInternal, "report export is not configured")
	}
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, relPath, nil
}

// Cleanup removes expired export files.
func (s *ReportService) Cleanup() ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func (s *ReportService) compose(ctx context.Context) (*models.ServicesReport, error) {
	counts, err := s.aggregates.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	buckets, err := s.aggregates.AggregateByService(ctx)
	if err != nil {
		return nil, err
	}
	requesters, err := s.aggregates.CountDistinctRequesters(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.ServicesReport{
		Summary: models.ReportSummary{
			TotalRequests:    counts.Total,
			TotalApproved:    counts.Approved,
			CompletionRate:   percentage(counts.Approved, counts.Total),
			UniqueRequesters: requesters,
		},
	}

	perService := make(map[models.ServiceType]*models.ServiceReport)
	for _, bucket := range buckets {
		entry := perService[bucket.ServiceID]
		if entry == nil {
			title := string(bucket.ServiceID)
			if category, ok := models.LookupService(bucket.ServiceID); ok {
				title = category.Title
			}
			entry = &models.ServiceReport{ServiceID: bucket.ServiceID, Title: title}
			perService[bucket.ServiceID] = entry
		}
		entry.Total += bucket.Count
		switch bucket.Status {
		case models.StatusApproved:
			entry.Approved += bucket.Count
		case models.StatusRejected:
			entry.Rejected += bucket.Count
		default:
			// Pending and In Review both count as open work.
			entry.Pending += bucket.Count
		}
	}

	// Catalog order, services without traffic omitted.
	for _, category := range models.Catalog() {
		entry, ok := perService[category.ID]
		if !ok || entry.Total == 0 {
			continue
		}
		entry.ApprovalRate = percentage(entry.Approved, entry.Total)
		report.Services = append(report.Services, *entry)
	}
	return report, nil
}

func (s *ReportService) buildDataset(report *models.ServicesReport) export.Dataset {
	rows := make([]map[string]string, 0, len(report.Services)+1)
	for _, svc := range report.Services {
		rows = append(rows, map[string]string{
			"Service":           svc.Title,
			"Total":             fmt.Sprintf("%d", svc.Total),
			"Approved":          fmt.Sprintf("%d", svc.Approved),
			"Pending":           fmt.Sprintf("%d", svc.Pending),
			"Rejected":          fmt.Sprintf("%d", svc.Rejected),
			"Approval Rate (%)": fmt.Sprintf("%d", svc.ApprovalRate),
		})
	}
	rows = append(rows, map[string]string{
		"Service":           "All Services",
		"Total":             fmt.Sprintf("%d", report.Summary.TotalRequests),
		"Approved":          fmt.Sprintf("%d", report.Summary.TotalApproved),
		"Pending":           "",
		"Rejected":          "",
		"Approval Rate (%)": fmt.Sprintf("%d", report.Summary.CompletionRate),
	})
	return export.Dataset{
		Title:   "Annual Service Report",
		Headers: []string{"Service", "Total", "Approved", "Pending", "Rejected", "Approval Rate (%)"},
		Rows:    rows,
	}
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
