package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/aci-platform/requisition-api/api/swagger"
	"github.com/aci-platform/requisition-api/internal/handler"
	"github.com/aci-platform/requisition-api/internal/memstore"
	"github.com/aci-platform/requisition-api/internal/middleware"
	"github.com/aci-platform/requisition-api/internal/models"
	"github.com/aci-platform/requisition-api/internal/realtime"
	"github.com/aci-platform/requisition-api/internal/repository"
	"github.com/aci-platform/requisition-api/internal/service"
	"github.com/aci-platform/requisition-api/pkg/cache"
	"github.com/aci-platform/requisition-api/pkg/config"
	"github.com/aci-platform/requisition-api/pkg/database"
	"github.com/aci-platform/requisition-api/pkg/logger"
	corsmiddleware "github.com/aci-platform/requisition-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aci-platform/requisition-api/pkg/middleware/requestid"
	"github.com/aci-platform/requisition-api/pkg/storage"
)

// changeFanout multiplexes domain changes to the websocket feed and the
// report cache. Either leg may be absent.
type changeFanout struct {
	feed    *realtime.Notifier
	reports *service.ReportService
}

func (f *changeFanout) NotifyRequisition(req models.Requisition) {
	if f.feed != nil {
		f.feed.NotifyRequisition(req)
	}
	if f.reports != nil {
		f.reports.InvalidateCache(context.Background())
	}
}

func (f *changeFanout) NotifyActivity(entry models.ActivityLog) {
	if f.feed != nil {
		f.feed.NotifyActivity(entry)
	}
}

// @title ACI Requisition API
// @version 1.0.0
// @description Internal service requisition portal
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	// Redis is optional; a missing cache degrades reports to recomputation.
	var cacheSvc *service.CacheService
	if redisClient, redisErr := cache.NewRedis(cfg.Redis); redisErr != nil {
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", redisErr)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, true)
		defer redisClient.Close() //nolint:errcheck
	}

	// The seeded memory store doubles as the degraded-read fallback when the
	// primary store is Postgres.
	var fallback *memstore.Store
	if cfg.Store.DegradedFallback || cfg.Store.Driver == config.StoreMemory {
		fallback = memstore.NewSeeded()
	}

	var (
		reqStore   *repository.RequisitionRepository
		aggregator interface {
			StatusCounts(ctx context.Context) (models.StatusCounts, error)
			AggregateByService(ctx context.Context) ([]models.ServiceStatusCount, error)
			CountDistinctRequesters(ctx context.Context) (int, error)
		}
		activityRepo *repository.ActivityRepository
		profileRepo  *repository.ProfileRepository
	)

	switch cfg.Store.Driver {
	case config.StoreMemory:
		aggregator = fallback
	default:
		db, dbErr := database.NewPostgres(cfg.Database)
		if dbErr != nil {
			logr.Sugar().Fatalw("failed to connect to postgres", "error", dbErr)
		}
		defer db.Close() //nolint:errcheck
		reqStore = repository.NewRequisitionRepository(db)
		activityRepo = repository.NewActivityRepository(db)
		profileRepo = repository.NewProfileRepository(db)
		aggregator = reqStore
	}

	// Report exports live on local disk behind HMAC signed URLs.
	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		exportStore, storeErr := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if storeErr != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", storeErr)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc = service.NewReportService(aggregator, cacheSvc, exportStore, signer, service.ReportServiceConfig{
			APIPrefix: cfg.APIPrefix,
			CacheTTL:  cfg.Reports.CacheTTL,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr)

		go func() {
			ticker := time.NewTicker(cfg.Reports.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if removed, cleanupErr := reportSvc.Cleanup(); cleanupErr != nil {
						logr.Sugar().Warnw("export cleanup failed", "error", cleanupErr)
					} else if len(removed) > 0 {
						logr.Sugar().Infow("expired exports removed", "count", len(removed))
					}
				}
			}
		}()
	}

	var hub *realtime.Hub
	notifier := &changeFanout{reports: reportSvc}
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(logr)
		go hub.Run(ctx)
		feed := realtime.NewNotifier(hub, realtime.NotifierConfig{
			QueueSize:  cfg.Realtime.QueueSize,
			RetryDelay: cfg.Realtime.QueueRetry,
			Logger:     logr,
		})
		feed.Start(ctx)
		defer feed.Stop()
		notifier.feed = feed
	}

	var profileSvc *service.ProfileService
	var authSvc *service.AuthService
	if profileRepo != nil {
		profileSvc = service.NewProfileService(profileRepo, logr)
		authSvc = service.NewAuthService(cfg.Auth, profileRepo, nil, logr)
	} else {
		authSvc = service.NewAuthService(cfg.Auth, nil, nil, logr)
	}

	var requisitionSvc *service.RequisitionService
	var activitySvc *service.ActivityService
	switch {
	case reqStore != nil && fallback != nil:
		requisitionSvc = service.NewRequisitionService(reqStore, fallback, notifier, metrics, logr)
		activitySvc = service.NewActivityService(activityRepo, fallback.Activity(), logr)
	case reqStore != nil:
		requisitionSvc = service.NewRequisitionService(reqStore, nil, notifier, metrics, logr)
		activitySvc = service.NewActivityService(activityRepo, nil, logr)
	default:
		requisitionSvc = service.NewRequisitionService(fallback, nil, notifier, metrics, logr)
		activitySvc = service.NewActivityService(fallback.Activity(), nil, logr)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler()
	requisitionHandler := handler.NewRequisitionHandler(requisitionSvc)
	activityHandler := handler.NewActivityHandler(activitySvc)
	dashboardHandler := handler.NewDashboardHandler(requisitionSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			realtime.ServeWs(hub, authSvc, c)
		})
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)
	authed.GET("/services", catalogHandler.List)

	authed.POST("/requisitions", requisitionHandler.Create)
	authed.GET("/requisitions", requisitionHandler.List)
	authed.GET("/requisitions/:id", requisitionHandler.Get)
	authed.PATCH("/requisitions/:id/status", middleware.RequireRoles(models.RoleAdmin), requisitionHandler.UpdateStatus)

	authed.GET("/activity-logs", middleware.RequireRoles(models.RoleAdmin), activityHandler.List)
	authed.GET("/dashboard/stats", middleware.RequireRoles(models.RoleAdmin), dashboardHandler.Stats)

	if reportSvc != nil {
		reportHandler := handler.NewReportHandler(reportSvc)
		reports := authed.Group("/reports", middleware.RequireRoles(models.RoleAdmin))
		reports.GET("/services", reportHandler.Services)
		reports.POST("/export", reportHandler.Export)
		// Downloads authenticate via the signed token in the path.
		api.GET("/reports/download/:token", reportHandler.Download)
	}

	if profileSvc != nil {
		profileHandler := handler.NewProfileHandler(profileSvc)
		authed.GET("/profiles", middleware.RequireRoles(models.RoleAdmin), profileHandler.List)
		authed.GET("/profiles/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), profileHandler.Get)
		authed.PUT("/profiles/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), profileHandler.Update)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", serveErr)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", shutdownErr)
	}
}
