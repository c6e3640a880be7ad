package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/college-plan-api/api/swagger"
	"github.com/noah-isme/college-plan-api/internal/handler"
	"github.com/noah-isme/college-plan-api/internal/middleware"
	"github.com/noah-isme/college-plan-api/internal/repository"
	"github.com/noah-isme/college-plan-api/internal/service"
	"github.com/noah-isme/college-plan-api/pkg/cache"
	"github.com/noah-isme/college-plan-api/pkg/config"
	"github.com/noah-isme/college-plan-api/pkg/database"
	"github.com/noah-isme/college-plan-api/pkg/export"
	"github.com/noah-isme/college-plan-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/college-plan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/college-plan-api/pkg/middleware/requestid"
)

// @title College Plan API
// @version 0.1.0
// @description Lesson scheduling and reconciliation engine
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var reportCache *cache.ReportCache
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		reportCache = cache.NewReportCache(redisClient, cfg.Planning.ReportCacheTTL)
	}

	catalogRepo := repository.NewCatalogRepository(db)
	mappingRepo := repository.NewMappingRepository(db)
	loadSpecRepo := repository.NewLoadSpecRepository(db)
	distRepo := repository.NewDistributionRepository(db)
	dayPlanRepo := repository.NewDayPlanRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, nil, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, mappingRepo, nil, logr)
	loadSpecSvc := service.NewLoadSpecService(loadSpecRepo, catalogRepo, nil, logr)
	distSvc := service.NewDistributionService(loadSpecRepo, catalogRepo, distRepo, db, nil, logr, cfg.Planning)
	dayPlanSvc := service.NewDayPlanService(dayPlanRepo, distRepo, catalogRepo, holidayRepo, progressRepo, mappingRepo, db, reportCache, nil, logr, cfg.Planning)
	swapSvc := service.NewRoomSwapService(dayPlanRepo, catalogRepo, db, nil, logr, cfg.Planning)
	progressSvc := service.NewProgressService(progressRepo, progressRepo, loadSpecRepo, nil, logr, cfg.Planning)
	holidaySvc := service.NewHolidayService(holidayRepo, nil, logr, cfg.Planning)

	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	loadSpecHandler := handler.NewLoadSpecHandler(loadSpecSvc)
	distHandler := handler.NewDistributionHandler(distSvc)
	dayPlanHandler := handler.NewDayPlanHandler(dayPlanSvc, metricsSvc, export.NewCSVExporter(), export.NewPDFExporter())
	swapHandler := handler.NewRoomSwapHandler(swapSvc, metricsSvc)
	progressHandler := handler.NewProgressHandler(progressSvc)
	holidayHandler := handler.NewHolidayHandler(holidaySvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.POST("/groups", catalogHandler.CreateGroup)
		protected.GET("/groups", catalogHandler.ListGroups)
		protected.POST("/subjects", catalogHandler.CreateSubject)
		protected.GET("/subjects", catalogHandler.ListSubjects)
		protected.POST("/teachers", catalogHandler.CreateTeacher)
		protected.GET("/teachers", catalogHandler.ListTeachers)
		protected.POST("/rooms", catalogHandler.CreateRoom)
		protected.GET("/rooms", catalogHandler.ListRooms)
		protected.POST("/mappings", catalogHandler.CreateMapping)
		protected.GET("/mappings", catalogHandler.ListMappings)
		protected.DELETE("/mappings/:id", catalogHandler.DeleteMapping)

		protected.POST("/load-specs", loadSpecHandler.Create)
		protected.GET("/load-specs", loadSpecHandler.List)
		protected.GET("/load-specs/:id", loadSpecHandler.Get)
		protected.PATCH("/load-specs/:id", loadSpecHandler.Update)
		protected.DELETE("/load-specs/:id", loadSpecHandler.Delete)

		protected.POST("/planning/distributions", distHandler.Generate)
		protected.GET("/planning/weekly", distHandler.Weekly)

		protected.POST("/day-plans", dayPlanHandler.Plan)
		protected.GET("/day-plans/:date", dayPlanHandler.Get)
		protected.GET("/day-plans/:date/report", dayPlanHandler.Report)
		protected.POST("/day-plans/:date/approve", dayPlanHandler.Approve)
		protected.PATCH("/day-plans/:date/entries", dayPlanHandler.BulkUpdate)
		protected.POST("/day-plans/:date/replace-vacant", dayPlanHandler.ReplaceVacant)
		protected.GET("/day-plans/:date/export", dayPlanHandler.Export)
		protected.GET("/entries", dayPlanHandler.LookupEntries)
		protected.PATCH("/entries/:id", dayPlanHandler.UpdateEntry)
		protected.PUT("/entries/:id/teacher", dayPlanHandler.ReplaceTeacher)

		protected.POST("/room-swaps/propose", swapHandler.Propose)
		protected.POST("/room-swaps/execute", swapHandler.Execute)

		protected.POST("/progress", progressHandler.Record)
		protected.GET("/progress/summary", progressHandler.Summary)
		protected.GET("/progress/:id/history", progressHandler.History)

		protected.POST("/holidays", holidayHandler.Create)
		protected.GET("/holidays", holidayHandler.List)
		protected.GET("/calendar/:date", holidayHandler.DayInfo)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
