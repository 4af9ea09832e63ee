package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/clinicamia/hr-performance-api/api/swagger"
	"github.com/clinicamia/hr-performance-api/internal/handler"
	"github.com/clinicamia/hr-performance-api/internal/middleware"
	"github.com/clinicamia/hr-performance-api/internal/models"
	"github.com/clinicamia/hr-performance-api/internal/repository"
	"github.com/clinicamia/hr-performance-api/internal/service"
	"github.com/clinicamia/hr-performance-api/pkg/cache"
	"github.com/clinicamia/hr-performance-api/pkg/config"
	"github.com/clinicamia/hr-performance-api/pkg/database"
	"github.com/clinicamia/hr-performance-api/pkg/logger"
	corsmiddleware "github.com/clinicamia/hr-performance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/clinicamia/hr-performance-api/pkg/middleware/requestid"
)

// @title Clinic HR Performance API
// @version 1.0.0
// @description Performance evaluation engine for the clinic HR back office
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Results.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, results caching disabled", "error", err)
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	periodRepo := repository.NewPeriodRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	objectiveRepo := repository.NewObjectiveRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	periodSvc := service.NewPeriodService(periodRepo, evaluationRepo, employeeRepo, metricsSvc, validate, logr)

	evaluationSvc := service.NewEvaluationService(evaluationRepo, cacheRepo, cfg.Results.CacheTTL, metricsSvc, validate, logr)
	objectiveSvc := service.NewObjectiveService(objectiveRepo, employeeRepo, validate, logr)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, employeeRepo, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	periodHandler := handler.NewPeriodHandler(periodSvc)
	evaluationHandler := handler.NewEvaluationHandler(evaluationSvc)
	objectiveHandler := handler.NewObjectiveHandler(objectiveSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

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
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	hrOnly := middleware.RequireRoles(models.RoleHRAdmin)
	hrOrManager := middleware.RequireRoles(models.RoleHRAdmin, models.RoleManager)
	selfOrStaff := middleware.RBAC(string(models.RoleHRAdmin), string(models.RoleManager), "SELF")

	authed.GET("/periods", hrOnly, periodHandler.List)
	authed.POST("/periods", hrOnly, periodHandler.Create)
	authed.GET("/periods/:id", hrOnly, periodHandler.Get)
	authed.POST("/periods/:id/start", hrOnly, periodHandler.Start)

	authed.GET("/evaluations/pending", evaluationHandler.Pending)
	authed.POST("/evaluations/:id/submit", evaluationHandler.Submit)
	authed.GET("/evaluations/stats", hrOnly, evaluationHandler.Stats)

	authed.GET("/employees/:employeeId/results", selfOrStaff, evaluationHandler.Results)
	authed.GET("/employees/:employeeId/results/export", selfOrStaff, evaluationHandler.Export)

	authed.POST("/employees/:employeeId/objectives", hrOrManager, objectiveHandler.Create)
	authed.GET("/employees/:employeeId/objectives", selfOrStaff, objectiveHandler.List)
	authed.PATCH("/objectives/:id/progress", hrOrManager, objectiveHandler.UpdateProgress)

	authed.POST("/employees/:employeeId/feedback", feedbackHandler.Create)
	authed.GET("/employees/:employeeId/feedback", selfOrStaff, feedbackHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
