package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/hei-portal-api/api/swagger"
	"github.com/noah-isme/hei-portal-api/internal/handler"
	"github.com/noah-isme/hei-portal-api/internal/middleware"
	"github.com/noah-isme/hei-portal-api/internal/report"
	"github.com/noah-isme/hei-portal-api/internal/repository"
	"github.com/noah-isme/hei-portal-api/internal/service"
	"github.com/noah-isme/hei-portal-api/pkg/cache"
	"github.com/noah-isme/hei-portal-api/pkg/config"
	"github.com/noah-isme/hei-portal-api/pkg/database"
	"github.com/noah-isme/hei-portal-api/pkg/drive"
	"github.com/noah-isme/hei-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/hei-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hei-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/hei-portal-api/pkg/storage"
)

// @title HEI Portal API
// @version 1.0.0
// @description Institutional reporting and review portal
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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, directory caching disabled", "error", err)
		redisClient = nil
	}

	var store storage.ObjectStore
	switch cfg.Drive.Backend {
	case "drive":
		client, err := drive.NewClient(context.Background(), drive.Config{
			CredentialsFile: cfg.Drive.CredentialsFile,
			FolderID:        cfg.Drive.FolderID,
		})
		if err != nil {
			logr.Sugar().Fatalw("drive client init failed", "error", err)
		}
		store = client
	default:
		local, err := storage.NewLocalObjectStore(cfg.Drive.LocalDir)
		if err != nil {
			logr.Sugar().Fatalw("local object store init failed", "error", err)
		}
		store = local
	}

	validate := validator.New()
	renderer := report.NewRenderer(cfg.Reports.TemplateDir, cfg.Reports.PrimarySheet, logr)

	userRepo := repository.NewUserRepository(db)
	institutionRepo := repository.NewInstitutionRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	masterProgramRepo := repository.NewMasterProgramRepository(db)
	programRequestRepo := repository.NewProgramRequestRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)

	metricsSvc := service.NewMetricsService()
	store = service.InstrumentObjectStore(store, metricsSvc)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	directorySvc := service.NewDirectoryService(institutionRepo, redisClient, cfg.Redis.DirectoryTTL, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, institutionRepo, store, validate, logr, cfg.Uploads.MaxFileSizeBytes)
	submissionSvc := service.NewSubmissionService(submissionRepo, renderer, store, institutionRepo, logr)
	masterProgramSvc := service.NewMasterProgramService(masterProgramRepo, validate, logr)
	programRequestSvc := service.NewProgramRequestService(programRequestRepo, masterProgramRepo, institutionRepo, store, validate, logr, cfg.Uploads.MaxFileSizeBytes)
	registrationSvc := service.NewRegistrationService(registrationRepo, institutionRepo, userRepo, directorySvc, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, validate, logr)
	exportSvc := service.NewExportService(submissionRepo, subjectRepo, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Submissions:   handler.NewSubmissionHandler(submissionSvc, metricsSvc),
		Subjects:      handler.NewSubjectHandler(subjectSvc, metricsSvc),
		Programs:      handler.NewProgramHandler(masterProgramSvc, programRequestSvc, metricsSvc),
		Registrations: handler.NewRegistrationHandler(registrationSvc, metricsSvc),
		Institutions:  handler.NewInstitutionHandler(directorySvc),
		Faculty:       handler.NewFacultyHandler(facultySvc),
		Metrics:       handler.NewMetricsHandler(metricsSvc),
	}
	if cfg.Exports.Enabled {
		handlers.Exports = handler.NewExportHandler(exportSvc)
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handlers)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Drive.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
