package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/voxhire/voxhire/config"
	"github.com/voxhire/voxhire/internal/api/handlers"
	"github.com/voxhire/voxhire/internal/api/middleware"
	"github.com/voxhire/voxhire/internal/api/routes"
	"github.com/voxhire/voxhire/internal/cache"
	"github.com/voxhire/voxhire/internal/logger"
	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/notify"
	mongorepo "github.com/voxhire/voxhire/internal/repositories/mongo"
	pgrepo "github.com/voxhire/voxhire/internal/repositories/postgres"
	"github.com/voxhire/voxhire/internal/services"
	"github.com/voxhire/voxhire/internal/storage"
	"github.com/voxhire/voxhire/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg := logger.New(cfg.LogLevel)
	ctx := context.Background()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Profile{}, &models.Company{}, &models.Recruiter{},
		&models.JobPosting{}, &models.Application{}, &models.ResumeFile{},
	); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}

	mongoClient, err := config.NewMongo(ctx, cfg)
	if err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(ctx) }()
	mongoDB := mongoClient.Database(cfg.MongoDB)
	if err := mongorepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}

	rdb, err := config.NewRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Redis init error: %v", err)
	}

	uploader, err := storage.NewGCSUploader(ctx, cfg.GCSBucket, cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer uploader.Close()

	dispatcher, err := notify.NewSMTPDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	if err != nil {
		log.Fatalf("SMTP init error: %v", err)
	}

	// repositories
	profileRepo := pgrepo.NewProfileRepo(db)
	jobRepo := pgrepo.NewJobRepo(db)
	appRepo := pgrepo.NewApplicationRepo(db)
	recruiterRepo := pgrepo.NewRecruiterRepo(db)
	resumeFileRepo := pgrepo.NewResumeFileRepo(db)
	sessionRepo := mongorepo.NewSessionRepo(mongoDB)

	// services
	profileSvc := services.NewProfileService(profileRepo)
	resumeSvc := services.NewResumeService(resumeFileRepo, profileSvc, uploader)
	pipeline := services.NewPipeline(appRepo, jobRepo, profileRepo, recruiterRepo, resumeFileRepo, dispatcher, lg)
	orch := services.NewOrchestrator(sessionRepo, appRepo, jobRepo, profileRepo, pipeline,
		services.NewRedisPublisher(rdb), lg, cfg.ResumeMinChars)

	reaper := &workers.Reaper{
		Sessions:     sessionRepo,
		Orchestrator: orch,
		Logger:       lg,
		Timeout:      cfg.SessionTimeout,
		Interval:     cfg.ReapInterval,
	}
	if err := reaper.Start(ctx); err != nil {
		log.Fatalf("reaper init error: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(lg))

	routes.RegisterRoutes(r, routes.Deps{
		JWT: middleware.JWTConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		},
		Session:     handlers.NewSessionHandler(orch, profileSvc, cache.NewRedisCache(rdb)),
		Events:      handlers.NewEventsHandler(orch, profileSvc, rdb),
		Profile:     handlers.NewProfileHandler(profileSvc),
		Resume:      handlers.NewResumeHandler(resumeSvc),
		Application: handlers.NewApplicationHandler(pipeline),
	})

	lg.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
