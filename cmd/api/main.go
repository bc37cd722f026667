package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-api/internal/config"
	"github.com/noah-isme/lentera-api/internal/database"
	"github.com/noah-isme/lentera-api/internal/handler"
	"github.com/noah-isme/lentera-api/internal/middleware"
	"github.com/noah-isme/lentera-api/internal/models"
	"github.com/noah-isme/lentera-api/internal/quiz"
	"github.com/noah-isme/lentera-api/internal/repository"
	"github.com/noah-isme/lentera-api/internal/router"
	"github.com/noah-isme/lentera-api/internal/service"
	cloud "github.com/noah-isme/lentera-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.AssignmentSubmission{},
		&models.QuizAttempt{},
		&models.InstructorProfile{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// An undersized or malformed question bank must fail here, not when a
	// learner starts a quiz. The factory carries the pool plus the configured
	// sample size and pass threshold for session construction.
	pool, err := quiz.LoadPool(cfg.QuestionPoolPath)
	if err != nil {
		log.Fatalf("failed to load question pool: %v", err)
	}
	if _, err := quiz.NewFactory(pool, cfg.QuizSampleSize, cfg.QuizPassThreshold, logger); err != nil {
		log.Fatalf("invalid quiz configuration: %v", err)
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)

	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, redisClient, cfg.GradebookCacheTTL, validate, logger)
	assessmentService := service.NewAssessmentService(assessmentRepo, enrollmentRepo, courseRepo, validate, uploader, logger)
	instructorSyncService := service.NewInstructorSyncService(userRepo, instructorRepo, courseRepo, validate, logger)

	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, logger)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService, logger)
	profileHandler := handler.NewProfileHandler(instructorSyncService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EnrollmentHandler: enrollmentHandler,
		AssessmentHandler: assessmentHandler,
		ProfileHandler:    profileHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
