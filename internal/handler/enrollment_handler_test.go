package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-api/internal/config"
	"github.com/noah-isme/lentera-api/internal/dto"
	"github.com/noah-isme/lentera-api/internal/handler"
	"github.com/noah-isme/lentera-api/internal/models"
	"github.com/noah-isme/lentera-api/internal/repository"
	"github.com/noah-isme/lentera-api/internal/router"
	"github.com/noah-isme/lentera-api/internal/service"
)

func setupEnrollmentApp(t *testing.T, role string) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.AssignmentSubmission{},
		&models.QuizAttempt{},
	))

	mini := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	validate := validator.New()
	logger := zerolog.New(io.Discard)

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	userRepo := repository.NewUserRepository(db)

	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, cache, time.Minute, validate, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		EnrollmentHandler: enrollmentHandler,
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", role)
			return c.Next()
		},
	})

	return app, db
}

func seedLearnerAndCourse(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()

	learner := models.User{Name: "Budi", Email: "budi@example.com", Role: models.RoleLearner}
	require.NoError(t, db.Create(&learner).Error)

	course := models.Course{Title: "Go Fundamentals"}
	course.SetContent([]models.ContentItem{
		{ID: "c1", Type: models.ContentTypeLecture},
		{ID: "c2", Type: models.ContentTypeVideo},
	})
	require.NoError(t, db.Create(&course).Error)

	return learner.ID, course.ID
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func TestEnrollmentHandlerEnrollAndToggle(t *testing.T) {
	app, db := setupEnrollmentApp(t, models.RoleLearner)
	learnerID, courseID := seedLearnerAndCourse(t, db)

	resp := postJSON(t, app, "/api/v1/enrollments/enroll", fiber.Map{
		"learner_id": learnerID,
		"course_id":  courseID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var enrollBody struct {
		Success bool                   `json:"success"`
		Data    dto.EnrollmentResponse `json:"data"`
	}
	decodeResponse(t, resp, &enrollBody)
	require.True(t, enrollBody.Success)
	require.Equal(t, 0, enrollBody.Data.Progress)

	// Duplicate enrollment conflicts.
	resp = postJSON(t, app, "/api/v1/enrollments/enroll", fiber.Map{
		"learner_id": learnerID,
		"course_id":  courseID,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Clients may send the course reference as an expanded object.
	resp = postJSON(t, app, "/api/v1/enrollments/completion", fiber.Map{
		"learner_id": learnerID,
		"course_id":  fiber.Map{"id": courseID},
		"content_id": "c1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var toggleBody struct {
		Success bool                         `json:"success"`
		Data    dto.ToggleCompletionResponse `json:"data"`
	}
	decodeResponse(t, resp, &toggleBody)
	require.True(t, toggleBody.Success)
	require.Equal(t, 50, toggleBody.Data.Progress)
	require.Equal(t, []string{"c1"}, toggleBody.Data.CompletedContent)
}

func TestEnrollmentHandlerEnrollUnknownCourse(t *testing.T) {
	app, db := setupEnrollmentApp(t, models.RoleLearner)
	learnerID, _ := seedLearnerAndCourse(t, db)

	resp := postJSON(t, app, "/api/v1/enrollments/enroll", fiber.Map{
		"learner_id": learnerID,
		"course_id":  999,
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEnrollmentHandlerGradebookRequiresInstructorRole(t *testing.T) {
	app, db := setupEnrollmentApp(t, models.RoleLearner)
	_, courseID := seedLearnerAndCourse(t, db)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/courses/%d/gradebook", courseID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestEnrollmentHandlerGradebook(t *testing.T) {
	app, db := setupEnrollmentApp(t, models.RoleInstructor)
	learnerID, courseID := seedLearnerAndCourse(t, db)

	resp := postJSON(t, app, "/api/v1/enrollments/enroll", fiber.Map{
		"learner_id": learnerID,
		"course_id":  courseID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/courses/%d/gradebook", courseID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var gradebookBody struct {
		Success bool                  `json:"success"`
		Data    dto.GradebookResponse `json:"data"`
	}
	decodeResponse(t, resp, &gradebookBody)
	require.True(t, gradebookBody.Success)
	require.Equal(t, courseID, gradebookBody.Data.CourseID)
	require.Len(t, gradebookBody.Data.Entries, 1)
	require.Equal(t, learnerID, gradebookBody.Data.Entries[0].LearnerID)
}
