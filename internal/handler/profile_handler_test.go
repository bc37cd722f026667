package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
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

func setupProfileApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.InstructorProfile{}))

	logger := zerolog.New(io.Discard)
	validate := validator.New()

	syncService := service.NewInstructorSyncService(
		repository.NewUserRepository(db),
		repository.NewInstructorRepository(db),
		repository.NewCourseRepository(db),
		validate,
		logger,
	)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		ProfileHandler: handler.NewProfileHandler(syncService, logger),
	})

	return app, db
}

func newPatchJSON(t *testing.T, path string, payload interface{}) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestProfileHandlerRenameCascade(t *testing.T) {
	app, db := setupProfileApp(t)

	jane := models.User{Name: "Jane Doe", Email: "jane@example.com", Role: models.RoleInstructor}
	require.NoError(t, db.Create(&jane).Error)
	require.NoError(t, db.Create(&models.Course{Title: "Go Basics", InstructorID: &jane.ID, InstructorName: "Jane Doe"}).Error)
	require.NoError(t, db.Create(&models.Course{Title: "Go Advanced", InstructorName: "Jane Doe"}).Error)

	req := newPatchJSON(t, fmt.Sprintf("/api/v1/users/%d/profile", jane.ID), fiber.Map{"name": "Jane Smith"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                      `json:"success"`
		Data    dto.ProfileUpdateResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "Jane Smith", body.Data.User.Name)
	require.Equal(t, int64(2), body.Data.CoursesSynced)

	var courses []models.Course
	require.NoError(t, db.Find(&courses).Error)
	for _, course := range courses {
		require.Equal(t, "Jane Smith", course.InstructorName)
		require.NotNil(t, course.InstructorID)
	}
}

func TestProfileHandlerUnknownUser(t *testing.T) {
	app, _ := setupProfileApp(t)

	req := newPatchJSON(t, "/api/v1/users/404/profile", fiber.Map{"name": "Ghost"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
