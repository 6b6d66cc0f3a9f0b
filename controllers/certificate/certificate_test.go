package certificateController

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"otms/database"
	"otms/models"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	return db
}

func listCertificates(t *testing.T, app *fiber.App) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", "/certificates", nil), 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data.Count
}

// Managers see the full certificate list, trainees only their own.
func TestGetCertificatesRoleScoping(t *testing.T) {
	db := setupTestDB(t)
	database.Database = database.DbInstance{Db: db}

	trainee := models.User{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "x", Role: models.RoleTrainee}
	other := models.User{FirstName: "C", LastName: "D", Email: "c@example.com", Password: "x", Role: models.RoleTrainee}
	require.NoError(t, db.Create(&trainee).Error)
	require.NoError(t, db.Create(&other).Error)

	course := models.Course{Title: "Course", Capacity: 20, Status: models.CourseCompleted}
	require.NoError(t, db.Create(&course).Error)

	certs := []models.Certificate{
		{UserID: trainee.ID, CourseID: course.ID, EnrollmentID: 1, CertificateNumber: "CERT-0001-1", IssueDate: time.Now(), Status: models.CertificateIssued},
		{UserID: other.ID, CourseID: course.ID, EnrollmentID: 2, CertificateNumber: "CERT-0002-1", IssueDate: time.Now(), Status: models.CertificateIssued},
	}
	for i := range certs {
		require.NoError(t, db.Create(&certs[i]).Error)
	}

	appFor := func(userID uint, role string) *fiber.App {
		app := fiber.New()
		app.Get("/certificates", func(c *fiber.Ctx) error {
			c.Locals("userId", userID)
			c.Locals("role", role)
			return c.Next()
		}, GetCertificates)
		return app
	}

	assert.Equal(t, 1, listCertificates(t, appFor(trainee.ID, models.RoleTrainee)))
	assert.Equal(t, 2, listCertificates(t, appFor(trainee.ID, models.RoleManager)))
	assert.Equal(t, 2, listCertificates(t, appFor(trainee.ID, models.RoleAdmin)))
}
