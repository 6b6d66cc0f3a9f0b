package courseController

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"otms/config"
	"otms/database"
	"otms/models"
	"path/filepath"
	"strings"
	"testing"

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

func TestUploadMaterialStoresFile(t *testing.T) {
	db := setupTestDB(t)
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{UploadDir: t.TempDir()}

	course := models.Course{Title: "Safety", Capacity: 20, Status: models.CourseScheduled}
	require.NoError(t, db.Create(&course).Error)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("title", "Syllabus"))
	part, err := writer.CreateFormFile("file", "syllabus.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	app := fiber.New()
	app.Post("/courses/:id/materials/upload", func(c *fiber.Ctx) error {
		c.Locals("courseID", int(course.ID))
		return c.Next()
	}, UploadMaterial)

	req := httptest.NewRequest("POST", "/courses/1/materials/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var material models.CourseMaterial
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&material).Error)
	assert.Equal(t, "Syllabus", material.Title)
	assert.Equal(t, "pdf", material.FileType)
	assert.True(t, strings.HasPrefix(material.FileURL, "/uploads/materials/"), material.FileURL)

	// the stored file is on disk under the upload tree
	saved := filepath.Join(config.AppConfig.UploadDir, "materials",
		strings.TrimPrefix(material.FileURL, "/uploads/materials/"))
	content, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(content))
}

func TestUploadMaterialRequiresFile(t *testing.T) {
	db := setupTestDB(t)
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{UploadDir: t.TempDir()}

	course := models.Course{Title: "Safety", Capacity: 20, Status: models.CourseScheduled}
	require.NoError(t, db.Create(&course).Error)

	app := fiber.New()
	app.Post("/courses/:id/materials/upload", func(c *fiber.Ctx) error {
		c.Locals("courseID", int(course.ID))
		return c.Next()
	}, UploadMaterial)

	resp, err := app.Test(httptest.NewRequest("POST", "/courses/1/materials/upload", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
