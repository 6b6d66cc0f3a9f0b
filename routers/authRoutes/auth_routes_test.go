package authRoutes

import (
	"net/http/httptest"
	"net/url"
	"otms/config"
	"otms/database"
	"otms/models"
	"otms/utils"
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

// The link embedded in the verification email must resolve to a mounted
// route and activate the account.
func TestVerificationEmailLinkResolves(t *testing.T) {
	db := setupTestDB(t)
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = &config.Config{BaseURL: "http://localhost:3000"}

	expiry := time.Now().Add(24 * time.Hour)
	user := models.User{
		FirstName:          "Test",
		LastName:           "User",
		Email:              "a@example.com",
		Password:           "hashed",
		VerificationToken:  "tok123",
		VerificationExpiry: &expiry,
	}
	require.NoError(t, db.Create(&user).Error)

	app := fiber.New()
	SetupAuthRoutes(app)

	link, err := url.Parse(utils.VerificationLink("tok123"))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", link.Path, nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, updated.IsVerified)
	assert.Empty(t, updated.VerificationToken)
}

func TestAuthRouteSurface(t *testing.T) {
	app := fiber.New()
	SetupAuthRoutes(app)

	registered := make(map[string]bool)
	for _, route := range app.GetRoutes(true) {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/verify2fa",
		"POST /api/auth/forgotpassword",
		"PUT /api/auth/resetpassword/:token",
		"GET /api/auth/verifyemail/:token",
		"GET /api/auth/me",
	}
	for _, want := range expected {
		assert.True(t, registered[want], want)
	}
}
