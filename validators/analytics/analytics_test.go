package analyticsValidator

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryFilterPeriod(t *testing.T) {
	app := fiber.New()
	var got *Filter
	app.Get("/trends", QueryFilter(), func(c *fiber.Ctx) error {
		got, _ = c.Locals("analyticsFilter").(*Filter)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/trends?period=year", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, PeriodYear, got.Period)

	resp, err = app.Test(httptest.NewRequest("GET", "/trends?period=daily", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQueryFilterDateOrder(t *testing.T) {
	app := fiber.New()
	app.Get("/trends", QueryFilter(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/trends?start_date=2026-02-01&end_date=2026-01-01", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
