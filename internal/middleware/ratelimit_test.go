package middleware

import (
	"net/http/httptest"
	"testing"

	"giftwise/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newLimitedApp(limiter *ratelimit.Limiter) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", RateLimit(limiter, ratelimit.PolicyAPI, "api"))
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	api.Post("/login", RateLimit(limiter, ratelimit.PolicyAuth, "auth"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	api.Post("/topup", RateLimit(limiter, ratelimit.PolicyPayment, "payment"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRateLimitScopesAreIndependent(t *testing.T) {
	t.Run("general traffic does not consume the auth quota", func(t *testing.T) {
		app := newLimitedApp(ratelimit.NewLimiter())

		for i := 0; i < ratelimit.PolicyAuth.MaxRequests+1; i++ {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}

		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/login", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode,
			"first login attempt must not be charged for unrelated API traffic")
	})

	t.Run("auth quota still enforced within its own scope", func(t *testing.T) {
		app := newLimitedApp(ratelimit.NewLimiter())

		for i := 0; i < ratelimit.PolicyAuth.MaxRequests; i++ {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/login", nil))
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}

		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/login", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	})

	t.Run("exhausted payment quota leaves auth untouched", func(t *testing.T) {
		app := newLimitedApp(ratelimit.NewLimiter())

		for i := 0; i < ratelimit.PolicyPayment.MaxRequests; i++ {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/topup", nil))
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}

		denied, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/topup", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, denied.StatusCode)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/login", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
