package middleware

import (
	"fmt"
	"time"

	"giftwise/internal/models"
	"giftwise/internal/ratelimit"
	"giftwise/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// RateLimit throttles requests against the given policy. Keys are
// scoped per route group so the policies stay independent: general API
// traffic must never consume the auth or payment quotas. Authenticated
// requests are keyed by user ID, anonymous ones by client IP, so a
// shared NAT does not burn one budget.
func RateLimit(limiter *ratelimit.Limiter, policy ratelimit.Policy, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := scope + ":" + clientKey(c)
		if !limiter.Allow(key, policy) {
			retryAfter := 0
			if resetAt := limiter.ResetAt(key, policy); !resetAt.IsZero() {
				retryAfter = int(time.Until(resetAt).Seconds()) + 1
			}
			return response.TooManyRequests(c, retryAfter)
		}
		return c.Next()
	}
}

func clientKey(c *fiber.Ctx) string {
	if claims, ok := c.Locals("claims").(*models.UserClaims); ok && claims != nil {
		return fmt.Sprintf("user:%d", claims.UserID)
	}
	return "ip:" + c.IP()
}
