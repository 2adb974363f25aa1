package middleware

import (
	"time"

	"github.com/Behyna/pawn-services/internal/constants"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitWrite limits write endpoints per staff member, falling back to
// the client IP. A non-positive max disables the limit.
func RateLimitWrite(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return max <= 0
		},
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if staff := Staff(c); staff != "" {
				return staff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, constants.GetErrorMessage(constants.ErrCodeRateLimited))
		},
	})
}
