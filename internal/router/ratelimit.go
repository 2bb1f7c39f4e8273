package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"

	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
)

// RateLimitWrite limits write endpoints to max requests per window per user
// (if resolved) else per IP.
func RateLimitWrite(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodGet
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			if uid, ok := c.Locals(handlers.UserIDKey).(uuid.UUID); ok && uid != uuid.Nil {
				return uid.String()
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(handlers.Envelope{Success: false, Error: "too many requests"})
		},
	})
}
