package router

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
)

func RequestLogger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not run yet; report the status it will pick
			status, _ = handlers.StatusFor(err)
		}
		log.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)
		return err
	}
}
