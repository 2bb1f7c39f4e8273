package admin

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// RequireAdminKey compares X-Admin-Key against a bcrypt hash. An empty hash
// rejects every request.
func RequireAdminKey(hash string) fiber.Handler {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusServiceUnavailable, "admin key not configured")
		}
	}

	return func(c *fiber.Ctx) error {
		got := strings.TrimSpace(c.Get("X-Admin-Key"))
		if got == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(got)) != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid admin key")
		}
		return c.Next()
	}
}

// HashKey produces the value to configure as admin.key_hash.
func HashKey(key string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
