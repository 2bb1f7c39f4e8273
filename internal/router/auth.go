package router

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/wisewallet/internal/auth"
	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
	"github.com/ishantswami13-crypto/wisewallet/internal/users"
)

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (auth.Identity, error)
}

type UserResolver interface {
	Resolve(ctx context.Context, p users.Profile) (uuid.UUID, error)
}

// Authenticate verifies the bearer token, provisions the user on first sight
// and stores the internal user id in c.Locals. Nothing downstream runs when
// verification fails.
func Authenticate(v TokenVerifier, r UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := auth.ParseBearer(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		id, err := v.Verify(c.UserContext(), raw)
		if err != nil {
			return err
		}

		userID, err := r.Resolve(c.UserContext(), users.Profile{
			SubjectID:   id.Subject,
			Email:       id.Email,
			DisplayName: id.DisplayName,
		})
		if err != nil {
			return err
		}

		c.Locals(handlers.UserIDKey, userID)
		return c.Next()
	}
}
