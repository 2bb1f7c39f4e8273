package http

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ishantswami13-crypto/wisewallet/internal/auth"
	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

func deleted(c *fiber.Ctx, entity string) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: entity + " deleted successfully"})
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// StatusFor maps an error to its HTTP status and the message shown to the
// client.
func StatusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, auth.ErrUnauthenticated):
		return fiber.StatusUnauthorized, strings.TrimPrefix(err.Error(), auth.ErrUnauthenticated.Error()+": ")
	case errors.Is(err, ledger.ErrInvalidArgument):
		return fiber.StatusBadRequest, ledger.Message(err)
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.StatusNotFound, ledger.Message(err)
	}
	return fiber.StatusInternalServerError, err.Error()
}

// ErrorHandler renders failures as {success:false,error:...}. Only 5xx are
// logged at error level.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := StatusFor(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
				"err", err,
			)
		}
		return c.Status(code).JSON(Envelope{Success: false, Error: msg})
	}
}
