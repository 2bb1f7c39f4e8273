// Package audit records one row per successful write request.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
)

type Entry struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Status     int
	RequestID  string
	IP         string
	UserAgent  string
}

type Writer interface {
	Write(ctx context.Context, e Entry) error
}

type PgWriter struct {
	DB *pgxpool.Pool
}

// Write records an audit entry; failures are returned so callers can ignore if needed.
func (w *PgWriter) Write(ctx context.Context, e Entry) error {
	_, err := w.DB.Exec(ctx, `
INSERT INTO audit_logs (user_id, action, entity_type, entity_id, status, request_id, ip, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, e.UserID, e.Action, e.EntityType, e.EntityID, e.Status, nullable(e.RequestID), nullable(e.IP), nullable(e.UserAgent))
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

const writeTimeout = 2 * time.Second

// Middleware audits mutating requests that succeed. Writes happen off the
// request path and never fail the request.
func Middleware(w Writer, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return nil
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			return nil
		}

		// fiber reuses request buffers once the handler returns
		e := Entry{
			Action:     actions[c.Method()],
			EntityType: utils.CopyString(strings.Trim(c.Path(), "/")),
			EntityID:   entityID(c),
			Status:     status,
			RequestID:  utils.CopyString(c.GetRespHeader(fiber.HeaderXRequestID)),
			IP:         utils.CopyString(c.IP()),
			UserAgent:  utils.CopyString(c.Get(fiber.HeaderUserAgent)),
		}
		if id, ok := c.Locals(handlers.UserIDKey).(uuid.UUID); ok {
			e.UserID = &id
		}

		go func(e Entry) {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()
			if err := w.Write(ctx, e); err != nil {
				log.Warn("audit write failed", "action", e.Action, "entity", e.EntityType, "err", err)
			}
		}(e)
		return nil
	}
}

var actions = map[string]string{
	fiber.MethodPost:   "create",
	fiber.MethodPut:    "update",
	fiber.MethodPatch:  "update",
	fiber.MethodDelete: "delete",
}

// entityID comes from ?id= on updates and deletes, or from the created row
// in the response envelope.
func entityID(c *fiber.Ctx) *uuid.UUID {
	if raw := c.Query("id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return &id
		}
	}
	var body struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(c.Response().Body(), &body); err != nil || body.Data.ID == uuid.Nil {
		return nil
	}
	return &body.Data.ID
}
