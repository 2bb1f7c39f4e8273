package admin

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Overview struct {
	UsersTotal         int64 `json:"usersTotal"`
	AccountsTotal      int64 `json:"accountsTotal"`
	TransactionsTotal  int64 `json:"transactionsTotal"`
	IncomeStreamsTotal int64 `json:"incomeStreamsTotal"`
	InsightsTotal      int64 `json:"insightsTotal"`
}

type OverviewSource interface {
	Overview(ctx context.Context) (Overview, error)
}

// Repo reads the row counts straight from Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

func (r *Repo) Overview(ctx context.Context) (Overview, error) {
	var o Overview
	err := r.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM accounts),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM income_streams),
			(SELECT COUNT(*) FROM ai_insights)`,
	).Scan(&o.UsersTotal, &o.AccountsTotal, &o.TransactionsTotal, &o.IncomeStreamsTotal, &o.InsightsTotal)
	return o, err
}

type Handler struct {
	Source OverviewSource
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Source: &Repo{Pool: pool}}
}

func (h *Handler) Overview(c *fiber.Ctx) error {
	o, err := h.Source.Overview(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed overview: "+err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "data": o})
}
