package http

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
)

// UserIDKey is the fiber local the auth middleware stores the resolved user
// id under.
const UserIDKey = "user_id"

// Ledger is the store surface the handlers use. *ledger.Store satisfies it.
type Ledger interface {
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]ledger.Account, error)
	CreateAccount(ctx context.Context, userID uuid.UUID, in ledger.NewAccount) (ledger.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, p ledger.AccountPatch) (ledger.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error

	ListTransactions(ctx context.Context, userID uuid.UUID, f ledger.TransactionFilter) ([]ledger.Transaction, error)
	CreateTransaction(ctx context.Context, userID uuid.UUID, in ledger.NewTransaction) (ledger.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error

	ListIncomeStreams(ctx context.Context, userID uuid.UUID) ([]ledger.IncomeStream, error)
	CreateIncomeStream(ctx context.Context, userID uuid.UUID, in ledger.NewIncomeStream) (ledger.IncomeStream, error)
	UpdateIncomeStream(ctx context.Context, userID, id uuid.UUID, p ledger.IncomeStreamPatch) (ledger.IncomeStream, error)
	DeleteIncomeStream(ctx context.Context, userID, id uuid.UUID) error

	ListInsights(ctx context.Context, userID uuid.UUID) ([]ledger.Insight, error)
}

type Handler struct {
	Ledger Ledger
	Log    *slog.Logger
}

func NewHandler(l Ledger, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{Ledger: l, Log: log}
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(UserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing user")
	}
	return id, nil
}

func queryID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return uuid.Nil, badRequest(name + " is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest(name + " must be a valid id")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest("invalid json")
	}
	return nil
}

// Accounts

func (h *Handler) ListAccounts(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	rows, err := h.Ledger.ListAccounts(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, mapAll(rows, toAccount))
}

func (h *Handler) CreateAccount(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createAccountReq
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	a, err := h.Ledger.CreateAccount(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	h.Log.Info("account created", "user_id", userID, "account_id", a.ID)
	return respond(c, fiber.StatusCreated, toAccount(a))
}

func (h *Handler) UpdateAccount(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := queryID(c, "id")
	if err != nil {
		return err
	}
	var req updateAccountReq
	if err := parseBody(c, &req); err != nil {
		return err
	}

	a, err := h.Ledger.UpdateAccount(c.UserContext(), userID, id, req.toPatch())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, toAccount(a))
}

func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := queryID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Ledger.DeleteAccount(c.UserContext(), userID, id); err != nil {
		return err
	}
	h.Log.Info("account deleted", "user_id", userID, "account_id", id)
	return deleted(c, "Account")
}

// Transactions

func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var f ledger.TransactionFilter
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return badRequest("limit must be a positive integer")
		}
		f.Limit = n
	}
	if raw := strings.TrimSpace(c.Query("accountId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest("accountId must be a valid id")
		}
		f.AccountID = &id
	}

	rows, err := h.Ledger.ListTransactions(c.UserContext(), userID, f)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, mapAll(rows, toTransaction))
}

func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createTransactionReq
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	t, err := h.Ledger.CreateTransaction(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	h.Log.Info("transaction created", "user_id", userID, "transaction_id", t.ID, "type", t.Type)
	return respond(c, fiber.StatusCreated, toTransaction(t))
}

func (h *Handler) DeleteTransaction(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := queryID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Ledger.DeleteTransaction(c.UserContext(), userID, id); err != nil {
		return err
	}
	h.Log.Info("transaction deleted", "user_id", userID, "transaction_id", id)
	return deleted(c, "Transaction")
}

// Income streams

func (h *Handler) ListIncomeStreams(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	rows, err := h.Ledger.ListIncomeStreams(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, mapAll(rows, toIncomeStream))
}

func (h *Handler) CreateIncomeStream(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createIncomeStreamReq
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	s, err := h.Ledger.CreateIncomeStream(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, toIncomeStream(s))
}

func (h *Handler) UpdateIncomeStream(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := queryID(c, "id")
	if err != nil {
		return err
	}
	var req updateIncomeStreamReq
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := req.toPatch()
	if err != nil {
		return err
	}

	s, err := h.Ledger.UpdateIncomeStream(c.UserContext(), userID, id, p)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, toIncomeStream(s))
}

func (h *Handler) DeleteIncomeStream(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := queryID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Ledger.DeleteIncomeStream(c.UserContext(), userID, id); err != nil {
		return err
	}
	return deleted(c, "Income stream")
}

// Insights

func (h *Handler) ListInsights(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	rows, err := h.Ledger.ListInsights(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, mapAll(rows, toInsight))
}
