package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishantswami13-crypto/wisewallet/internal/auth"
	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/ledger/ledgertest"
	"github.com/ishantswami13-crypto/wisewallet/internal/router"
	"github.com/ishantswami13-crypto/wisewallet/internal/users"
)

const goodToken = "good-token"

type oneUser struct{ id uuid.UUID }

func (o oneUser) Verify(_ context.Context, raw string) (auth.Identity, error) {
	if raw != goodToken {
		return auth.Identity{}, fmt.Errorf("%w: invalid token", auth.ErrUnauthenticated)
	}
	return auth.Identity{Subject: "sub"}, nil
}

func (o oneUser) Resolve(context.Context, users.Profile) (uuid.UUID, error) { return o.id, nil }

func newServer(t *testing.T) (*httptest.Server, *ledgertest.MemStore, uuid.UUID) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := ledgertest.NewMemStore()
	user := oneUser{id: uuid.New()}

	app := router.NewApp(router.Options{Log: log})
	(&router.Router{
		Handler: handlers.NewHandler(store, log),
		AuthMW:  router.Authenticate(user, user),
	}).RegisterRoutes(app)

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv, store, user.id
}

func TestLoadSnapshot(t *testing.T) {
	srv, store, userID := newServer(t)
	ctx := context.Background()

	acct, err := store.CreateAccount(ctx, userID, ledger.NewAccount{Name: "Checking", Type: "checking", Balance: decimal.RequireFromString("10.25")})
	require.NoError(t, err)
	category := "Food"
	_, err = store.CreateTransaction(ctx, userID, ledger.NewTransaction{
		AccountID: &acct.ID, Amount: decimal.NewFromInt(4), Type: ledger.TypeExpense, Category: &category,
		Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = store.CreateIncomeStream(ctx, userID, ledger.NewIncomeStream{Name: "Salary", Amount: decimal.NewFromInt(1000), Frequency: ledger.FrequencyWeekly, IsActive: true})
	require.NoError(t, err)
	store.AddInsight(ledger.Insight{UserID: userID, Title: "Nice", Description: "d", Type: ledger.InsightSuccess})

	snap, err := New(srv.URL, goodToken).Load(ctx, 50)
	require.NoError(t, err)

	require.Len(t, snap.Accounts, 1)
	assert.Equal(t, "6.25", snap.Accounts[0].Balance.StringFixed(2))
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, ledger.TypeExpense, snap.Transactions[0].Type)
	require.NotNil(t, snap.Transactions[0].Category)
	assert.Equal(t, "Food", *snap.Transactions[0].Category)
	require.Len(t, snap.IncomeStreams, 1)
	assert.Equal(t, ledger.FrequencyWeekly, snap.IncomeStreams[0].Frequency)
	require.Len(t, snap.Insights, 1)
	assert.Equal(t, ledger.InsightSuccess, snap.Insights[0].Type)
}

func TestTransactionsQuery(t *testing.T) {
	srv, store, userID := newServer(t)
	ctx := context.Background()

	a, err := store.CreateAccount(ctx, userID, ledger.NewAccount{Name: "A", Type: "checking"})
	require.NoError(t, err)
	b, err := store.CreateAccount(ctx, userID, ledger.NewAccount{Name: "B", Type: "checking"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = store.CreateTransaction(ctx, userID, ledger.NewTransaction{AccountID: &a.ID, Amount: decimal.NewFromInt(1), Type: ledger.TypeIncome})
		require.NoError(t, err)
	}
	_, err = store.CreateTransaction(ctx, userID, ledger.NewTransaction{AccountID: &b.ID, Amount: decimal.NewFromInt(1), Type: ledger.TypeIncome})
	require.NoError(t, err)

	c := New(srv.URL, goodToken)
	rows, err := c.Transactions(ctx, ledger.TransactionFilter{AccountID: &a.ID, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		require.NotNil(t, r.AccountID)
		assert.Equal(t, a.ID, *r.AccountID)
	}
}

func TestAPIError(t *testing.T) {
	srv, _, _ := newServer(t)

	_, err := New(srv.URL, "bad").Accounts(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "invalid token", apiErr.Message)

	_, err = New(srv.URL, "bad").Load(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accounts: api error 401")
}
