package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ishantswami13-crypto/wisewallet/internal/auth"
	"github.com/ishantswami13-crypto/wisewallet/internal/commands"
	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/ledger/ledgertest"
	"github.com/ishantswami13-crypto/wisewallet/internal/router"
	"github.com/ishantswami13-crypto/wisewallet/internal/users"
)

const token = "cli-token"

type fixedUser struct{ id uuid.UUID }

func (f fixedUser) Verify(_ context.Context, raw string) (auth.Identity, error) {
	if raw != token {
		return auth.Identity{}, fmt.Errorf("%w: invalid token", auth.ErrUnauthenticated)
	}
	return auth.Identity{Subject: "cli"}, nil
}

func (f fixedUser) Resolve(context.Context, users.Profile) (uuid.UUID, error) { return f.id, nil }

func apiServer(t *testing.T) (string, *ledgertest.MemStore, uuid.UUID) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := ledgertest.NewMemStore()
	user := fixedUser{id: uuid.New()}

	app := router.NewApp(router.Options{Log: log})
	(&router.Router{
		Handler: handlers.NewHandler(store, log),
		AuthMW:  router.Authenticate(user, user),
	}).RegisterRoutes(app)

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv.URL, store, user.id
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "wisewallet version dev (commit: none, built: unknown)")
}

func TestDashboard(t *testing.T) {
	api, store, userID := apiServer(t)
	ctx := context.Background()

	acct, err := store.CreateAccount(ctx, userID, ledger.NewAccount{Name: "Checking", Type: "checking", Balance: decimal.NewFromInt(1000), Currency: "USD"})
	require.NoError(t, err)
	food := "Food"
	now := time.Now()
	_, err = store.CreateTransaction(ctx, userID, ledger.NewTransaction{AccountID: &acct.ID, Amount: decimal.NewFromInt(3000), Type: ledger.TypeIncome, Date: now})
	require.NoError(t, err)
	_, err = store.CreateTransaction(ctx, userID, ledger.NewTransaction{AccountID: &acct.ID, Amount: decimal.NewFromInt(500), Type: ledger.TypeExpense, Category: &food, Date: now})
	require.NoError(t, err)
	store.AddInsight(ledger.Insight{UserID: userID, Title: "On track", Description: "Spending is under budget", Type: ledger.InsightSuccess})

	out, err := run(t, "dashboard", "--api", api, "--token", token)
	require.NoError(t, err)

	assert.Contains(t, out, "$3,500.00")
	assert.Contains(t, out, "83.3%")
	assert.Contains(t, out, "25.0% of $2,000.00")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "[SUCCESS] On track")
}

func TestDashboardNeedsToken(t *testing.T) {
	t.Setenv("WISEWALLET_TOKEN", "")
	_, err := run(t, "dashboard", "--api", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bearer token is required")
}

func TestDashboardBadToken(t *testing.T) {
	api, _, _ := apiServer(t)
	_, err := run(t, "dashboard", "--api", api, "--token", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api error 401")
}

func TestStatement(t *testing.T) {
	api, store, userID := apiServer(t)
	ctx := context.Background()
	for i, amount := range []int64{40, 60} {
		_, err := store.CreateTransaction(ctx, userID, ledger.NewTransaction{
			Amount: decimal.NewFromInt(amount), Type: ledger.TypeExpense,
			Date: time.Date(2024, 6, 10+i, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
	_, err := store.CreateTransaction(ctx, userID, ledger.NewTransaction{
		Amount: decimal.NewFromInt(1), Type: ledger.TypeIncome, Date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "june.pdf")
	out, err := run(t, "statement", "--api", api, "--token", token, "--month", "2024-06", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "(2 transactions)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestStatementBadMonth(t *testing.T) {
	_, err := run(t, "statement", "--token", token, "--month", "June")
	assert.EqualError(t, err, "month must be YYYY-MM")
}

func TestDevToken(t *testing.T) {
	t.Setenv("WISEWALLET_AUTH_DEV_SECRET", "s3cret")
	out, err := run(t, "devtoken", "local-1", "--email", "dev@example.com")
	require.NoError(t, err)

	v, err := auth.NewVerifier(auth.Config{DevSecret: "s3cret"})
	require.NoError(t, err)
	id, err := v.Verify(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "local-1", id.Subject)
	assert.Equal(t, "dev@example.com", id.Email)
}

func TestDevTokenWithoutSecret(t *testing.T) {
	t.Setenv("WISEWALLET_AUTH_DEV_SECRET", "")
	_, err := run(t, "devtoken", "local-1")
	assert.EqualError(t, err, "auth.dev_secret is not configured")
}

func TestHashAdminKey(t *testing.T) {
	out, err := run(t, "hash-admin-key", "open-sesame")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("open-sesame")))

	_, err = run(t, "hash-admin-key", "  ")
	assert.Error(t, err)
}

func TestMigrateList(t *testing.T) {
	out, err := run(t, "migrate", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "0001_init.sql")
}

func TestMigrateNeedsDatabase(t *testing.T) {
	t.Setenv("WISEWALLET_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")
	_, err := run(t, "migrate")
	assert.EqualError(t, err, "database.url is required")
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	t.Setenv("WISEWALLET_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("WISEWALLET_AUTH_PROJECT_ID", "")
	t.Setenv("WISEWALLET_AUTH_DEV_SECRET", "")
	_, err := run(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "database.url is required")
}

func TestUnknownConfigFile(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
