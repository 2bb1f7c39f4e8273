package admin

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	o   Overview
	err error
}

func (f fixedSource) Overview(context.Context) (Overview, error) { return f.o, f.err }

func newApp(t *testing.T, hash string, src OverviewSource) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := &Handler{Source: src}
	app.Get("/admin/overview", RequireAdminKey(hash), h.Overview)
	return app
}

func get(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/admin/overview", nil)
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestOverviewRequiresKey(t *testing.T) {
	hash, err := HashKey("open-sesame")
	require.NoError(t, err)
	app := newApp(t, hash, fixedSource{o: Overview{UsersTotal: 3, TransactionsTotal: 12}})

	status, _ := get(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := get(t, app, "open-sesame")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"success":true,"data":{"usersTotal":3,"accountsTotal":0,"transactionsTotal":12,"incomeStreamsTotal":0,"insightsTotal":0}}`, body)
}

func TestOverviewWithoutHashIsClosed(t *testing.T) {
	app := newApp(t, "", fixedSource{})
	status, _ := get(t, app, "anything")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestOverviewSourceError(t *testing.T) {
	hash, err := HashKey("k")
	require.NoError(t, err)
	status, _ := get(t, newApp(t, hash, fixedSource{err: errors.New("db down")}), "k")
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
