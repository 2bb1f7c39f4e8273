// Package client is a typed HTTP client for the wisewallet API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
)

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError is a non-2xx response carrying the server's error text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if res.StatusCode >= 300 {
			return &APIError{Status: res.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if res.StatusCode >= 300 || !env.Success {
		return &APIError{Status: res.StatusCode, Message: env.Error}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func (c *Client) Accounts(ctx context.Context) ([]ledger.Account, error) {
	var rows []handlers.AccountResponse
	if err := c.do(ctx, http.MethodGet, "/Accounts", nil, nil, &rows); err != nil {
		return nil, err
	}
	return convertAll(rows, fromAccount)
}

func (c *Client) Transactions(ctx context.Context, f ledger.TransactionFilter) ([]ledger.Transaction, error) {
	q := url.Values{}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.AccountID != nil {
		q.Set("accountId", f.AccountID.String())
	}
	var rows []handlers.TransactionResponse
	if err := c.do(ctx, http.MethodGet, "/Transactions", q, nil, &rows); err != nil {
		return nil, err
	}
	return convertAll(rows, fromTransaction)
}

func (c *Client) IncomeStreams(ctx context.Context) ([]ledger.IncomeStream, error) {
	var rows []handlers.IncomeStreamResponse
	if err := c.do(ctx, http.MethodGet, "/IncomeStreams", nil, nil, &rows); err != nil {
		return nil, err
	}
	return convertAll(rows, fromIncomeStream)
}

func (c *Client) Insights(ctx context.Context) ([]ledger.Insight, error) {
	var rows []handlers.InsightResponse
	if err := c.do(ctx, http.MethodGet, "/AIInsights", nil, nil, &rows); err != nil {
		return nil, err
	}
	return convertAll(rows, fromInsight)
}

// Snapshot is one view load: everything the dashboard renders.
type Snapshot struct {
	Accounts      []ledger.Account
	Transactions  []ledger.Transaction
	IncomeStreams []ledger.IncomeStream
	Insights      []ledger.Insight
}

// Load issues the four list calls concurrently. A failed call leaves its
// slice empty and is reported in the returned error; the others still load.
func (c *Client) Load(ctx context.Context, txLimit int) (Snapshot, error) {
	var (
		s    Snapshot
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []string
	)
	fail := func(what string, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, what+": "+err.Error())
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		var err error
		if s.Accounts, err = c.Accounts(ctx); err != nil {
			fail("accounts", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if s.Transactions, err = c.Transactions(ctx, ledger.TransactionFilter{Limit: txLimit}); err != nil {
			fail("transactions", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if s.IncomeStreams, err = c.IncomeStreams(ctx); err != nil {
			fail("income streams", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if s.Insights, err = c.Insights(ctx); err != nil {
			fail("insights", err)
		}
	}()
	wg.Wait()

	if len(errs) > 0 {
		return s, fmt.Errorf("load dashboard: %s", strings.Join(errs, "; "))
	}
	return s, nil
}
