// Package ledgertest provides an in-memory ledger with the same ownership and
// balance rules as the Postgres store, for handler and client tests.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
)

type MemStore struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*ledger.Account
	transactions map[uuid.UUID]*ledger.Transaction
	streams      map[uuid.UUID]*ledger.IncomeStream
	insights     []ledger.Insight

	// Now stamps created_at values; tests may replace it.
	Now func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts:     map[uuid.UUID]*ledger.Account{},
		transactions: map[uuid.UUID]*ledger.Transaction{},
		streams:      map[uuid.UUID]*ledger.IncomeStream{},
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

func notFound(entity string) error {
	return &notFoundError{entity}
}

type notFoundError struct{ entity string }

func (e *notFoundError) Error() string { return "not found: " + e.entity + " not found" }
func (e *notFoundError) Unwrap() error { return ledger.ErrNotFound }

// Balance reports the stored balance of an account regardless of owner.
func (m *MemStore) Balance(accountID uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[accountID]; ok {
		return a.Balance.String()
	}
	return ""
}

// AddInsight seeds an insight row.
func (m *MemStore) AddInsight(in ledger.Insight) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = m.Now()
	}
	m.insights = append(m.insights, in)
}

func (m *MemStore) ListAccounts(_ context.Context, userID uuid.UUID) ([]ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ledger.Account, 0)
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) CreateAccount(_ context.Context, userID uuid.UUID, in ledger.NewAccount) (ledger.Account, error) {
	if err := in.Validate(); err != nil {
		return ledger.Account{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	a := &ledger.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      in.Name,
		Type:      in.Type,
		Balance:   in.Balance,
		Currency:  in.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.accounts[a.ID] = a
	return *a, nil
}

func (m *MemStore) UpdateAccount(_ context.Context, userID, accountID uuid.UUID, p ledger.AccountPatch) (ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok || a.UserID != userID {
		return ledger.Account{}, notFound("account")
	}
	p.Apply(a)
	a.UpdatedAt = m.Now()
	return *a, nil
}

func (m *MemStore) DeleteAccount(_ context.Context, userID, accountID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok || a.UserID != userID {
		return notFound("account")
	}
	delete(m.accounts, accountID)
	for _, t := range m.transactions {
		if t.AccountID != nil && *t.AccountID == accountID {
			t.AccountID = nil
		}
	}
	for _, s := range m.streams {
		if s.AccountID != nil && *s.AccountID == accountID {
			s.AccountID = nil
		}
	}
	return nil
}

func (m *MemStore) accountName(userID uuid.UUID, id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	if a, ok := m.accounts[*id]; ok && a.UserID == userID {
		name := a.Name
		return &name
	}
	return nil
}

func (m *MemStore) ListTransactions(_ context.Context, userID uuid.UUID, f ledger.TransactionFilter) ([]ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ledger.Transaction, 0)
	for _, t := range m.transactions {
		if t.UserID != userID {
			continue
		}
		if f.AccountID != nil && (t.AccountID == nil || *t.AccountID != *f.AccountID) {
			continue
		}
		row := *t
		row.AccountName = m.accountName(userID, t.AccountID)
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := f.Limit
	if limit <= 0 {
		limit = ledger.DefaultTransactionLimit
	}
	if limit > ledger.MaxTransactionLimit {
		limit = ledger.MaxTransactionLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) CreateTransaction(_ context.Context, userID uuid.UUID, in ledger.NewTransaction) (ledger.Transaction, error) {
	if err := in.Validate(); err != nil {
		return ledger.Transaction{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if in.AccountID != nil {
		if !m.owns(userID, in.AccountID) {
			return ledger.Transaction{}, notFound("account")
		}
		a := m.accounts[*in.AccountID]
		a.Balance = a.Balance.Add(ledger.Effect(in.Type, in.Amount))
	}

	t := &ledger.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		AccountID:   in.AccountID,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Type:        in.Type,
		Date:        in.Date,
		CreatedAt:   m.Now(),
	}
	m.transactions[t.ID] = t

	out := *t
	out.AccountName = m.accountName(userID, t.AccountID)
	return out, nil
}

func (m *MemStore) DeleteTransaction(_ context.Context, userID, transactionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[transactionID]
	if !ok || t.UserID != userID {
		return notFound("transaction")
	}
	delete(m.transactions, transactionID)
	if t.AccountID != nil {
		if a, ok := m.accounts[*t.AccountID]; ok && a.UserID == userID {
			a.Balance = a.Balance.Add(ledger.Reversal(t.Type, t.Amount))
		}
	}
	return nil
}

// owns reports whether id is nil or names an account of userID. Callers hold mu.
func (m *MemStore) owns(userID uuid.UUID, id *uuid.UUID) bool {
	if id == nil {
		return true
	}
	a, ok := m.accounts[*id]
	return ok && a.UserID == userID
}

func (m *MemStore) ListIncomeStreams(_ context.Context, userID uuid.UUID) ([]ledger.IncomeStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ledger.IncomeStream, 0)
	for _, s := range m.streams {
		if s.UserID != userID {
			continue
		}
		row := *s
		row.AccountName = m.accountName(userID, s.AccountID)
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) CreateIncomeStream(_ context.Context, userID uuid.UUID, in ledger.NewIncomeStream) (ledger.IncomeStream, error) {
	if err := in.Validate(); err != nil {
		return ledger.IncomeStream{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.owns(userID, in.AccountID) {
		return ledger.IncomeStream{}, notFound("account")
	}
	s := &ledger.IncomeStream{
		ID:        uuid.New(),
		UserID:    userID,
		AccountID: in.AccountID,
		Name:      in.Name,
		Amount:    in.Amount,
		Frequency: in.Frequency,
		IsActive:  in.IsActive,
		CreatedAt: m.Now(),
	}
	m.streams[s.ID] = s
	out := *s
	out.AccountName = m.accountName(userID, s.AccountID)
	return out, nil
}

func (m *MemStore) UpdateIncomeStream(_ context.Context, userID, id uuid.UUID, p ledger.IncomeStreamPatch) (ledger.IncomeStream, error) {
	if err := p.Validate(); err != nil {
		return ledger.IncomeStream{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.AccountID.Set && !m.owns(userID, p.AccountID.Value) {
		return ledger.IncomeStream{}, notFound("account")
	}
	s, ok := m.streams[id]
	if !ok || s.UserID != userID {
		return ledger.IncomeStream{}, notFound("income stream")
	}
	p.Apply(s)
	out := *s
	out.AccountName = m.accountName(userID, s.AccountID)
	return out, nil
}

func (m *MemStore) DeleteIncomeStream(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.streams[id]
	if !ok || s.UserID != userID {
		return notFound("income stream")
	}
	delete(m.streams, id)
	return nil
}

func (m *MemStore) ListInsights(_ context.Context, userID uuid.UUID) ([]ledger.Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ledger.Insight, 0)
	for _, in := range m.insights {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > ledger.InsightLimit {
		out = out[:ledger.InsightLimit]
	}
	return out, nil
}
