package http

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/money"
)

type AccountResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Balance   json.Number `json:"balance"`
	Currency  string      `json:"currency"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type TransactionResponse struct {
	ID          uuid.UUID   `json:"id"`
	AccountID   *uuid.UUID  `json:"accountId"`
	AccountName *string     `json:"accountName"`
	Amount      json.Number `json:"amount"`
	Category    *string     `json:"category"`
	Description *string     `json:"description"`
	Type        string      `json:"type"`
	Date        time.Time   `json:"date"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type IncomeStreamResponse struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Amount          json.Number `json:"amount"`
	Frequency       string      `json:"frequency"`
	IsActive        bool        `json:"isActive"`
	AccountID       *uuid.UUID  `json:"accountId"`
	AccountName     *string     `json:"accountName"`
	LastDepositDate *time.Time  `json:"lastDepositDate"`
	NextDepositDate *time.Time  `json:"nextDepositDate"`
	CreatedAt       time.Time   `json:"createdAt"`
}

type InsightResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toAccount(a ledger.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Balance:   money.Number(a.Balance),
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toTransaction(t ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		AccountName: t.AccountName,
		Amount:      money.Number(t.Amount),
		Category:    t.Category,
		Description: t.Description,
		Type:        string(t.Type),
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
	}
}

func toIncomeStream(s ledger.IncomeStream) IncomeStreamResponse {
	return IncomeStreamResponse{
		ID:              s.ID,
		Name:            s.Name,
		Amount:          money.Number(s.Amount),
		Frequency:       string(s.Frequency),
		IsActive:        s.IsActive,
		AccountID:       s.AccountID,
		AccountName:     s.AccountName,
		LastDepositDate: s.LastDepositDate,
		NextDepositDate: s.NextDepositDate,
		CreatedAt:       s.CreatedAt,
	}
}

func toInsight(in ledger.Insight) InsightResponse {
	return InsightResponse{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Type:        string(in.Type),
		CreatedAt:   in.CreatedAt,
	}
}

func mapAll[T, R any](rows []T, fn func(T) R) []R {
	out := make([]R, len(rows))
	for i, r := range rows {
		out[i] = fn(r)
	}
	return out
}
