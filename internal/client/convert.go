package client

import (
	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/money"
)

func convertAll[T, R any](rows []T, fn func(T) (R, error)) ([]R, error) {
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		v, err := fn(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func fromAccount(r handlers.AccountResponse) (ledger.Account, error) {
	balance, err := money.FromNumber(r.Balance)
	if err != nil {
		return ledger.Account{}, err
	}
	return ledger.Account{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Type,
		Balance:   balance,
		Currency:  r.Currency,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func fromTransaction(r handlers.TransactionResponse) (ledger.Transaction, error) {
	amount, err := money.FromNumber(r.Amount)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return ledger.Transaction{
		ID:          r.ID,
		AccountID:   r.AccountID,
		AccountName: r.AccountName,
		Amount:      amount,
		Category:    r.Category,
		Description: r.Description,
		Type:        ledger.TxType(r.Type),
		Date:        r.Date,
		CreatedAt:   r.CreatedAt,
	}, nil
}

func fromIncomeStream(r handlers.IncomeStreamResponse) (ledger.IncomeStream, error) {
	amount, err := money.FromNumber(r.Amount)
	if err != nil {
		return ledger.IncomeStream{}, err
	}
	return ledger.IncomeStream{
		ID:              r.ID,
		AccountID:       r.AccountID,
		AccountName:     r.AccountName,
		Name:            r.Name,
		Amount:          amount,
		Frequency:       ledger.Frequency(r.Frequency),
		IsActive:        r.IsActive,
		LastDepositDate: r.LastDepositDate,
		NextDepositDate: r.NextDepositDate,
		CreatedAt:       r.CreatedAt,
	}, nil
}

func fromInsight(r handlers.InsightResponse) (ledger.Insight, error) {
	return ledger.Insight{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        ledger.InsightType(r.Type),
		CreatedAt:   r.CreatedAt,
	}, nil
}
