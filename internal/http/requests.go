package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/money"
)

const dateOnly = "2006-01-02"

type createAccountReq struct {
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Balance  *json.Number `json:"balance"`
	Currency string       `json:"currency"`
}

func (r createAccountReq) toInput() (ledger.NewAccount, error) {
	in := ledger.NewAccount{
		Name:     strings.TrimSpace(r.Name),
		Type:     strings.TrimSpace(r.Type),
		Currency: strings.ToUpper(strings.TrimSpace(r.Currency)),
	}
	if in.Name == "" || in.Type == "" {
		return in, badRequest("name and type are required")
	}
	if r.Balance != nil {
		b, err := money.FromNumber(*r.Balance)
		if err != nil {
			return in, badRequest("balance must be a number")
		}
		in.Balance = b
	}
	return in, nil
}

type updateAccountReq struct {
	Name     ledger.Optional[string] `json:"name"`
	Type     ledger.Optional[string] `json:"type"`
	Currency ledger.Optional[string] `json:"currency"`
}

func (r updateAccountReq) toPatch() ledger.AccountPatch {
	p := ledger.AccountPatch{Name: r.Name, Type: r.Type, Currency: r.Currency}
	p.Name.Value = strings.TrimSpace(p.Name.Value)
	p.Type.Value = strings.TrimSpace(p.Type.Value)
	p.Currency.Value = strings.ToUpper(strings.TrimSpace(p.Currency.Value))
	return p
}

type createTransactionReq struct {
	AccountID   *string      `json:"accountId"`
	Amount      *json.Number `json:"amount"`
	Type        string       `json:"type"`
	Category    *string      `json:"category"`
	Description *string      `json:"description"`
	Date        string       `json:"date"`
}

func (r createTransactionReq) toInput() (ledger.NewTransaction, error) {
	var in ledger.NewTransaction
	if r.Amount == nil || r.Type == "" {
		return in, badRequest("amount and type are required")
	}
	amount, err := money.FromNumber(*r.Amount)
	if err != nil {
		return in, badRequest("amount must be a number")
	}
	in.Amount = amount
	in.Type = ledger.TxType(strings.ToLower(strings.TrimSpace(r.Type)))
	if !in.Type.Valid() {
		return in, badRequest("type must be income or expense")
	}

	if in.AccountID, err = optionalID(r.AccountID, "accountId"); err != nil {
		return in, err
	}
	in.Category = nonEmpty(r.Category)
	in.Description = nonEmpty(r.Description)

	if r.Date != "" {
		if in.Date, err = parseDate(r.Date); err != nil {
			return in, err
		}
	}
	return in, nil
}

type createIncomeStreamReq struct {
	Name      string       `json:"name"`
	Amount    *json.Number `json:"amount"`
	Frequency string       `json:"frequency"`
	AccountID *string      `json:"accountId"`
	IsActive  *bool        `json:"isActive"`
}

func (r createIncomeStreamReq) toInput() (ledger.NewIncomeStream, error) {
	in := ledger.NewIncomeStream{
		Name:      strings.TrimSpace(r.Name),
		Frequency: ledger.Frequency(strings.ToLower(strings.TrimSpace(r.Frequency))),
		IsActive:  true,
	}
	if in.Name == "" || r.Amount == nil || in.Frequency == "" {
		return in, badRequest("name, amount, and frequency are required")
	}
	amount, err := money.FromNumber(*r.Amount)
	if err != nil {
		return in, badRequest("amount must be a number")
	}
	in.Amount = amount

	if in.AccountID, err = optionalID(r.AccountID, "accountId"); err != nil {
		return in, err
	}
	if r.IsActive != nil {
		in.IsActive = *r.IsActive
	}
	return in, nil
}

type updateIncomeStreamReq struct {
	Name      ledger.Optional[string]      `json:"name"`
	Amount    ledger.Optional[json.Number] `json:"amount"`
	Frequency ledger.Optional[string]      `json:"frequency"`
	AccountID ledger.Optional[*string]     `json:"accountId"`
	IsActive  ledger.Optional[bool]        `json:"isActive"`
}

func (r updateIncomeStreamReq) toPatch() (ledger.IncomeStreamPatch, error) {
	var p ledger.IncomeStreamPatch
	if r.Name.Set {
		p.Name = ledger.Some(strings.TrimSpace(r.Name.Value))
	}
	if r.Amount.Set {
		amount, err := money.FromNumber(r.Amount.Value)
		if err != nil {
			return p, badRequest("amount must be a number")
		}
		p.Amount = ledger.Some(amount)
	}
	if r.Frequency.Set {
		p.Frequency = ledger.Some(ledger.Frequency(strings.ToLower(strings.TrimSpace(r.Frequency.Value))))
	}
	if r.AccountID.Set {
		id, err := optionalID(r.AccountID.Value, "accountId")
		if err != nil {
			return p, err
		}
		p.AccountID = ledger.Some(id)
	}
	p.IsActive = r.IsActive
	return p, nil
}

// optionalID treats a missing or blank id as "no account".
func optionalID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, badRequest(field + " must be a valid id")
	}
	return &id, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, badRequest("date must be RFC3339 or YYYY-MM-DD")
}
