package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxType is the direction of a transaction.
type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

// Frequency is how often an income stream pays out.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiWeekly Frequency = "bi-weekly"
	FrequencyMonthly  Frequency = "monthly"
)

// InsightType classifies an insight card.
type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
)

const DefaultCurrency = "USD"

type Account struct {
	ID        uuid.UUID       `db:"account_id"`
	UserID    uuid.UUID       `db:"user_id"`
	Name      string          `db:"account_name"`
	Type      string          `db:"account_type"`
	Balance   decimal.Decimal `db:"balance"`
	Currency  string          `db:"currency"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

type Transaction struct {
	ID          uuid.UUID       `db:"transaction_id"`
	UserID      uuid.UUID       `db:"user_id"`
	AccountID   *uuid.UUID      `db:"account_id"`
	AccountName *string         `db:"account_name"`
	Amount      decimal.Decimal `db:"amount"`
	Category    *string         `db:"category"`
	Description *string         `db:"description"`
	Type        TxType          `db:"transaction_type"`
	Date        time.Time       `db:"transaction_date"`
	CreatedAt   time.Time       `db:"created_at"`
}

type IncomeStream struct {
	ID              uuid.UUID       `db:"income_stream_id"`
	UserID          uuid.UUID       `db:"user_id"`
	AccountID       *uuid.UUID      `db:"account_id"`
	AccountName     *string         `db:"account_name"`
	Name            string          `db:"name"`
	Amount          decimal.Decimal `db:"amount"`
	Frequency       Frequency       `db:"frequency"`
	IsActive        bool            `db:"is_active"`
	LastDepositDate *time.Time      `db:"last_deposit_date"`
	NextDepositDate *time.Time      `db:"next_deposit_date"`
	CreatedAt       time.Time       `db:"created_at"`
}

type Insight struct {
	ID          uuid.UUID   `db:"insight_id"`
	UserID      uuid.UUID   `db:"user_id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Type        InsightType `db:"insight_type"`
	CreatedAt   time.Time   `db:"created_at"`
}

// NewAccount is the input to CreateAccount.
type NewAccount struct {
	Name     string
	Type     string
	Balance  decimal.Decimal
	Currency string
}

func (n *NewAccount) Validate() error {
	if n.Name == "" || n.Type == "" {
		return invalid("name and type are required")
	}
	if n.Currency == "" {
		n.Currency = DefaultCurrency
	}
	return nil
}

// NewTransaction is the input to CreateTransaction. Amount is stored exactly as
// given; its balance effect is derived by Effect.
type NewTransaction struct {
	AccountID   *uuid.UUID
	Amount      decimal.Decimal
	Type        TxType
	Category    *string
	Description *string
	Date        time.Time
}

func (n *NewTransaction) Validate() error {
	if !n.Type.Valid() {
		return invalid("type must be income or expense")
	}
	if n.Date.IsZero() {
		n.Date = time.Now().UTC()
	}
	return nil
}

// NewIncomeStream is the input to CreateIncomeStream.
type NewIncomeStream struct {
	AccountID *uuid.UUID
	Name      string
	Amount    decimal.Decimal
	Frequency Frequency
	IsActive  bool
}

func (n *NewIncomeStream) Validate() error {
	if n.Name == "" {
		return invalid("name, amount, and frequency are required")
	}
	if n.Amount.IsNegative() {
		return invalid("amount cannot be negative")
	}
	if !n.Frequency.Valid() {
		return invalid("frequency must be weekly, bi-weekly or monthly")
	}
	return nil
}

// TransactionFilter narrows ListTransactions.
type TransactionFilter struct {
	AccountID *uuid.UUID
	Limit     int
}

const (
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 200
	InsightLimit            = 10
)

func (f TransactionFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultTransactionLimit
	case f.Limit > MaxTransactionLimit:
		return MaxTransactionLimit
	}
	return f.Limit
}

func (t TxType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly:
		return true
	}
	return false
}
