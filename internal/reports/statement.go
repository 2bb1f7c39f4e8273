package reports

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/views"
)

const monthLayout = "2006-01"

// Statement is one calendar month of transactions with its totals.
type Statement struct {
	Month      time.Time
	Currency   string
	Income     decimal.Decimal
	Expenses   decimal.Decimal
	Items      []ledger.Transaction
	Categories []views.CategoryTotal
}

func (s Statement) Net() decimal.Decimal {
	return s.Income.Sub(s.Expenses)
}

func (s Statement) Label() string {
	return s.Month.Format(monthLayout)
}

// ParseMonth accepts YYYY-MM; empty means the month of now.
func ParseMonth(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	m, err := time.Parse(monthLayout, raw)
	if err != nil {
		return time.Time{}, errors.New("month must be YYYY-MM")
	}
	return m, nil
}

// BuildStatement keeps the transactions dated in month, newest first.
func BuildStatement(txs []ledger.Transaction, month time.Time, currency string) Statement {
	var items []ledger.Transaction
	for _, t := range txs {
		d := t.Date.UTC()
		if d.Year() == month.Year() && d.Month() == month.Month() {
			items = append(items, t)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })

	if currency == "" {
		currency = ledger.DefaultCurrency
	}
	income, expenses := views.MonthTotals(items, month)
	return Statement{
		Month:      month,
		Currency:   currency,
		Income:     income,
		Expenses:   expenses,
		Items:      items,
		Categories: views.CategoryTotals(items),
	}
}
