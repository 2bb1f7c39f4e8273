// Package views computes the presentation aggregates the dashboard shows.
// Everything here is derived from the last fetched rows; nothing is cached.
package views

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
)

const (
	OtherCategory = "Other"
	TrendMonths   = 6
)

// DefaultMonthlyBudget is the fixed budget the analytics page compares
// spending against.
var DefaultMonthlyBudget = decimal.NewFromInt(2000)

var hundred = decimal.NewFromInt(100)

func TotalBalance(accounts []ledger.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// isExpense matches the expense page: type expense or a negative amount.
func isExpense(t ledger.Transaction) bool {
	return t.Type == ledger.TypeExpense || t.Amount.IsNegative()
}

// MonthTotals sums income and per-row absolute expenses for the calendar
// month of now.
func MonthTotals(txs []ledger.Transaction, now time.Time) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero
	for _, t := range txs {
		if !sameMonth(t.Date.In(now.Location()), now) {
			continue
		}
		switch t.Type {
		case ledger.TypeIncome:
			income = income.Add(t.Amount)
		case ledger.TypeExpense:
			expenses = expenses.Add(t.Amount.Abs())
		}
	}
	return income, expenses
}

// SavingsRate is (income - expenses) / income as a percentage, or zero when
// there is no income.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(expenses).Div(income).Mul(hundred).Round(1)
}

// BudgetUsed is the percentage of budget that expenses consumed.
func BudgetUsed(expenses, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	return expenses.Div(budget).Mul(hundred).Round(1)
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// CategoryTotals groups expense amounts (absolute) by category, largest first.
func CategoryTotals(txs []ledger.Transaction) []CategoryTotal {
	sums := map[string]decimal.Decimal{}
	for _, t := range txs {
		if t.Type != ledger.TypeExpense {
			continue
		}
		cat := OtherCategory
		if t.Category != nil && *t.Category != "" {
			cat = *t.Category
		}
		sums[cat] = sums[cat].Add(t.Amount.Abs())
	}

	out := make([]CategoryTotal, 0, len(sums))
	for cat, total := range sums {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

type MonthPoint struct {
	Month    time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Trend returns income and expense totals for the TrendMonths calendar months
// ending with the month of now, oldest first.
func Trend(txs []ledger.Transaction, now time.Time) []MonthPoint {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(TrendMonths - 1), 0)
	points := make([]MonthPoint, TrendMonths)
	for i := range points {
		points[i] = MonthPoint{Month: first.AddDate(0, i, 0), Income: decimal.Zero, Expenses: decimal.Zero}
	}

	for _, t := range txs {
		d := t.Date.In(now.Location())
		idx := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if idx < 0 || idx >= TrendMonths {
			continue
		}
		switch t.Type {
		case ledger.TypeIncome:
			points[idx].Income = points[idx].Income.Add(t.Amount)
		case ledger.TypeExpense:
			points[idx].Expenses = points[idx].Expenses.Add(t.Amount.Abs())
		}
	}
	return points
}

// ExpenseFilter narrows the expense list. Zero fields match everything; To
// includes the whole day.
type ExpenseFilter struct {
	AccountID *uuid.UUID
	Category  string
	From      time.Time
	To        time.Time
}

func (f ExpenseFilter) match(t ledger.Transaction) bool {
	if f.AccountID != nil && (t.AccountID == nil || *t.AccountID != *f.AccountID) {
		return false
	}
	if f.Category != "" && (t.Category == nil || *t.Category != f.Category) {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() {
		end := time.Date(f.To.Year(), f.To.Month(), f.To.Day(), 23, 59, 59, 0, f.To.Location())
		if t.Date.After(end) {
			return false
		}
	}
	return true
}

// FilterExpenses returns the matching expenses and their absolute total.
func FilterExpenses(txs []ledger.Transaction, f ExpenseFilter) ([]ledger.Transaction, decimal.Decimal) {
	var out []ledger.Transaction
	total := decimal.Zero
	for _, t := range txs {
		if !isExpense(t) || !f.match(t) {
			continue
		}
		out = append(out, t)
		total = total.Add(t.Amount.Abs())
	}
	return out, total
}

// MonthlyFactor converts a per-payment amount to a per-month estimate.
func MonthlyFactor(f ledger.Frequency) decimal.Decimal {
	switch f {
	case ledger.FrequencyWeekly:
		return decimal.NewFromInt(4)
	case ledger.FrequencyBiWeekly:
		return decimal.NewFromInt(2)
	}
	return decimal.NewFromInt(1)
}

// ProjectedMonthlyIncome sums the monthly estimate of active streams.
func ProjectedMonthlyIncome(streams []ledger.IncomeStream) decimal.Decimal {
	total := decimal.Zero
	for _, s := range streams {
		if !s.IsActive {
			continue
		}
		total = total.Add(s.Amount.Mul(MonthlyFactor(s.Frequency)))
	}
	return total
}

// NextDepositDate steps one payment period forward from from.
func NextDepositDate(from time.Time, f ledger.Frequency) time.Time {
	switch f {
	case ledger.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case ledger.FrequencyBiWeekly:
		return from.AddDate(0, 0, 14)
	}
	return from.AddDate(0, 1, 0)
}

// DaysUntil rounds up to whole days; a nil date is zero.
func DaysUntil(next *time.Time, now time.Time) int {
	if next == nil {
		return 0
	}
	diff := next.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
