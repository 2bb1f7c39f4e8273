package views

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
)

type Dashboard struct {
	TotalBalance     decimal.Decimal
	MonthIncome      decimal.Decimal
	MonthExpenses    decimal.Decimal
	SavingsRate      decimal.Decimal
	Budget           decimal.Decimal
	BudgetUsed       decimal.Decimal
	Categories       []CategoryTotal
	Trend            []MonthPoint
	ProjectedIncome  decimal.Decimal
	UpcomingDeposits []Deposit
	Insights         []ledger.Insight
}

type Deposit struct {
	Stream   string
	Date     time.Time
	DaysAway int
}

// Build computes every dashboard aggregate from one fetch.
func Build(accounts []ledger.Account, txs []ledger.Transaction, streams []ledger.IncomeStream, insights []ledger.Insight, budget decimal.Decimal, now time.Time) Dashboard {
	income, expenses := MonthTotals(txs, now)
	d := Dashboard{
		TotalBalance:    TotalBalance(accounts),
		MonthIncome:     income,
		MonthExpenses:   expenses,
		SavingsRate:     SavingsRate(income, expenses),
		Budget:          budget,
		BudgetUsed:      BudgetUsed(expenses, budget),
		Categories:      CategoryTotals(txs),
		Trend:           Trend(txs, now),
		ProjectedIncome: ProjectedMonthlyIncome(streams),
		Insights:        insights,
	}

	for _, s := range streams {
		if !s.IsActive {
			continue
		}
		next := s.NextDepositDate
		if next == nil && s.LastDepositDate != nil {
			n := NextDepositDate(*s.LastDepositDate, s.Frequency)
			next = &n
		}
		if next == nil {
			continue
		}
		d.UpcomingDeposits = append(d.UpcomingDeposits, Deposit{Stream: s.Name, Date: *next, DaysAway: DaysUntil(next, now)})
	}
	return d
}
