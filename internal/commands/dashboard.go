package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/money"
	"github.com/ishantswami13-crypto/wisewallet/internal/views"
)

func newDashboardCommand() *cobra.Command {
	var (
		remote   remoteFlags
		budget   string
		limit    int
		currency string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard aggregates for the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := money.Parse(budget)
			if err != nil {
				return fmt.Errorf("budget: %w", err)
			}
			c, err := remote.client()
			if err != nil {
				return err
			}

			snap, err := c.Load(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = ledger.DefaultCurrency
				if len(snap.Accounts) > 0 {
					currency = snap.Accounts[0].Currency
				}
			}

			d := views.Build(snap.Accounts, snap.Transactions, snap.IncomeStreams, snap.Insights, b, time.Now())
			return printDashboard(cmd.OutOrStdout(), d, snap.Accounts, currency)
		},
	}

	remote.register(cmd)
	cmd.Flags().StringVar(&budget, "budget", views.DefaultMonthlyBudget.String(), "monthly budget")
	cmd.Flags().IntVar(&limit, "limit", ledger.MaxTransactionLimit, "transactions to fetch")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency (default: first account's)")

	return cmd
}

func printDashboard(out io.Writer, d views.Dashboard, accounts []ledger.Account, currency string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Total balance\t%s\n", money.FormatCurrency(d.TotalBalance, currency))
	fmt.Fprintf(w, "Income this month\t%s\n", money.FormatCurrency(d.MonthIncome, currency))
	fmt.Fprintf(w, "Expenses this month\t%s\n", money.FormatCurrency(d.MonthExpenses, currency))
	fmt.Fprintf(w, "Savings rate\t%s%%\n", d.SavingsRate.StringFixed(1))
	fmt.Fprintf(w, "Budget used\t%s%% of %s\n", d.BudgetUsed.StringFixed(1), money.FormatCurrency(d.Budget, currency))
	fmt.Fprintf(w, "Projected monthly income\t%s\n", money.FormatCurrency(d.ProjectedIncome, currency))

	if len(accounts) > 0 {
		fmt.Fprintln(w, "\nACCOUNT\tTYPE\tBALANCE")
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, a.Type, money.FormatCurrency(a.Balance, a.Currency))
		}
	}

	if len(d.Categories) > 0 {
		fmt.Fprintln(w, "\nCATEGORY\tSPENT")
		for _, c := range d.Categories {
			fmt.Fprintf(w, "%s\t%s\n", c.Category, money.FormatCurrency(c.Total, currency))
		}
	}

	fmt.Fprintln(w, "\nMONTH\tINCOME\tEXPENSES")
	for _, p := range d.Trend {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Month.Format("Jan 2006"), money.FormatCurrency(p.Income, currency), money.FormatCurrency(p.Expenses, currency))
	}

	if len(d.UpcomingDeposits) > 0 {
		fmt.Fprintln(w, "\nDEPOSIT\tDATE\tIN")
		for _, dep := range d.UpcomingDeposits {
			fmt.Fprintf(w, "%s\t%s\t%s\n", dep.Stream, dep.Date.Format("2006-01-02"), days(dep.DaysAway))
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if len(d.Insights) > 0 {
		fmt.Fprintln(out, "\nInsights")
		for _, in := range d.Insights {
			fmt.Fprintf(out, "  [%s] %s: %s\n", strings.ToUpper(string(in.Type)), in.Title, in.Description)
		}
	}
	return nil
}

func days(n int) string {
	switch {
	case n < 0:
		return "overdue"
	case n == 0:
		return "today"
	case n == 1:
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
