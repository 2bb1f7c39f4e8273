package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/reports"
)

func newStatementCommand() *cobra.Command {
	var (
		remote   remoteFlags
		month    string
		out      string
		currency string
	)

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Render a monthly PDF statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			m, err := reports.ParseMonth(month, now)
			if err != nil {
				return err
			}
			c, err := remote.client()
			if err != nil {
				return err
			}

			txs, err := c.Transactions(cmd.Context(), ledger.TransactionFilter{Limit: ledger.MaxTransactionLimit})
			if err != nil {
				return err
			}
			s := reports.BuildStatement(txs, m, currency)

			if out == "" {
				out = "statement-" + s.Label() + ".pdf"
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := reports.RenderPDF(f, s, now); err != nil {
				f.Close()
				return fmt.Errorf("render statement: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d transactions)\n", out, len(s.Items))
			return nil
		},
	}

	remote.register(cmd)
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current month)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default statement-YYYY-MM.pdf)")
	cmd.Flags().StringVar(&currency, "currency", ledger.DefaultCurrency, "currency label")

	return cmd
}
