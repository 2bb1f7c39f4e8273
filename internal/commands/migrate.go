package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishantswami13-crypto/wisewallet/internal/db"
)

func newMigrateCommand(load loader) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				names, err := db.Migrations()
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("database.url is required")
			}

			applied, err := db.Migrate(cmd.Context(), cfg.Database.URL, newLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "Database is up to date")
				return nil
			}
			for _, n := range applied {
				fmt.Fprintf(out, "Applied %s\n", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print the embedded migrations and exit")

	return cmd
}
