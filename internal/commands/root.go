package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ishantswami13-crypto/wisewallet/internal/buildinfo"
	"github.com/ishantswami13-crypto/wisewallet/internal/config"
	"github.com/ishantswami13-crypto/wisewallet/internal/logging"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "wisewallet",
		Short:   "Personal finance API and terminal dashboard",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default ./config.yaml if present)")

	load := func() (*config.Config, error) { return config.Load(configPath) }

	rootCmd.AddCommand(
		newServeCommand(load),
		newMigrateCommand(load),
		newDashboardCommand(),
		newStatementCommand(),
		newDevTokenCommand(load),
		newHashAdminKeyCommand(),
	)

	return rootCmd
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

type loader func() (*config.Config, error)

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.New(w, cfg.Log.Level, cfg.Log.Format)
}
