package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ishantswami13-crypto/wisewallet/internal/admin"
	"github.com/ishantswami13-crypto/wisewallet/internal/audit"
	"github.com/ishantswami13-crypto/wisewallet/internal/auth"
	"github.com/ishantswami13-crypto/wisewallet/internal/buildinfo"
	"github.com/ishantswami13-crypto/wisewallet/internal/config"
	"github.com/ishantswami13-crypto/wisewallet/internal/db"
	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
	"github.com/ishantswami13-crypto/wisewallet/internal/ledger"
	"github.com/ishantswami13-crypto/wisewallet/internal/router"
	"github.com/ishantswami13-crypto/wisewallet/internal/users"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(load loader) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			if migrate {
				if _, err := db.Migrate(cmd.Context(), cfg.Database.URL, log); err != nil {
					return fmt.Errorf("migrations: %w", err)
				}
			}
			return runServe(cmd.Context(), cfg, log)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pool, err := db.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	verifier, err := auth.NewVerifier(auth.Config{
		ProjectID: cfg.Auth.ProjectID,
		CertsURL:  cfg.Auth.CertsURL,
		DevSecret: cfg.Auth.DevSecret,
	})
	if err != nil {
		return err
	}
	if cfg.Auth.DevSecret != "" {
		log.Warn("development tokens are accepted")
	}

	app := router.NewApp(router.Options{
		CorsOrigin:  cfg.Server.CorsOrigin,
		ReadTimeout: cfg.Server.ReadTimeout,
		Log:         log,
	})

	r := &router.Router{
		Handler: handlers.NewHandler(ledger.NewStore(pool), log),
		AuthMW:  router.Authenticate(verifier, users.NewResolver(users.NewRepo(pool), log)),
		WriteMW: router.RateLimitWrite(cfg.RateLimit.WriteMax, cfg.RateLimit.Window),
		AuditMW: audit.Middleware(&audit.PgWriter{DB: pool}, log),
	}
	if cfg.Admin.KeyHash != "" {
		r.AdminHandler = admin.NewHandler(pool)
		r.AdminMW = admin.RequireAdminKey(cfg.Admin.KeyHash)
	}
	r.RegisterRoutes(app)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr(), "version", buildinfo.Version)
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
