// Command migrate applies the embedded schema migrations. It reads the same
// configuration as `wisewallet migrate` and exists for release steps that
// ship a single-purpose binary.
package main

import (
	"context"
	"os"
	"time"

	"github.com/ishantswami13-crypto/wisewallet/internal/config"
	"github.com/ishantswami13-crypto/wisewallet/internal/db"
	"github.com/ishantswami13-crypto/wisewallet/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("WISEWALLET_CONFIG"))
	if err != nil {
		logging.New(os.Stderr, "info", "json").Error("load config", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if cfg.Database.URL == "" {
		log.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	applied, err := db.Migrate(ctx, cfg.Database.URL, log)
	if err != nil {
		log.Error("applying migrations", "err", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "count", len(applied))
}
