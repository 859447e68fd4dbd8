// Command migrate applies the schema to the configured database and exits.
// Deployments run it before starting the api server.
package main

import (
	"log/slog"
	"os"

	"github.com/shopsmart-app/backend/config"
	"github.com/shopsmart-app/backend/internal/database"
	"github.com/shopsmart-app/backend/internal/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("schema migrated")
}
