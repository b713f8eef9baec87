package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xavierca1/leadsync/internal/config"
	"github.com/xavierca1/leadsync/internal/infra/database"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sheetsync",
		Short:        "Sync leads from Google Sheets without the HTTP server",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRunCmd(),
		newLogsCmd(),
		newMigrateCmd(),
		newTokenCmd(),
	)
	return root
}

// openDB carrega a config e abre o Postgres; quem chama fecha.
func openDB() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao conectar no banco: %w", err)
	}
	return cfg, db, nil
}
