package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
)

func migrateCmd() *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the ledger schema",
		Long:  `Run the schema migration and insert any missing default categories.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()

			database, err := db.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() { _ = database.Close() }()

			if err := database.AutoMigrate(); err != nil {
				return err
			}
			slog.Info("Schema migrated")

			if skipSeed {
				return nil
			}

			seed := category.NewSeedDefaultsUseCase(persistence.NewCategoryRepository(database.DB()))
			out, err := seed.Execute(cmd.Context())
			if err != nil {
				return err
			}
			slog.Info("Default categories seeded", "created", out.Created)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not insert default categories")
	return cmd
}
