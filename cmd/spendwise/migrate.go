package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/config"
	"github.com/Veraticus/spendwise/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Other commands migrate automatically; this is useful before first deploying
the API or to check where a database stands.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

// versioned is implemented by stores that track a schema version.
type versioned interface {
	SchemaVersion(ctx context.Context) (int, error)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")
	out := cmd.OutOrStdout()

	cfg, err := config.LoadStorageConfig(viper.GetViper())
	if err != nil {
		return err
	}

	slog.Info("Starting database migration", "driver", cfg.Driver, "path", cfg.Path, "status_only", status)

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if status {
		v, ok := store.(versioned)
		if !ok {
			_, err := fmt.Fprintln(out, cli.FormatInfo("This backend applies its schema idempotently and has no version."))
			return err
		}
		current, err := v.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		fmt.Fprintln(out, cli.FormatTitle("Database Migration Status"))
		fmt.Fprintf(out, "Current version: %d\nLatest version:  %d\n", current, storage.ExpectedSchemaVersion)
		if current < storage.ExpectedSchemaVersion {
			fmt.Fprintln(out, cli.FormatWarning("Run 'spendwise migrate' to apply pending migrations."))
		}
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed successfully!"))
	return err
}
