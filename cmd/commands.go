package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/cmd/bootstrap"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/export"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

const commandTimeout = 5 * time.Minute

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "faltantes",
		Short:         "Shortage report capture service for the hospital",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server and the reconciliation schedule",
			RunE:  runServe,
		},
		newMigrateCommand(),
		newExportCommand(),
		&cobra.Command{
			Use:   "reconcile",
			Short: "Deliver locally queued reports to the database once",
			RunE:  runReconcile,
		},
	)

	return root
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Setup()
	if err != nil {
		return err
	}

	// Initialize application with all dependencies
	app, err := bootstrap.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// Run the application
	return app.Run()
}

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the reports schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := bootstrap.Setup()
				if err != nil {
					return err
				}
				return database.MigrateUp(cfg.DB, log)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := bootstrap.Setup()
				if err != nil {
					return err
				}
				return database.MigrateDown(cfg.DB, log)
			},
		},
	)

	return migrateCmd
}

func newExportCommand() *cobra.Command {
	var (
		format string
		dir    string
		term   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report history to a dated spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.Setup()
			if err != nil {
				return err
			}

			app, err := bootstrap.New(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.Close()

			if dir == "" {
				dir = cfg.Export.Dir
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			file, err := app.AdminUsecase.ExportReports(ctx, term, format)
			if errors.Is(err, export.ErrEmptyExport) {
				log.Info("No reports to export")
				return nil
			}
			if err != nil {
				return err
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create export dir: %w", err)
			}
			path := filepath.Join(dir, file.Filename)
			if err := os.WriteFile(path, file.Content, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			log.Infof("Exported %d rows to %s", file.Rows, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", export.FormatXLSX, "xlsx or csv")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default EXPORT_DIR)")
	cmd.Flags().StringVar(&term, "q", "", "filter by service, physician or item")

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Setup()
	if err != nil {
		return err
	}

	app, err := bootstrap.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	result, err := app.Reconciler.RunOnce(ctx)
	log.Infof("Delivered %d queued reports, %d remaining", result.Delivered, result.Remaining)
	return err
}
