package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func newMigrator(cfg config.DBConfig) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, MigrationURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to init migrator: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending migration.
func MigrateUp(cfg config.DBConfig, log *logrus.Logger) error {
	return runMigration(cfg, log, "up", func(m *migrate.Migrate) error { return m.Up() })
}

// MigrateDown rolls back one migration.
func MigrateDown(cfg config.DBConfig, log *logrus.Logger) error {
	return runMigration(cfg, log, "down", func(m *migrate.Migrate) error { return m.Steps(-1) })
}

func runMigration(cfg config.DBConfig, log *logrus.Logger, direction string, step func(*migrate.Migrate) error) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warnf("Failed to close migrator: %v %v", srcErr, dbErr)
		}
	}()

	if err := step(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Infof("Migrations %s: no change", direction)
			return nil
		}
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	log.Infof("Migrations %s applied, version=%d dirty=%t", direction, version, dirty)
	return nil
}
