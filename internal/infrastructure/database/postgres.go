package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pingTimeout = 5 * time.Second

func connectionURL(cfg config.DBConfig, scheme string, params url.Values) string {
	params.Set("sslmode", cfg.SSLMode)
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: params.Encode(),
	}
	return u.String()
}

// DSN builds the postgres:// URL used by gorm. Credentials are escaped.
func DSN(cfg config.DBConfig, timezone string) string {
	return connectionURL(cfg, "postgres", url.Values{"TimeZone": []string{timezone}})
}

// MigrationURL builds the pgx5:// URL used by the migrator.
func MigrationURL(cfg config.DBConfig) string {
	return connectionURL(cfg, "pgx5", url.Values{})
}

// NewPostgresConnection opens the pool without requiring the server to be up.
// Reports are queued locally until it becomes reachable.
func NewPostgresConnection(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.App.Env == "dev" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg.DB, cfg.App.Timezone)), &gorm.Config{
		Logger:               logger.Default.LogMode(logLevel),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Warnf("PostgreSQL unreachable at startup, reports will be queued locally: %+v", err)
	} else {
		log.Info("Successfully connected to PostgreSQL database")
	}

	return db, nil
}
