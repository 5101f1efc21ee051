package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Sync      SyncConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	Export    ExportConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	Timezone    string
	AdminSecret string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// SyncConfig holds the keys and timings of the local fallback machinery.
type SyncConfig struct {
	FallbackKey       string
	PhysicianKey      string
	ReconcileInterval time.Duration
}

type CatalogConfig struct {
	Path     string
	Services []string
}

type RateLimitConfig struct {
	PerSecond float64
	Burst     int64
}

type ExportConfig struct {
	Dir string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// .env is optional, the environment alone is enough
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 8 * time.Hour
	}

	reconcileInterval, err := time.ParseDuration(v.GetString("SYNC_RECONCILE_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_RECONCILE_INTERVAL: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         strings.ToLower(v.GetString("APP_ENV")),
			LogLevel:    strings.ToLower(v.GetString("LOG_LEVEL")),
			Timezone:    v.GetString("APP_TIMEZONE"),
			AdminSecret: v.GetString("ADMIN_SECRET"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Sync: SyncConfig{
			FallbackKey:       v.GetString("SYNC_FALLBACK_KEY"),
			PhysicianKey:      v.GetString("SYNC_PHYSICIAN_KEY"),
			ReconcileInterval: reconcileInterval,
		},
		Catalog: CatalogConfig{
			Path:     v.GetString("CATALOG_PATH"),
			Services: splitList(v.GetString("SERVICES")),
		},
		RateLimit: RateLimitConfig{
			PerSecond: v.GetFloat64("RATE_LIMIT_PER_SECOND"),
			Burst:     v.GetInt64("RATE_LIMIT_BURST"),
		},
		Export: ExportConfig{
			Dir: v.GetString("EXPORT_DIR"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "America/Mexico_City")
	v.SetDefault("JWT_ACCESS_EXPIRY", "8h")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "faltantes")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SYNC_FALLBACK_KEY", "backup_reports")
	v.SetDefault("SYNC_PHYSICIAN_KEY", "hidalgo_hospital_current_physician")
	v.SetDefault("SYNC_RECONCILE_INTERVAL", "5m")
	v.SetDefault("RATE_LIMIT_PER_SECOND", 1)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("EXPORT_DIR", ".")
}

// Validate checks the values that have no safe default.
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return errors.New("APP_PORT cannot be empty")
	}

	switch c.App.Env {
	case "dev", "staging", "prod", "test":
	default:
		return fmt.Errorf("APP_ENV must be one of dev, staging, prod, test, got: %s", c.App.Env)
	}

	switch c.App.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got: %s", c.App.LogLevel)
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	if strings.TrimSpace(c.App.AdminSecret) == "" {
		return errors.New("ADMIN_SECRET is required")
	}

	if len(c.JWT.Secret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}

	if c.Sync.FallbackKey == "" || c.Sync.PhysicianKey == "" {
		return errors.New("SYNC_FALLBACK_KEY and SYNC_PHYSICIAN_KEY cannot be empty")
	}

	if c.Sync.ReconcileInterval < 0 {
		return errors.New("SYNC_RECONCILE_INTERVAL cannot be negative")
	}

	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive")
	}

	return nil
}

// Location returns the time zone used for calendar days.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
