// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Audit    AuditConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds connection settings for either driver.
type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       int    `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"epic"`
	Password   string `env:"DB_PASSWORD" envDefault:"epic"`
	DBName     string `env:"DB_NAME" envDefault:"epic_crm"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns   int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"epic_crm.db"`
	Debug      bool   `env:"DB_DEBUG" envDefault:"false"`
	// Migrations selects versioned SQL migrations over AutoMigrate (postgres only).
	Migrations bool `env:"MIGRATIONS" envDefault:"false"`
}

// AuthConfig holds token settings.
type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"devjwtsecret"`
	JWTIssuer        string        `env:"JWT_ISSUER" envDefault:"epic-crm"`
	AccessTTL        time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL       time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	IdentityCacheTTL time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"1m"`
}

// AuditConfig selects where denials are reported.
type AuditConfig struct {
	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"development"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool   `env:"DEV" envDefault:"true"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	// ContractOwnership is "snapshot" or "live".
	ContractOwnership string `env:"CONTRACT_OWNERSHIP" envDefault:"snapshot"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Masked returns a printable description without the password.
func (d DatabaseConfig) Masked() string {
	if d.Driver == DriverSQLite {
		return "sqlite path=" + d.SQLitePath
	}
	return fmt.Sprintf("postgres host=%s port=%d dbname=%s user=%s", d.Host, d.Port, d.DBName, d.User)
}

// ParseEnv parses environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env parsing cannot.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.App.ContractOwnership {
	case "snapshot", "live":
	default:
		return fmt.Errorf("config: CONTRACT_OWNERSHIP must be snapshot or live, got %q", c.App.ContractOwnership)
	}
	if !c.App.Dev && c.Auth.JWTSecret == "devjwtsecret" {
		return fmt.Errorf("config: JWT_SECRET must be set outside development")
	}
	return nil
}
