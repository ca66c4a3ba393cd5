package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseEnv_Defaults(t *testing.T) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.IdleTimeout != 60*time.Second {
		t.Errorf("IdleTimeout = %v", cfg.Server.IdleTimeout)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.Port != 5432 {
		t.Errorf("unexpected database defaults %+v", cfg.Database)
	}
	if cfg.Auth.AccessTTL != 15*time.Minute || cfg.Auth.RefreshTTL != 168*time.Hour {
		t.Errorf("unexpected token TTLs %v %v", cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	}
	if cfg.App.ContractOwnership != "snapshot" {
		t.Errorf("ContractOwnership = %q", cfg.App.ContractOwnership)
	}
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("SENTRY_DSN", "https://key@sentry.example/1")

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Database.Port != 6543 || cfg.Database.Driver != DriverPostgres {
		t.Errorf("overrides not applied: %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.Auth.AccessTTL != 5*time.Minute {
		t.Errorf("AccessTTL = %v", cfg.Auth.AccessTTL)
	}
	if cfg.Audit.SentryDSN == "" {
		t.Error("expected SENTRY_DSN to be read")
	}
}

func TestParseEnv_BadValue(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	var cfg Config
	if err := ParseEnv(&cfg); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Errorf("expected parse env error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		if err := ParseEnv(&c); err != nil {
			t.Fatalf("ParseEnv: %v", err)
		}
		return c
	}

	c := base()
	c.Database.Driver = "POSTGRES"
	if err := c.Validate(); err != nil || c.Database.Driver != DriverPostgres {
		t.Errorf("expected driver to be normalised, got %q, %v", c.Database.Driver, err)
	}

	c = base()
	c.Database.Driver = "mysql"
	if err := c.Validate(); err == nil {
		t.Error("expected unsupported driver error")
	}

	c = base()
	c.App.ContractOwnership = "sometimes"
	if err := c.Validate(); err == nil {
		t.Error("expected contract ownership error")
	}

	c = base()
	c.App.Dev = false
	if err := c.Validate(); err == nil {
		t.Error("expected default JWT secret to be refused outside dev")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "epic", Password: "p@ss", DBName: "crm", SSLMode: "disable"}
	if got := d.DSN(); got != "host=db port=5432 user=epic password=p@ss dbname=crm sslmode=disable" {
		t.Errorf("DSN() = %q", got)
	}
	if got := d.URL(); got != "postgres://epic:p%40ss@db:5432/crm?sslmode=disable" {
		t.Errorf("URL() = %q", got)
	}
	if strings.Contains(d.Masked(), "p@ss") {
		t.Error("Masked() leaked the password")
	}
}
