package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/diewo77/epic-crm/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	for _, m := range models.All() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunSQLMigrations applies the embedded versioned postgres migrations.
func RunSQLMigrations(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return fmt.Errorf("sql migrations require postgres, got %s", db.Dialector.Name())
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	src, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Prepare brings the schema up to date the configured way.
func Prepare(db *gorm.DB, sqlMigrations bool) error {
	if sqlMigrations {
		return RunSQLMigrations(db)
	}
	return Migrate(db)
}
