// Package db opens the database and keeps its schema current.
package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/epic-crm/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

const connectAttempts = 5

// Open connects using the configured driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	log.Printf("Connecting to database: %s", cfg.Masked())
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath, cfg.Debug)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func gormConfig(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

// openPostgres builds a pgx pool and hands it to gorm through database/sql.
// Postgres may still be starting in containers, so connection is retried.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	var pool *pgxpool.Pool
	for i := 1; i <= connectAttempts; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		log.Printf("Database connection attempt %d/%d failed: %v", i, connectAttempts, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect postgres after %d attempts: %w", connectAttempts, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(cfg.Debug))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}
	return gdb, nil
}

// OpenSQLite opens (creating if needed) a SQLite database file with foreign
// keys enforced.
func OpenSQLite(path string, debug bool) (*gorm.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	gdb, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers anyway.
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

// Ping checks connectivity.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
