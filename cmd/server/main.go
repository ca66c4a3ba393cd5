package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/epic-crm/internal/audit"
	"github.com/diewo77/epic-crm/internal/config"
	"github.com/diewo77/epic-crm/internal/db"
	"github.com/diewo77/epic-crm/internal/server"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load configuration from .env and the environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()
	log.Printf("Connecting to database: %s", cfg.Database.Masked())
	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateOnlyFlag {
		if err := db.Prepare(dbConn, cfg.Database.Migrations); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
		return
	}

	if *seedOnlyFlag {
		if err := db.Seed(ctx, dbConn, cfg.App.AdminEmail, cfg.App.AdminPassword); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Seeding completed successfully")
		return
	}

	if err := db.Prepare(dbConn, cfg.Database.Migrations); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	// Bootstrap management account
	if err := db.Seed(ctx, dbConn, cfg.App.AdminEmail, cfg.App.AdminPassword); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	sink, flush, err := audit.Setup(dbConn, cfg.Audit.SentryDSN, cfg.Audit.SentryEnvironment)
	if err != nil {
		log.Fatalf("Audit setup failed: %v", err)
	}
	defer flush()

	routerCfg, err := server.NewRouterConfig(dbConn, cfg, sink)
	if err != nil {
		log.Fatalf("Router setup failed: %v", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.NewApp(dbConn, routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server starting on port %s (dev=%v, ownership=%s)", cfg.Server.Port, cfg.App.Dev, cfg.App.ContractOwnership)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
