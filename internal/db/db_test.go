package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/diewo77/epic-crm/internal/config"
	"github.com/diewo77/epic-crm/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := OpenSQLite(filepath.Join(t.TempDir(), "crm.db"), false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestMigrate_CreatesTables(t *testing.T) {
	gdb := openTestDB(t)
	for _, table := range []string{"identities", "clients", "contracts", "events", "audit_logs"} {
		if !gdb.Migrator().HasTable(table) {
			t.Errorf("missing table %s", table)
		}
	}
	if !gdb.Migrator().HasIndex(&models.Event{}, "idx_events_contract_id") {
		t.Error("expected unique index on events.contract_id")
	}
	// idempotent
	if err := Migrate(gdb); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "open.db")}
	gdb, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := Ping(context.Background(), gdb); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := Prepare(gdb, false); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := RunSQLMigrations(gdb); err == nil {
		t.Error("expected SQL migrations to refuse sqlite")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()

	if err := Seed(ctx, gdb, "", ""); err != nil {
		t.Fatalf("seed without admin: %v", err)
	}
	if err := Seed(ctx, gdb, "boss@epic.test", ""); err == nil {
		t.Fatal("expected error without password")
	}

	for i := 0; i < 2; i++ {
		if err := Seed(ctx, gdb, " Boss@Epic.test ", "s3cret"); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}

	var admins []models.Identity
	gdb.Find(&admins)
	if len(admins) != 1 {
		t.Fatalf("expected 1 identity, got %d", len(admins))
	}
	a := admins[0]
	if a.Email != "boss@epic.test" || a.Role != models.RoleManagement || !a.IsActive || !a.IsSuperuser {
		t.Errorf("unexpected admin %+v", a)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte("s3cret")); err != nil {
		t.Error("password was not hashed with bcrypt")
	}
}

func TestForeignKeys_SetNull(t *testing.T) {
	gdb := openTestDB(t)

	sales := models.Identity{Email: "s@epic.test", Role: models.RoleSales, IsActive: true, Password: "x"}
	gdb.Create(&sales)
	client := models.Client{Email: "c@acme.test", FullName: "Acme", SalesContactID: &sales.ID}
	gdb.Create(&client)

	if err := gdb.Delete(&models.Identity{}, sales.ID).Error; err != nil {
		t.Fatalf("delete identity: %v", err)
	}
	var reloaded models.Client
	gdb.First(&reloaded, client.ID)
	if reloaded.SalesContactID != nil {
		t.Errorf("expected sales contact to be nulled by the foreign key, got %v", *reloaded.SalesContactID)
	}
}
