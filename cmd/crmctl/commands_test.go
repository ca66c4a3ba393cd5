package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/diewo77/epic-crm/internal/apperrors"
	"github.com/diewo77/epic-crm/internal/db"
	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/services"
)

const testPassword = "s3cret-pass"

// setupDB points the CLI at a fresh SQLite file holding one identity per
// role and a client of the sales identity. It returns the client id.
func setupDB(t *testing.T) uint {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crm.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("DEV", "true")
	t.Setenv("CONTRACT_OWNERSHIP", "snapshot")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("CRM_AS", "")
	t.Setenv("CRM_PASSWORD", "")

	gdb, err := db.OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	hash, err := services.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	var sales models.Identity
	for _, seed := range []struct {
		email string
		role  models.Role
	}{
		{"boss@epic.test", models.RoleManagement},
		{"sales@epic.test", models.RoleSales},
	} {
		identity := models.Identity{Email: seed.email, FullName: seed.email, Role: seed.role, IsActive: true, Password: hash}
		if err := gdb.Create(&identity).Error; err != nil {
			t.Fatalf("create identity: %v", err)
		}
		if seed.role == models.RoleSales {
			sales = identity
		}
	}
	client := models.Client{Email: "acme@corp.test", FullName: "Acme", AccountOwnerID: &sales.ID, SalesContactID: &sales.ID}
	if err := gdb.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatal(err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatal(err)
	}
	return client.ID
}

func run(as string, args ...string) error {
	argv := append([]string{"crmctl", "--as", as, "--password", testPassword}, args...)
	return newApp().Run(context.Background(), argv)
}

func TestContractsCreate_SalesDenied(t *testing.T) {
	clientID := setupDB(t)
	data := fmt.Sprintf(`{"client_id": %d, "total_amount": 10}`, clientID)

	err := run("sales@epic.test", "contracts", "create", "--data", data)
	if err == nil {
		t.Fatal("sales created a contract")
	}
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if err.Error() != services.MsgContractCreateDenied {
		t.Fatalf("message = %q, want %q", err.Error(), services.MsgContractCreateDenied)
	}

	if err := run("boss@epic.test", "contracts", "create", "--data", data); err != nil {
		t.Fatalf("management create: %v", err)
	}
}

func TestCommands_RequireIdentity(t *testing.T) {
	setupDB(t)
	err := newApp().Run(context.Background(), []string{"crmctl", "contracts", "list"})
	if err == nil || err.Error() != "--as (or CRM_AS) is required" {
		t.Fatalf("err = %v", err)
	}
	err = newApp().Run(context.Background(), []string{"crmctl", "--as", "sales@epic.test", "--password", "wrong", "contracts", "list"})
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want invalid credentials", err)
	}
}
