package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/diewo77/epic-crm/internal/apperrors"
	"github.com/diewo77/epic-crm/internal/audit"
	"github.com/diewo77/epic-crm/internal/db"
	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
	"gorm.io/gorm"
)

type recordingSink struct {
	denials []audit.Denial
}

func (s *recordingSink) Denied(_ context.Context, d audit.Denial) error {
	s.denials = append(s.denials, d)
	return nil
}

type fixture struct {
	db   *gorm.DB
	svc  *Services
	sink *recordingSink

	manager, sales1, sales2, support1, support2 policy.Requester
}

func newFixture(t *testing.T, ownership ContractOwnership) *fixture {
	t.Helper()
	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "crm.db"), false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sink := &recordingSink{}
	f := &fixture{
		db:   gdb,
		svc:  New(gdb, policy.NewAuthGate(gdb, time.Minute), Options{Ownership: ownership, Sink: sink}),
		sink: sink,
	}
	f.manager = f.identity(t, "boss@epic.test", models.RoleManagement)
	f.sales1 = f.identity(t, "sales1@epic.test", models.RoleSales)
	f.sales2 = f.identity(t, "sales2@epic.test", models.RoleSales)
	f.support1 = f.identity(t, "support1@epic.test", models.RoleSupport)
	f.support2 = f.identity(t, "support2@epic.test", models.RoleSupport)
	return f
}

func (f *fixture) identity(t *testing.T, email string, role models.Role) policy.Requester {
	t.Helper()
	identity := models.Identity{Email: email, FullName: email, Role: role, IsActive: true, Password: "x"}
	if err := f.db.Create(&identity).Error; err != nil {
		t.Fatalf("create identity: %v", err)
	}
	return policy.FromIdentity(&identity)
}

// client creates a client owned by owner, with an explicit sales contact.
func (f *fixture) client(t *testing.T, owner policy.Requester, email string, salesContact uint) *models.Client {
	t.Helper()
	c, err := f.svc.Clients.Create(context.Background(), owner, ClientInput{
		Email:          ptr(email),
		FullName:       ptr("Client " + email),
		PhoneNumber:    ptr("0102030405"),
		SalesContactID: SetRef(salesContact),
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

func (f *fixture) contract(t *testing.T, clientID uint, signed bool) *models.Contract {
	t.Helper()
	k, err := f.svc.Contracts.Create(context.Background(), f.manager, ContractInput{
		ClientID:    ptr(clientID),
		Signed:      ptr(signed),
		TotalAmount: ptr(1000.0),
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	return k
}

func eventInput(contractID, support uint) EventInput {
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	return EventInput{
		Name:             ptr("Launch party"),
		ContractID:       ptr(contractID),
		StartDate:        ptr(start),
		EndDate:          ptr(start.Add(4 * time.Hour)),
		SupportContactID: SetRef(support),
		Location:         ptr("Paris"),
		Attendees:        ptr(75),
	}
}

func ptr[T any](v T) *T { return &v }

func wantForbidden(t *testing.T, err error, msg string) {
	t.Helper()
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if err.Error() != msg {
		t.Fatalf("reason = %q, want %q", err.Error(), msg)
	}
}

func wantField(t *testing.T, err error, field, code string) {
	t.Helper()
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
	if got := appErr.Fields[field]; got != code {
		t.Fatalf("%s = %q, want %q (fields %v)", field, got, code, appErr.Fields)
	}
}
