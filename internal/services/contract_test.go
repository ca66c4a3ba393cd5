package services

import (
	"context"
	"testing"

	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
)

func TestContractCreate_ManagementOnly(t *testing.T) {
	f := newFixture(t, SnapshotSalesContact)
	ctx := context.Background()
	x := f.client(t, f.sales1, "x@corp.test", f.sales1.ID)

	for _, r := range []policy.Requester{f.sales1, f.support1} {
		_, err := f.svc.Contracts.Create(ctx, r, ContractInput{ClientID: ptr(x.ID), TotalAmount: ptr(10.0)})
		wantForbidden(t, err, MsgContractCreateDenied)
	}
	if len(f.sink.denials) != 2 || f.sink.denials[0].Name() != "contract.create" {
		t.Fatalf("denials = %+v", f.sink.denials)
	}
}

func TestContractCreate_CopiesClientSalesContact(t *testing.T) {
	f := newFixture(t, SnapshotSalesContact)
	ctx := context.Background()
	c, err := f.svc.Clients.Create(ctx, f.support1, ClientInput{Email: ptr("x@corp.test"), FullName: ptr("X")})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	k := f.contract(t, c.ID, false)
	if k.SalesContactID == nil || c.SalesContactID == nil || *k.SalesContactID != *c.SalesContactID {
		t.Fatalf("contract sales contact = %v, client = %v", k.SalesContactID, c.SalesContactID)
	}
	if k.RemainingAmount != k.TotalAmount {
		t.Errorf("remaining = %v, want total %v", k.RemainingAmount, k.TotalAmount)
	}

	explicit, err := f.svc.Contracts.Create(ctx, f.manager, ContractInput{ClientID: ptr(c.ID), SalesContactID: SetRef(f.sales2.ID)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if explicit.GetUserID() != f.sales2.ID {
		t.Errorf("explicit sales contact overridden: %d", explicit.GetUserID())
	}
}

func TestContractOwnership(t *testing.T) {
	tests := []struct {
		ownership ContractOwnership
		follows   bool
	}{
		{SnapshotSalesContact, false},
		{LiveSalesContact, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.ownership), func(t *testing.T) {
			f := newFixture(t, tt.ownership)
			ctx := context.Background()
			x := f.client(t, f.sales1, "x@corp.test", f.sales1.ID)
			k := f.contract(t, x.ID, true)

			if _, err := f.svc.Clients.Update(ctx, f.sales1, x.ID, ClientInput{SalesContactID: SetRef(f.sales2.ID)}); err != nil {
				t.Fatalf("reassign: %v", err)
			}
			var got models.Contract
			if err := f.db.First(&got, k.ID).Error; err != nil {
				t.Fatal(err)
			}
			want := f.sales1.ID
			if tt.follows {
				want = f.sales2.ID
			}
			if got.GetUserID() != want {
				t.Fatalf("sales contact = %d, want %d", got.GetUserID(), want)
			}
		})
	}
}

func TestContractValidation(t *testing.T) {
	f := newFixture(t, SnapshotSalesContact)
	ctx := context.Background()
	x := f.client(t, f.sales1, "x@corp.test", f.sales1.ID)

	_, err := f.svc.Contracts.Create(ctx, f.manager, ContractInput{ClientID: ptr(x.ID), TotalAmount: ptr(100.0), RemainingAmount: ptr(150.0)})
	wantField(t, err, "remaining_amount", "exceeds_total")

	_, err = f.svc.Contracts.Create(ctx, f.manager, ContractInput{ClientID: ptr(x.ID), TotalAmount: ptr(-1.0)})
	wantField(t, err, "total_amount", "must_be_non_negative")

	_, err = f.svc.Contracts.Create(ctx, f.manager, ContractInput{TotalAmount: ptr(1.0)})
	wantField(t, err, "client_id", "required")

	_, err = f.svc.Contracts.Create(ctx, f.manager, ContractInput{ClientID: ptr(uint(999)), TotalAmount: ptr(1.0)})
	wantField(t, err, "client_id", "not_found")
}

func TestContractAccess(t *testing.T) {
	f := newFixture(t, SnapshotSalesContact)
	ctx := context.Background()
	x := f.client(t, f.sales1, "x@corp.test", f.sales1.ID)
	k := f.contract(t, x.ID, false)

	if _, err := f.svc.Contracts.Get(ctx, f.sales1, k.ID); err != nil {
		t.Fatalf("sales contact detail: %v", err)
	}
	_, err := f.svc.Contracts.Get(ctx, f.sales2, k.ID)
	wantForbidden(t, err, MsgContractAccessDenied)
	_, err = f.svc.Contracts.Update(ctx, f.sales2, k.ID, ContractInput{Signed: ptr(true)})
	wantForbidden(t, err, MsgContractUpdateDenied)
	err = f.svc.Contracts.Delete(ctx, f.support1, k.ID)
	wantForbidden(t, err, MsgContractDeleteDenied)
	_, err = f.svc.Contracts.List(ctx, f.support1, ContractFilter{})
	wantForbidden(t, err, MsgContractListDenied)

	signed, err := f.svc.Contracts.Update(ctx, f.sales1, k.ID, ContractInput{Signed: ptr(true), RemainingAmount: ptr(0.0)})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !signed.Signed || !signed.Paid() {
		t.Errorf("contract = %+v", signed)
	}
	if _, err := f.svc.Contracts.Update(ctx, f.manager, k.ID, ContractInput{RemainingAmount: ptr(5.0)}); err != nil {
		t.Fatalf("management update: %v", err)
	}

	_, err = f.svc.Contracts.Get(ctx, f.sales1, 12345)
	if err == nil || err.Error() != "contract not found" {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestContractList_Filters(t *testing.T) {
	f := newFixture(t, SnapshotSalesContact)
	ctx := context.Background()
	x := f.client(t, f.sales1, "x@corp.test", f.sales1.ID)
	y := f.client(t, f.sales2, "y@corp.test", f.sales2.ID)
	f.contract(t, x.ID, true)
	f.contract(t, x.ID, false)
	paid := f.contract(t, y.ID, true)
	if _, err := f.svc.Contracts.Update(ctx, f.manager, paid.ID, ContractInput{RemainingAmount: ptr(0.0)}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter ContractFilter
		want   int
	}{
		{"all", ContractFilter{}, 3},
		{"mine", ContractFilter{Mine: true}, 2},
		{"signed", ContractFilter{Signed: ptr(true)}, 2},
		{"unsigned", ContractFilter{Signed: ptr(false)}, 1},
		{"unpaid", ContractFilter{Unpaid: true}, 2},
	}
	for _, tt := range tests {
		got, err := f.svc.Contracts.List(ctx, f.sales1, tt.filter)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if len(got) != tt.want {
			t.Errorf("%s: got %d contracts, want %d", tt.name, len(got), tt.want)
		}
	}
}

func TestContractDelete_DetachesEvent(t *testing.T) {
	f := newFixture(t, SnapshotSalesContact)
	ctx := context.Background()
	x := f.client(t, f.sales1, "x@corp.test", f.sales1.ID)
	k := f.contract(t, x.ID, true)
	e, err := f.svc.Events.Create(ctx, f.sales1, eventInput(k.ID, f.support1.ID))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := f.svc.Contracts.Delete(ctx, f.sales1, k.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var kept models.Event
	if err := f.db.First(&kept, e.ID).Error; err != nil {
		t.Fatalf("event removed: %v", err)
	}
	if kept.ContractID != nil {
		t.Errorf("contract id = %d, want nil", *kept.ContractID)
	}
}
