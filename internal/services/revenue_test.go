package services

import (
	"context"
	"testing"

	"github.com/diewo77/epic-crm/internal/models"
)

func TestComputeRevenue(t *testing.T) {
	rev := computeRevenue([]models.Contract{
		{Signed: true, TotalAmount: 1000, RemainingAmount: 250},
		{Signed: true, TotalAmount: 500, RemainingAmount: 0},
		{Signed: false, TotalAmount: 9000, RemainingAmount: 9000},
	})
	want := Revenue{Contracts: 3, Signed: 2, Total: 1500, Collected: 1250, Outstanding: 250}
	if rev != want {
		t.Fatalf("revenue = %+v, want %+v", rev, want)
	}
}

func TestContractRevenue_Scope(t *testing.T) {
	f := newFixture(t, SnapshotSalesContact)
	ctx := context.Background()
	c1 := f.client(t, f.sales1, "one@client.test", f.sales1.ID)
	c2 := f.client(t, f.sales2, "two@client.test", f.sales2.ID)
	f.contract(t, c1.ID, true)
	f.contract(t, c2.ID, true)

	all, err := f.svc.Contracts.Revenue(ctx, f.manager)
	if err != nil {
		t.Fatalf("manager revenue: %v", err)
	}
	mine, err := f.svc.Contracts.Revenue(ctx, f.sales1)
	if err != nil {
		t.Fatalf("sales revenue: %v", err)
	}
	if all.Contracts != 2 || mine.Contracts != 1 {
		t.Fatalf("contracts: manager %d, sales %d", all.Contracts, mine.Contracts)
	}
	if mine.Total*2 != all.Total {
		t.Errorf("totals: manager %v, sales %v", all.Total, mine.Total)
	}

	_, err = f.svc.Contracts.Revenue(ctx, f.support1)
	wantForbidden(t, err, MsgContractListDenied)
	if len(f.sink.denials) != 1 {
		t.Errorf("denials = %d, want 1", len(f.sink.denials))
	}
}
