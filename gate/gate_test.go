package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/epic-crm/gate"
)

type staff struct {
	ID   uint
	Role string
}

func roleOf(s staff) (string, bool) { return s.Role, s.Role != "" }

// ownerPolicy allows the action when the resource's owner is the subject.
type ownerPolicy struct{}

type record struct{ OwnerID uint }

func (ownerPolicy) Can(_ context.Context, s staff, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	r, ok := resource.(*record)
	return ok && r.OwnerID == s.ID
}

func newTestGate() *gate.Gate[staff] {
	table := gate.NewProfileTable[staff](roleOf)
	table.Set("sales", gate.NewStaticProfile("sales",
		"contract:list", "contract:view", "contract:update"))
	table.Set("management", gate.NewStaticProfile("management", "contract:*"))

	g := gate.New[staff](table)
	g.Register("contract", ownerPolicy{})
	return g
}

func TestGate_Authorize_ZeroSubject(t *testing.T) {
	g := newTestGate()
	err := g.Authorize(context.Background(), staff{}, gate.ActionView, "contract", nil)
	if !errors.Is(err, gate.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGate_Authorize_NoPolicy(t *testing.T) {
	g := newTestGate()
	err := g.Authorize(context.Background(), staff{ID: 1, Role: "sales"}, gate.ActionView, "unknown", nil)
	if !errors.Is(err, gate.ErrNoPolicyDefined) {
		t.Errorf("expected ErrNoPolicyDefined, got %v", err)
	}
}

func TestGate_Authorize_Stages(t *testing.T) {
	g := newTestGate()
	ctx := context.Background()
	seller := staff{ID: 7, Role: "sales"}
	boss := staff{ID: 1, Role: "management"}
	nobody := staff{ID: 9, Role: "intern"}

	tests := []struct {
		name     string
		subject  staff
		action   gate.Action
		resource any
		want     error
	}{
		{"sales lists", seller, gate.ActionList, nil, nil},
		{"sales updates own", seller, gate.ActionUpdate, &record{OwnerID: 7}, nil},
		{"sales updates other", seller, gate.ActionUpdate, &record{OwnerID: 8}, gate.ErrNotOwner},
		{"sales creates", seller, gate.ActionCreate, nil, gate.ErrUnauthorized},
		{"management creates", boss, gate.ActionCreate, nil, nil},
		{"management still goes through the policy", boss, gate.ActionDelete, &record{OwnerID: 7}, gate.ErrNotOwner},
		{"role without profile", nobody, gate.ActionList, nil, gate.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Authorize(ctx, tt.subject, tt.action, "contract", tt.resource)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !gate.IsDenied(err) {
				t.Errorf("IsDenied(%v) = false", err)
			}
		})
	}
}

func TestGate_CanProfile(t *testing.T) {
	g := newTestGate()
	ctx := context.Background()
	seller := staff{ID: 7, Role: "sales"}

	if !g.CanProfile(ctx, seller, gate.ActionUpdate, "contract") {
		t.Error("sales profile should allow contract:update")
	}
	if g.CanProfile(ctx, seller, gate.ActionDelete, "contract") {
		t.Error("sales profile should not allow contract:delete")
	}
	if g.CanProfile(ctx, staff{}, gate.ActionList, "contract") {
		t.Error("zero subject should not pass the profile check")
	}
}

func TestGate_Profile(t *testing.T) {
	g := newTestGate()
	p := g.Profile(context.Background(), staff{ID: 1, Role: "management"})
	if p == nil || p.Name() != "management" {
		t.Fatalf("expected management profile, got %v", p)
	}
	if g.Profile(context.Background(), staff{ID: 3, Role: "intern"}) != nil {
		t.Error("expected nil profile for unknown role")
	}
}
