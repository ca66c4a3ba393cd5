package policy

import (
	"context"

	"github.com/diewo77/epic-crm/gate"
	"github.com/diewo77/epic-crm/internal/models"
)

// ClientPolicy governs clients. A client belongs to its account owner.
// The CanX helpers run the full gate, role grants first.
type ClientPolicy struct {
	gate *gate.Gate[Requester]
}

func (p ClientPolicy) CanCreate(ctx context.Context, r Requester) bool {
	return p.gate.Can(ctx, r, gate.ActionCreate, ResourceClient, nil)
}

func (p ClientPolicy) CanUpdate(ctx context.Context, r Requester, owner uint) bool {
	return p.gate.Can(ctx, r, gate.ActionUpdate, ResourceClient, OwnerRef(owner))
}

func (p ClientPolicy) CanDelete(ctx context.Context, r Requester, owner uint) bool {
	return p.gate.Can(ctx, r, gate.ActionDelete, ResourceClient, OwnerRef(owner))
}

// CanAccess is the read gate. A nil target checks the collection.
func (p ClientPolicy) CanAccess(ctx context.Context, r Requester, target Ownable) bool {
	return p.gate.Can(ctx, r, readAction(target), ResourceClient, target)
}

// Scope returns the account owner a listing must be restricted to, if any.
func (ClientPolicy) Scope(r Requester) (owner uint, restricted bool) {
	switch r.Role {
	case models.RoleManagement, models.RoleSupport:
		return 0, false
	case models.RoleSales:
		return r.ID, true
	}
	return r.ID, true
}

// Can implements gate.Policy; the role grants have already been checked.
func (p ClientPolicy) Can(_ context.Context, r Requester, action gate.Action, resource any) bool {
	owner, ok := ownerOf(resource)
	if !ok {
		return collectionAction(action)
	}
	return p.owns(r, action, owner)
}

func (ClientPolicy) owns(r Requester, action gate.Action, owner uint) bool {
	switch r.Role {
	case models.RoleManagement:
		return true
	case models.RoleSupport:
		return action == gate.ActionView || isOwner(r, owner)
	case models.RoleSales:
		return isOwner(r, owner)
	}
	return false
}
