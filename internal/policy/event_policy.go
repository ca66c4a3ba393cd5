package policy

import (
	"context"

	"github.com/diewo77/epic-crm/gate"
	"github.com/diewo77/epic-crm/internal/models"
)

// EventPolicy governs events. An event belongs to its support contact, but
// creating one is reserved to the sales contact of the contract's client.
type EventPolicy struct {
	gate *gate.Gate[Requester]
}

// CanCreate takes the sales contact of the client the event is for.
func (p EventPolicy) CanCreate(ctx context.Context, r Requester, clientSalesContact uint) bool {
	return p.gate.Can(ctx, r, gate.ActionCreate, ResourceEvent, OwnerRef(clientSalesContact))
}

func (p EventPolicy) CanUpdate(ctx context.Context, r Requester, owner uint) bool {
	return p.gate.Can(ctx, r, gate.ActionUpdate, ResourceEvent, OwnerRef(owner))
}

func (p EventPolicy) CanDelete(ctx context.Context, r Requester, owner uint) bool {
	return p.gate.Can(ctx, r, gate.ActionDelete, ResourceEvent, OwnerRef(owner))
}

// CanAccess is the read gate. A nil target checks the collection.
func (p EventPolicy) CanAccess(ctx context.Context, r Requester, target Ownable) bool {
	return p.gate.Can(ctx, r, readAction(target), ResourceEvent, target)
}

// Can implements gate.Policy. For ActionCreate the resource is an OwnerRef
// holding the client's sales contact; without it creation is refused.
func (p EventPolicy) Can(_ context.Context, r Requester, action gate.Action, resource any) bool {
	owner, ok := ownerOf(resource)
	if !ok {
		return action == gate.ActionList
	}
	return p.owns(r, action, owner)
}

func (EventPolicy) owns(r Requester, action gate.Action, owner uint) bool {
	switch r.Role {
	case models.RoleManagement:
		return true
	case models.RoleSales:
		return action == gate.ActionCreate && isOwner(r, owner)
	case models.RoleSupport:
		return action != gate.ActionCreate && isOwner(r, owner)
	}
	return false
}
