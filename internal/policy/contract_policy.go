package policy

import (
	"context"

	"github.com/diewo77/epic-crm/gate"
	"github.com/diewo77/epic-crm/internal/models"
)

// ContractPolicy governs contracts. A contract belongs to its sales contact.
type ContractPolicy struct {
	gate *gate.Gate[Requester]
}

func (p ContractPolicy) CanCreate(ctx context.Context, r Requester) bool {
	return p.gate.Can(ctx, r, gate.ActionCreate, ResourceContract, nil)
}

func (p ContractPolicy) CanUpdate(ctx context.Context, r Requester, owner uint) bool {
	return p.gate.Can(ctx, r, gate.ActionUpdate, ResourceContract, OwnerRef(owner))
}

func (p ContractPolicy) CanDelete(ctx context.Context, r Requester, owner uint) bool {
	return p.gate.Can(ctx, r, gate.ActionDelete, ResourceContract, OwnerRef(owner))
}

// CanAccess is the read gate. A nil target checks the collection.
func (p ContractPolicy) CanAccess(ctx context.Context, r Requester, target Ownable) bool {
	return p.gate.Can(ctx, r, readAction(target), ResourceContract, target)
}

// Can implements gate.Policy; the role grants have already been checked.
func (p ContractPolicy) Can(_ context.Context, r Requester, action gate.Action, resource any) bool {
	owner, ok := ownerOf(resource)
	if !ok {
		return collectionAction(action)
	}
	return p.owns(r, owner)
}

func (ContractPolicy) owns(r Requester, owner uint) bool {
	switch r.Role {
	case models.RoleManagement:
		return true
	case models.RoleSales:
		return isOwner(r, owner)
	case models.RoleSupport:
		return false
	}
	return false
}
