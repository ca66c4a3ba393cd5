package policy

import (
	"context"

	"github.com/diewo77/epic-crm/gate"
	"github.com/diewo77/epic-crm/internal/models"
)

// ManagementPolicy reserves a resource to management, whatever the target.
// It guards identities and reports.
type ManagementPolicy struct {
	gate     *gate.Gate[Requester]
	resource string
}

func (p ManagementPolicy) CanCreate(ctx context.Context, r Requester) bool {
	return p.gate.Can(ctx, r, gate.ActionCreate, p.resource, nil)
}

func (p ManagementPolicy) CanUpdate(ctx context.Context, r Requester, owner uint) bool {
	return p.gate.Can(ctx, r, gate.ActionUpdate, p.resource, OwnerRef(owner))
}

func (p ManagementPolicy) CanDelete(ctx context.Context, r Requester, owner uint) bool {
	return p.gate.Can(ctx, r, gate.ActionDelete, p.resource, OwnerRef(owner))
}

func (p ManagementPolicy) CanAccess(ctx context.Context, r Requester, target Ownable) bool {
	return p.gate.Can(ctx, r, readAction(target), p.resource, target)
}

// Can implements gate.Policy.
func (p ManagementPolicy) Can(_ context.Context, r Requester, _ gate.Action, _ any) bool {
	return p.allowed(r)
}

func (ManagementPolicy) allowed(r Requester) bool {
	switch r.Role {
	case models.RoleManagement:
		return true
	case models.RoleSales, models.RoleSupport:
		return false
	}
	return false
}
