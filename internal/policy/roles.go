package policy

import (
	"context"

	"github.com/diewo77/epic-crm/gate"
	"github.com/diewo77/epic-crm/internal/models"
)

// Resource types known to the gate.
const (
	ResourceClient   = "client"
	ResourceContract = "contract"
	ResourceEvent    = "event"
	ResourceIdentity = "identity"
	ResourceReport   = "report"
)

// Resources lists the resource types, in a stable order.
func Resources() []string {
	return []string{ResourceClient, ResourceContract, ResourceEvent, ResourceIdentity, ResourceReport}
}

// grants is the coarse, role-class half of every decision: what a role may
// attempt at all. Ownership is decided afterwards by the entity policies.
var grants = map[models.Role][]gate.Permission{
	models.RoleManagement: {
		"client:list", "client:view", "client:update", "client:delete", "client:assign",
		"contract:*",
		"event:list", "event:view", "event:update", "event:delete",
		"identity:*",
		"report:view",
	},
	models.RoleSales: {
		"client:list", "client:view", "client:create", "client:update", "client:delete",
		"contract:list", "contract:view", "contract:update", "contract:delete",
		"event:create",
	},
	models.RoleSupport: {
		"client:list", "client:view", "client:create", "client:update", "client:delete",
		"event:list", "event:view", "event:update", "event:delete",
	},
}

// Roles maps requesters to their role profile. Inactive requesters and
// unknown roles get no profile.
type Roles struct {
	table *gate.ProfileTable[Requester, models.Role]
}

// NewRoles builds the profile table from the grants above.
func NewRoles() *Roles {
	table := gate.NewProfileTable[Requester](roleKey)
	for _, role := range models.Roles() {
		table.Set(role, gate.NewStaticProfile(role.Label(), grants[role]...))
	}
	return &Roles{table: table}
}

// roleKey gives no profile to anonymous or inactive requesters.
func roleKey(r Requester) (models.Role, bool) {
	return r.Role, r.ID != 0 && r.Active && r.Role.Valid()
}

// Resolve implements gate.ProfileResolver.
func (r *Roles) Resolve(ctx context.Context, req Requester) (gate.Profile, error) {
	return r.table.Resolve(ctx, req)
}
