package policy

import (
	"context"

	"github.com/diewo77/epic-crm/internal/models"
)

// Requester is the resolved identity behind a request. The zero value is
// an unauthenticated caller and is refused by every check.
type Requester struct {
	ID     uint
	Role   models.Role
	Active bool
}

// FromIdentity builds a requester from a stored identity.
func FromIdentity(i *models.Identity) Requester {
	if i == nil {
		return Requester{}
	}
	return Requester{ID: i.ID, Role: i.Role, Active: i.IsActive}
}

// IsManagement reports whether r is an active manager.
func (r Requester) IsManagement() bool {
	return r.Active && r.Role == models.RoleManagement
}

type requesterKey struct{}

// WithRequester stores r in ctx.
func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, r)
}

// RequesterFromContext returns the requester stored by AttachRequester.
func RequesterFromContext(ctx context.Context) (Requester, bool) {
	r, ok := ctx.Value(requesterKey{}).(Requester)
	return r, ok && r.ID != 0
}
