package policy

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/diewo77/epic-crm/auth"
	"github.com/diewo77/epic-crm/gate"
	"gorm.io/gorm"
)

// AuthGate is the central authorization point. Every decision, including the
// entity policies' CanX helpers, goes through Gate. Requesters caches the
// lookup from token user id to Requester.
type AuthGate struct {
	Gate       *gate.Gate[Requester]
	Requesters *gate.CachedResolver[uint, Requester]

	Clients   ClientPolicy
	Contracts ContractPolicy
	Events    EventPolicy
	Identity  ManagementPolicy
	Reports   ManagementPolicy
}

// NewAuthGate creates a fully configured gate.
// - db: GORM connection for identity lookups
// - cacheTTL: how long a resolved requester is trusted (e.g. time.Minute)
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	return NewAuthGateWithResolver(NewDBRequesterResolver(db), cacheTTL)
}

// NewAuthGateWithResolver is NewAuthGate over any requester source.
func NewAuthGateWithResolver(inner gate.Resolver[uint, Requester], cacheTTL time.Duration) *AuthGate {
	g := gate.New[Requester](NewRoles())
	ag := &AuthGate{
		Gate:       g,
		Requesters: gate.NewCachedResolver(inner, cacheTTL),
		Clients:    ClientPolicy{gate: g},
		Contracts:  ContractPolicy{gate: g},
		Events:     EventPolicy{gate: g},
		Identity:   ManagementPolicy{gate: g, resource: ResourceIdentity},
		Reports:    ManagementPolicy{gate: g, resource: ResourceReport},
	}
	ag.Gate.Register(ResourceClient, ag.Clients)
	ag.Gate.Register(ResourceContract, ag.Contracts)
	ag.Gate.Register(ResourceEvent, ag.Events)
	ag.Gate.Register(ResourceIdentity, ag.Identity)
	ag.Gate.Register(ResourceReport, ag.Reports)
	return ag
}

// Authorize runs both stages for r. A nil resource checks the collection.
func (ag *AuthGate) Authorize(ctx context.Context, r Requester, action gate.Action, resourceType string, resource any) error {
	return ag.Gate.Authorize(ctx, r, action, resourceType, resource)
}

// Resolve returns the requester behind a user id.
func (ag *AuthGate) Resolve(ctx context.Context, userID uint) (Requester, error) {
	return ag.Requesters.Resolve(ctx, userID)
}

// Verify implements auth.UserVerifier: the identity must exist and be active.
func (ag *AuthGate) Verify(ctx context.Context, userID uint) bool {
	r, err := ag.Resolve(ctx, userID)
	return err == nil && r.Active
}

// InvalidateIdentity drops a cached requester. Call it when an identity's
// role or active flag changes, or when it is deleted.
func (ag *AuthGate) InvalidateIdentity(id uint) {
	ag.Requesters.Invalidate(id)
}

// Permissions lists the role grants of r as configured, wildcards included.
// It is nil for a requester without a profile.
func (ag *AuthGate) Permissions(ctx context.Context, r Requester) []gate.Permission {
	p := ag.Gate.Profile(ctx, r)
	if p == nil {
		return nil
	}
	return p.Permissions()
}

// Capabilities expands the role grants of r into every concrete
// "resource:action" it may attempt. Ownership is not considered.
func (ag *AuthGate) Capabilities(ctx context.Context, r Requester) []gate.Permission {
	var out []gate.Permission
	for _, resource := range Resources() {
		for _, action := range gate.Actions() {
			if ag.Gate.CanProfile(ctx, r, action, resource) {
				out = append(out, gate.NewPermission(resource, action))
			}
		}
	}
	return out
}

// AttachRequester resolves the authenticated user id into a Requester and
// stores it in the request context. It must run after auth.RequireAuth.
func (ag *AuthGate) AttachRequester(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		req, err := ag.Resolve(r.Context(), uid)
		if err != nil {
			log.Printf("policy: resolve identity %d: %v", uid, err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithRequester(r.Context(), req)))
	})
}
