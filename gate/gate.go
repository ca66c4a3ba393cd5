// Package gate is a small two-stage authorization kernel.
//
// A Gate first resolves the subject to a Profile and checks that the profile
// grants "resource:action" (the coarse, class-of-subject gate). It then hands
// the request to the Policy registered for the resource type, which compares
// the subject against the concrete resource (the fine, ownership gate).
//
// The package does not know about any domain model. The subject type U is
// generic and only needs to be comparable so the zero value can be rejected.
package gate

import (
	"context"
	"fmt"
)

// Gate is the central authorization checkpoint.
type Gate[U comparable] struct {
	profiles ProfileResolver[U]
	policies map[string]Policy[U]
}

// New creates a gate resolving subjects to profiles through profiles.
func New[U comparable](profiles ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{
		profiles: profiles,
		policies: make(map[string]Policy[U]),
	}
}

// Register adds the policy for a resource type (e.g. "contract").
// Overwrites any existing policy for that type.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize runs both stages and returns nil when the action is allowed.
//
// The error is one of ErrUnauthenticated, ErrNoPolicyDefined, ErrUnauthorized
// (profile stage) or ErrNotOwner (policy stage), possibly wrapped with the
// permission that was checked.
func (g *Gate[U]) Authorize(ctx context.Context, subject U, action Action, resourceType string, resource any) error {
	var zero U
	if subject == zero {
		return ErrUnauthenticated
	}
	policy, ok := g.policies[resourceType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPolicyDefined, resourceType)
	}

	perm := NewPermission(resourceType, action)
	profile, err := g.profiles.Resolve(ctx, subject)
	if err != nil || profile == nil || !profile.HasPermission(perm) {
		return fmt.Errorf("%w: %s", ErrUnauthorized, perm)
	}

	if !policy.Can(ctx, subject, action, resource) {
		return fmt.Errorf("%w: %s", ErrNotOwner, perm)
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, subject U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, subject, action, resourceType, resource) == nil
}

// CanProfile checks only the profile stage.
// Useful to describe what a subject could do before any resource is loaded.
func (g *Gate[U]) CanProfile(ctx context.Context, subject U, action Action, resourceType string) bool {
	var zero U
	if subject == zero {
		return false
	}
	profile, err := g.profiles.Resolve(ctx, subject)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(resourceType, action))
}

// Profile returns the resolved profile of subject, or nil.
func (g *Gate[U]) Profile(ctx context.Context, subject U) Profile {
	var zero U
	if subject == zero {
		return nil
	}
	profile, err := g.profiles.Resolve(ctx, subject)
	if err != nil {
		return nil
	}
	return profile
}
