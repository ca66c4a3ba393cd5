package gate

import (
	"context"
	"sort"
)

// Profile is a named set of permissions shared by a class of subjects.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a subject to its profile.
// A nil profile with a nil error means the subject has no profile.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, subject U) (Profile, error)
}

// StaticProfile is an in-memory profile.
type StaticProfile struct {
	name        string
	permissions map[Permission]bool
}

// NewStaticProfile creates a profile with the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{
		name:        name,
		permissions: make(map[Permission]bool, len(permissions)),
	}
	for _, perm := range permissions {
		p.permissions[perm] = true
	}
	return p
}

func (p *StaticProfile) Name() string { return p.name }

// Permissions returns the granted permissions sorted alphabetically.
func (p *StaticProfile) Permissions() []Permission {
	perms := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// HasPermission checks the requested permission, honouring wildcards.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// ProfileTable maps subjects to profiles through a derived key, typically a
// role. The key function returns false for subjects that get no profile.
type ProfileTable[U any, K comparable] struct {
	key      func(U) (K, bool)
	profiles map[K]Profile
}

// NewProfileTable creates an empty table.
func NewProfileTable[U any, K comparable](key func(U) (K, bool)) *ProfileTable[U, K] {
	return &ProfileTable[U, K]{key: key, profiles: make(map[K]Profile)}
}

// Set assigns a profile to a key.
func (t *ProfileTable[U, K]) Set(k K, profile Profile) {
	t.profiles[k] = profile
}

// Resolve implements ProfileResolver.
func (t *ProfileTable[U, K]) Resolve(_ context.Context, subject U) (Profile, error) {
	k, ok := t.key(subject)
	if !ok {
		return nil, nil
	}
	if p, ok := t.profiles[k]; ok {
		return p, nil
	}
	return nil, nil
}
