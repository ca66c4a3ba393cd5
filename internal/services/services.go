// Package services holds every CRM operation. Handlers and the operator CLI
// both go through it, so permission and lifecycle checks cannot be bypassed.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/epic-crm/httpx"
	"github.com/diewo77/epic-crm/internal/apperrors"
	"github.com/diewo77/epic-crm/internal/audit"
	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/validation"
	"gorm.io/gorm"
)

// ContractOwnership decides whether a contract keeps the sales contact it was
// created with or follows its client's.
type ContractOwnership string

const (
	// SnapshotSalesContact copies the client's sales contact once, at creation.
	SnapshotSalesContact ContractOwnership = "snapshot"
	// LiveSalesContact also rewrites contracts when the client's contact changes.
	LiveSalesContact ContractOwnership = "live"
)

// Options configures New.
type Options struct {
	Ownership ContractOwnership
	Sink      audit.Sink
}

// Services bundles the CRM services over one connection and one gate.
type Services struct {
	Identities *IdentityService
	Clients    *ClientService
	Contracts  *ContractService
	Events     *EventService
}

// New wires every service. A nil sink logs denials only.
func New(db *gorm.DB, ag *policy.AuthGate, opts Options) *Services {
	if opts.Ownership == "" {
		opts.Ownership = SnapshotSalesContact
	}
	if opts.Sink == nil {
		opts.Sink = audit.LogSink{}
	}
	hooks := newHooks(db)
	b := base{db: db, gate: ag, sink: opts.Sink}
	return &Services{
		Identities: &IdentityService{base: b, hooks: hooks},
		Clients:    &ClientService{base: b, hooks: hooks, ownership: opts.Ownership},
		Contracts:  &ContractService{base: b},
		Events:     &EventService{base: b},
	}
}

// base is shared by every service.
type base struct {
	db   *gorm.DB
	gate *policy.AuthGate
	sink audit.Sink
}

// deny reports a refused contract or event operation to the audit sink and
// returns the matching Forbidden error.
func (b base) deny(ctx context.Context, r policy.Requester, entity, operation string, id uint, reason string) error {
	audit.Notify(ctx, b.sink, audit.Denial{
		UserID:     r.ID,
		Role:       r.Role,
		EntityType: entity,
		EntityID:   id,
		Operation:  operation,
		Reason:     reason,
		RequestID:  httpx.RequestIDFromContext(ctx),
	})
	return apperrors.Forbidden(reason)
}

// find loads one record by id into dst, mapping a missing row to NotFound.
func find(ctx context.Context, db *gorm.DB, dst any, entity string, id uint, preload ...string) error {
	q := db.WithContext(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	err := q.First(dst, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity)
	}
	if err != nil {
		return fmt.Errorf("load %s %d: %w", entity, id, err)
	}
	return nil
}

// isUniqueViolation recognises duplicate-key errors from both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// checkRole adds a field error unless id is an existing identity with role.
// A nil or zero id is accepted.
func checkRole(ctx context.Context, db *gorm.DB, field string, id *uint, role models.Role, v validation.Violations) error {
	if id == nil || *id == 0 {
		return nil
	}
	var identity models.Identity
	err := db.WithContext(ctx).Select("id", "role").First(&identity, *id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		v.Add(field, "not_found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load identity %d: %w", *id, err)
	}
	if identity.Role != role {
		v.Add(field, "must_be_"+string(role))
	}
	return nil
}

// normalizeRef turns an explicit 0 into nil.
func normalizeRef(id *uint) *uint {
	if id == nil {
		return nil
	}
	return models.Ref(*id)
}

func sameRef(a, b *uint) bool {
	return deref(a) == deref(b)
}

func deref(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
