package services

import (
	"context"
	"log"
	"strconv"

	"github.com/diewo77/epic-crm/internal/models"
	"gorm.io/gorm"
)

// SalesContactChange records a client's sales contact moving from From to
// To. A zero id means "none".
type SalesContactChange struct {
	ClientID uint
	From     uint
	To       uint
	By       uint // requester, 0 for system jobs
}

// ClientHook runs after a transaction that changed client ownership has
// committed. Hooks cannot undo the change; they log their own failures.
type ClientHook func(ctx context.Context, changes []SalesContactChange)

// hooks dispatches post-commit notifications in registration order.
type hooks struct {
	client []ClientHook
}

func newHooks(db *gorm.DB) *hooks {
	return &hooks{client: []ClientHook{auditTrail(db)}}
}

// OnSalesContactChange registers h after the built-in hooks.
func (h *hooks) OnSalesContactChange(fn ClientHook) {
	h.client = append(h.client, fn)
}

func (h *hooks) salesContactChanged(ctx context.Context, changes []SalesContactChange) {
	changes = effective(changes)
	if len(changes) == 0 {
		return
	}
	for _, fn := range h.client {
		fn(ctx, changes)
	}
}

// effective drops no-op changes so replaying a change never duplicates
// trail entries.
func effective(changes []SalesContactChange) []SalesContactChange {
	out := changes[:0:0]
	for _, c := range changes {
		if c.From != c.To {
			out = append(out, c)
		}
	}
	return out
}

// auditTrail keeps the derived "client group" history: one audit_logs row
// per membership change.
func auditTrail(db *gorm.DB) ClientHook {
	return func(ctx context.Context, changes []SalesContactChange) {
		entries := make([]models.AuditLog, 0, len(changes))
		for _, c := range changes {
			action := models.AuditAssign
			if c.To == 0 {
				action = models.AuditUnassign
			}
			entries = append(entries, models.AuditLog{
				UserID:     c.By,
				EntityType: "client",
				EntityID:   c.ClientID,
				Action:     action,
				Field:      "sales_contact_id",
				OldValue:   idString(c.From),
				NewValue:   idString(c.To),
			})
		}
		if err := db.WithContext(ctx).Create(&entries).Error; err != nil {
			log.Printf("[assign] write audit trail: %v", err)
		}
	}
}

func idString(id uint) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}
