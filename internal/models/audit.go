package models

import "time"

// Audit actions
const (
	AuditDenied   = "denied"
	AuditAssign   = "assign"
	AuditUnassign = "unassign"
)

// AuditLog is an append-only trail of denials and ownership changes.
type AuditLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"` // requester, 0 for system jobs
	Role          string    `gorm:"size:20" json:"role,omitempty"`
	EntityType    string    `gorm:"size:50;index" json:"entity_type"` // "contract", "event", "client"
	EntityID      uint      `json:"entity_id,omitempty"`
	Action        string    `gorm:"size:20;index" json:"action"`
	Operation     string    `gorm:"size:50" json:"operation,omitempty"` // e.g. "event.create"
	Field         string    `gorm:"size:50" json:"field,omitempty"`
	OldValue      string    `gorm:"size:255" json:"old_value,omitempty"`
	NewValue      string    `gorm:"size:255" json:"new_value,omitempty"`
	Reason        string    `gorm:"size:255" json:"reason,omitempty"`
	CorrelationID string    `gorm:"size:64" json:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
