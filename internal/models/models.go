// Package models holds the gorm models of the CRM.
package models

// All returns every model in dependency order, for migrations.
func All() []any {
	return []any{
		&Identity{},
		&Client{},
		&Contract{},
		&Event{},
		&AuditLog{},
	}
}

func deref(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

// Ref returns a pointer to id, or nil for 0.
func Ref(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
