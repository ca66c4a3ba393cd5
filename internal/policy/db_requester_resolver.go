package policy

import (
	"context"

	"github.com/diewo77/epic-crm/internal/models"
	"gorm.io/gorm"
)

// DBRequesterResolver loads requesters from the identities table.
// It implements gate.Resolver[uint, Requester].
type DBRequesterResolver struct {
	DB *gorm.DB
}

// NewDBRequesterResolver creates a new database-backed requester resolver.
func NewDBRequesterResolver(db *gorm.DB) *DBRequesterResolver {
	return &DBRequesterResolver{DB: db}
}

// Resolve looks the identity up by id. A missing identity is an error
// (gorm.ErrRecordNotFound), so it is never cached.
func (r *DBRequesterResolver) Resolve(ctx context.Context, id uint) (Requester, error) {
	var identity models.Identity
	err := r.DB.WithContext(ctx).
		Select("id", "role", "is_active").
		First(&identity, id).Error
	if err != nil {
		return Requester{}, err
	}
	return FromIdentity(&identity), nil
}
