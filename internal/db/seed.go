package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/diewo77/epic-crm/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates the bootstrap management account when the identities table
// is empty. It is safe to run repeatedly; with an empty email it does nothing.
func Seed(ctx context.Context, db *gorm.DB, adminEmail, adminPassword string) error {
	adminEmail = strings.TrimSpace(strings.ToLower(adminEmail))
	if adminEmail == "" {
		return nil
	}
	if adminPassword == "" {
		return errors.New("seed: ADMIN_PASSWORD is required with ADMIN_EMAIL")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Identity{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count identities: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.Identity{
		Email:       adminEmail,
		FullName:    "Administrator",
		Role:        models.RoleManagement,
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
		Password:    string(hash),
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("Seeded management account %s (id=%d)", admin.Email, admin.ID)
	return nil
}
