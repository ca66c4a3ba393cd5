package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/epic-crm/gate"
	"github.com/diewo77/epic-crm/internal/apperrors"
	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Authenticate for a wrong email or
// password and for inactive identities alike.
var ErrInvalidCredentials = apperrors.New(apperrors.CodeUnauthenticated, "Invalid credentials or account inactive")

// IdentityInput carries identity fields. Nil fields are left unchanged on update.
type IdentityInput struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
}

type IdentityService struct {
	base
	hooks *hooks
}

// Authenticate checks credentials. It is the only operation without a requester.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	var identity models.Identity
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if !identity.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &identity, nil
}

// Me returns the identity behind r, whatever its role.
func (s *IdentityService) Me(ctx context.Context, r policy.Requester) (*models.Identity, error) {
	var identity models.Identity
	if err := find(ctx, s.db, &identity, "identity", r.ID); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (s *IdentityService) List(ctx context.Context, r policy.Requester) ([]models.Identity, error) {
	if err := s.allowed(ctx, r, gate.ActionList); err != nil {
		return nil, err
	}
	var identities []models.Identity
	if err := s.db.WithContext(ctx).Order("id").Find(&identities).Error; err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return identities, nil
}

func (s *IdentityService) Get(ctx context.Context, r policy.Requester, id uint) (*models.Identity, error) {
	if err := s.allowed(ctx, r, gate.ActionView); err != nil {
		return nil, err
	}
	var identity models.Identity
	if err := find(ctx, s.db, &identity, "identity", id); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Create stores a new identity. Management identities are created with
// staff and superuser flags.
func (s *IdentityService) Create(ctx context.Context, r policy.Requester, in IdentityInput) (*models.Identity, error) {
	if err := s.allowed(ctx, r, gate.ActionCreate); err != nil {
		return nil, err
	}

	identity := models.Identity{IsActive: true}
	v := make(validation.Violations)
	if in.Password == nil || *in.Password == "" {
		v.Add("password", "required")
	}
	if in.Role == nil {
		v.Add("role", "required")
	}
	if err := applyIdentity(&identity, in, v); err != nil {
		return nil, err
	}
	validateIdentity(&identity, v)
	if !v.Empty() {
		return nil, apperrors.Validation(v)
	}

	if err := s.db.WithContext(ctx).Create(&identity).Error; err != nil {
		return nil, identityWriteError(err)
	}
	return &identity, nil
}

func (s *IdentityService) Update(ctx context.Context, r policy.Requester, id uint, in IdentityInput) (*models.Identity, error) {
	if err := s.allowed(ctx, r, gate.ActionUpdate); err != nil {
		return nil, err
	}
	var identity models.Identity
	if err := find(ctx, s.db, &identity, "identity", id); err != nil {
		return nil, err
	}

	v := make(validation.Violations)
	if in.Password != nil && *in.Password == "" {
		v.Add("password", "required")
	}
	if err := applyIdentity(&identity, in, v); err != nil {
		return nil, err
	}
	validateIdentity(&identity, v)
	if !v.Empty() {
		return nil, apperrors.Validation(v)
	}

	if err := s.db.WithContext(ctx).Save(&identity).Error; err != nil {
		return nil, identityWriteError(err)
	}
	s.gate.InvalidateIdentity(identity.ID)
	return &identity, nil
}

// Delete removes an identity. Every reference to it is nulled in the same
// transaction; the referencing clients, contracts and events are kept.
func (s *IdentityService) Delete(ctx context.Context, r policy.Requester, id uint) error {
	if err := s.allowed(ctx, r, gate.ActionDelete); err != nil {
		return err
	}
	var identity models.Identity
	if err := find(ctx, s.db, &identity, "identity", id); err != nil {
		return err
	}

	var released []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Client{}).Where("sales_contact_id = ?", id).Pluck("id", &released).Error; err != nil {
			return err
		}
		nulls := []struct {
			model  any
			column string
		}{
			{&models.Client{}, "account_owner_id"},
			{&models.Client{}, "sales_contact_id"},
			{&models.Contract{}, "sales_contact_id"},
			{&models.Event{}, "support_contact_id"},
		}
		for _, n := range nulls {
			if err := tx.Model(n.model).Where(n.column+" = ?", id).Update(n.column, nil).Error; err != nil {
				return fmt.Errorf("release %s: %w", n.column, err)
			}
		}
		return tx.Delete(&models.Identity{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete identity %d: %w", id, err)
	}
	s.gate.InvalidateIdentity(id)

	changes := make([]SalesContactChange, 0, len(released))
	for _, clientID := range released {
		changes = append(changes, SalesContactChange{ClientID: clientID, From: id, By: r.ID})
	}
	s.hooks.salesContactChanged(ctx, changes)
	return nil
}

func (s *IdentityService) allowed(ctx context.Context, r policy.Requester, action gate.Action) error {
	if err := s.gate.Authorize(ctx, r, action, policy.ResourceIdentity, nil); err != nil {
		return apperrors.Forbidden(MsgIdentityDenied)
	}
	return nil
}

// applyIdentity copies in onto identity, hashing a new password.
func applyIdentity(identity *models.Identity, in IdentityInput, v validation.Violations) error {
	if in.Email != nil {
		identity.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.FullName != nil {
		identity.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.PhoneNumber != nil {
		identity.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.IsActive != nil {
		identity.IsActive = *in.IsActive
	}
	if in.Role != nil {
		role, err := models.ParseRole(*in.Role)
		if err != nil {
			v.Add("role", "invalid")
		} else {
			identity.Role = role
			identity.IsStaff = role == models.RoleManagement
			identity.IsSuperuser = role == models.RoleManagement
		}
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return err
		}
		identity.Password = hash
	}
	return nil
}

func validateIdentity(identity *models.Identity, v validation.Violations) {
	validation.Required("email", identity.Email, v)
	validation.Email("email", identity.Email, v)
	validation.MaxLen("email", identity.Email, 255, v)
	validation.MaxLen("full_name", identity.FullName, 255, v)
	validation.MaxLen("phone_number", identity.PhoneNumber, 20, v)
}

// HashPassword returns the bcrypt hash stored for an identity.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func identityWriteError(err error) error {
	if isUniqueViolation(err) {
		v := make(validation.Violations)
		v.Add("email", "already_exists")
		return apperrors.Validation(v)
	}
	return fmt.Errorf("save identity: %w", err)
}
