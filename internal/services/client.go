package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/epic-crm/internal/apperrors"
	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientInput carries client fields. Nil fields are left unchanged on update;
// see RefInput for the identity references.
type ClientInput struct {
	Email          *string    `json:"email"`
	FullName       *string    `json:"full_name"`
	PhoneNumber    *string    `json:"phone_number"`
	CompanyName    *string    `json:"company_name"`
	LastContact    *time.Time `json:"last_contact"`
	AccountOwnerID RefInput   `json:"account_owner_id"`
	SalesContactID RefInput   `json:"sales_contact_id"`
}

type ClientService struct {
	base
	hooks     *hooks
	ownership ContractOwnership
}

// OnSalesContactChange registers a post-commit hook.
func (s *ClientService) OnSalesContactChange(fn ClientHook) {
	s.hooks.OnSalesContactChange(fn)
}

// List returns the clients r may see: every client for management and
// support, the clients they own for sales.
func (s *ClientService) List(ctx context.Context, r policy.Requester) ([]models.Client, error) {
	if !s.gate.Clients.CanAccess(ctx, r, nil) {
		return nil, apperrors.Forbidden(MsgClientAccessDenied)
	}
	q := s.db.WithContext(ctx).Preload("AccountOwner").Preload("SalesContact")
	if owner, restricted := s.gate.Clients.Scope(r); restricted {
		q = q.Where("account_owner_id = ?", owner)
	}
	var clients []models.Client
	if err := q.Order("updated_at DESC, id DESC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *ClientService) Get(ctx context.Context, r policy.Requester, id uint) (*models.Client, error) {
	var c models.Client
	if err := find(ctx, s.db, &c, "client", id, "AccountOwner", "SalesContact"); err != nil {
		return nil, err
	}
	if !s.gate.Clients.CanAccess(ctx, r, &c) {
		return nil, apperrors.Forbidden(MsgClientAccessDenied)
	}
	return &c, nil
}

// Create stores a client owned by r. Without a sales contact the client is
// assigned one in the same transaction.
func (s *ClientService) Create(ctx context.Context, r policy.Requester, in ClientInput) (*models.Client, error) {
	if !s.gate.Clients.CanCreate(ctx, r) {
		return nil, apperrors.Forbidden(MsgClientCreateDenied)
	}

	c := models.Client{AccountOwnerID: models.Ref(r.ID)}
	in.AccountOwnerID = RefInput{}
	applyClient(&c, in)
	if err := s.validate(ctx, &c); err != nil {
		return nil, err
	}

	var changes []SalesContactChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&c).Error; err != nil {
			return err
		}
		if c.SalesContactID != nil {
			changes = append(changes, SalesContactChange{ClientID: c.ID, To: *c.SalesContactID, By: r.ID})
			return nil
		}
		assignments, err := assignPending(ctx, tx)
		if err != nil {
			return err
		}
		changes = assignmentChanges(assignments, r.ID)
		return nil
	})
	if err != nil {
		return nil, clientWriteError(err)
	}
	s.hooks.salesContactChanged(ctx, changes)
	return s.reload(ctx, c.ID)
}

// Update changes a client. Only management may hand a client to another
// account owner.
func (s *ClientService) Update(ctx context.Context, r policy.Requester, id uint, in ClientInput) (*models.Client, error) {
	var c models.Client
	if err := find(ctx, s.db, &c, "client", id); err != nil {
		return nil, err
	}
	if !s.gate.Clients.CanUpdate(ctx, r, c.GetUserID()) {
		return nil, apperrors.Forbidden(MsgClientUpdateDenied)
	}
	if in.AccountOwnerID.Set && !sameRef(in.AccountOwnerID.ID, c.AccountOwnerID) && !r.IsManagement() {
		return nil, apperrors.Forbidden(MsgClientUpdateDenied)
	}

	before := deref(c.SalesContactID)
	applyClient(&c, in)
	if err := s.validate(ctx, &c); err != nil {
		return nil, err
	}

	var changes []SalesContactChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&c).Error; err != nil {
			return err
		}
		if c.SalesContactID == nil {
			assignments, err := assignPending(ctx, tx)
			if err != nil {
				return err
			}
			changes = assignmentChanges(assignments, r.ID)
			for i := range changes {
				if changes[i].ClientID == c.ID {
					changes[i].From = before
				}
			}
			if !assigned(assignments, c.ID) {
				changes = append(changes, SalesContactChange{ClientID: c.ID, From: before, By: r.ID})
			}
		} else {
			changes = append(changes, SalesContactChange{ClientID: c.ID, From: before, To: *c.SalesContactID, By: r.ID})
		}
		return s.propagate(ctx, tx, changes)
	})
	if err != nil {
		return nil, clientWriteError(err)
	}
	s.hooks.salesContactChanged(ctx, changes)
	return s.reload(ctx, c.ID)
}

// Delete removes a client. Its contracts and events are kept, detached.
func (s *ClientService) Delete(ctx context.Context, r policy.Requester, id uint) error {
	var c models.Client
	if err := find(ctx, s.db, &c, "client", id); err != nil {
		return err
	}
	if !s.gate.Clients.CanDelete(ctx, r, c.GetUserID()) {
		return apperrors.Forbidden(MsgClientDeleteDenied)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Contract{}).Where("client_id = ?", c.ID).Update("client_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Event{}).Where("client_id = ?", c.ID).Update("client_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Client{}, c.ID).Error
	})
	if err != nil {
		return fmt.Errorf("delete client %d: %w", c.ID, err)
	}
	if c.SalesContactID != nil {
		s.hooks.salesContactChanged(ctx, []SalesContactChange{{ClientID: c.ID, From: *c.SalesContactID, By: r.ID}})
	}
	return nil
}

// propagate rewrites the contracts of changed clients under LiveSalesContact.
func (s *ClientService) propagate(ctx context.Context, tx *gorm.DB, changes []SalesContactChange) error {
	if s.ownership != LiveSalesContact {
		return nil
	}
	for _, c := range effective(changes) {
		err := tx.WithContext(ctx).Model(&models.Contract{}).
			Where("client_id = ?", c.ClientID).
			Update("sales_contact_id", models.Ref(c.To)).Error
		if err != nil {
			return fmt.Errorf("propagate sales contact of client %d: %w", c.ClientID, err)
		}
	}
	return nil
}

func (s *ClientService) validate(ctx context.Context, c *models.Client) error {
	v := make(validation.Violations)
	validation.Required("email", c.Email, v)
	validation.Email("email", c.Email, v)
	validation.MaxLen("email", c.Email, 255, v)
	validation.Required("full_name", c.FullName, v)
	validation.MaxLen("full_name", c.FullName, 255, v)
	validation.MaxLen("phone_number", c.PhoneNumber, 20, v)
	validation.MaxLen("company_name", c.CompanyName, 255, v)
	if err := checkRole(ctx, s.db, "sales_contact_id", c.SalesContactID, models.RoleSales, v); err != nil {
		return err
	}
	if c.AccountOwnerID != nil {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Identity{}).Where("id = ?", *c.AccountOwnerID).Count(&n).Error; err != nil {
			return fmt.Errorf("check account owner: %w", err)
		}
		if n == 0 {
			v.Add("account_owner_id", "not_found")
		}
	}
	if !v.Empty() {
		return apperrors.Validation(v)
	}
	return nil
}

func (s *ClientService) reload(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := find(ctx, s.db, &c, "client", id, "AccountOwner", "SalesContact"); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyClient(c *models.Client, in ClientInput) {
	if in.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.FullName != nil {
		c.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.PhoneNumber != nil {
		c.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.CompanyName != nil {
		c.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.LastContact != nil {
		t := *in.LastContact
		c.LastContact = &t
	}
	if in.AccountOwnerID.Set {
		c.AccountOwnerID = in.AccountOwnerID.ID
	}
	if in.SalesContactID.Set {
		c.SalesContactID = in.SalesContactID.ID
	}
}

func assigned(assignments []Assignment, clientID uint) bool {
	for _, a := range assignments {
		if a.ClientID == clientID {
			return true
		}
	}
	return false
}

func clientWriteError(err error) error {
	if isUniqueViolation(err) {
		v := make(validation.Violations)
		v.Add("email", "already_exists")
		return apperrors.Validation(v)
	}
	return fmt.Errorf("save client: %w", err)
}
