package services

import (
	"context"
	"fmt"

	"github.com/diewo77/epic-crm/internal/apperrors"
	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
	"github.com/diewo77/epic-crm/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityContract = "contract"

// ContractInput carries contract fields. Nil fields are left unchanged on update;
// see RefInput for clearing the sales contact.
type ContractInput struct {
	ClientID        *uint    `json:"client_id"`
	SalesContactID  RefInput `json:"sales_contact_id"`
	Signed          *bool    `json:"signed"`
	TotalAmount     *float64 `json:"total_amount"`
	RemainingAmount *float64 `json:"remaining_amount"`
}

// ContractFilter narrows List.
type ContractFilter struct {
	Mine   bool  // only contracts where the requester is the sales contact
	Signed *bool // by signed flag
	Unpaid bool  // remaining amount above zero
}

type ContractService struct {
	base
}

func (s *ContractService) List(ctx context.Context, r policy.Requester, f ContractFilter) ([]models.Contract, error) {
	if !s.gate.Contracts.CanAccess(ctx, r, nil) {
		return nil, s.deny(ctx, r, entityContract, opList, 0, MsgContractListDenied)
	}
	q := s.db.WithContext(ctx).Preload("Client").Preload("SalesContact")
	if f.Mine {
		q = q.Where("sales_contact_id = ?", r.ID)
	}
	if f.Signed != nil {
		q = q.Where("signed = ?", *f.Signed)
	}
	if f.Unpaid {
		q = q.Where("remaining_amount > 0")
	}
	var contracts []models.Contract
	if err := q.Order("id").Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, nil
}

func (s *ContractService) Get(ctx context.Context, r policy.Requester, id uint) (*models.Contract, error) {
	var k models.Contract
	if err := find(ctx, s.db, &k, entityContract, id, "Client", "SalesContact"); err != nil {
		return nil, err
	}
	if !s.gate.Contracts.CanAccess(ctx, r, &k) {
		return nil, s.deny(ctx, r, entityContract, opDetail, k.ID, MsgContractAccessDenied)
	}
	return &k, nil
}

// Create stores a contract. Without an explicit sales contact it takes the
// client's current one; this copy is never reapplied later.
func (s *ContractService) Create(ctx context.Context, r policy.Requester, in ContractInput) (*models.Contract, error) {
	if !s.gate.Contracts.CanCreate(ctx, r) {
		return nil, s.deny(ctx, r, entityContract, opCreate, 0, MsgContractCreateDenied)
	}

	var k models.Contract
	applyContract(&k, in)
	if in.RemainingAmount == nil {
		k.RemainingAmount = k.TotalAmount
	}

	v := make(validation.Violations)
	if k.ClientID == nil {
		v.Add("client_id", "required")
	}
	client, err := s.client(ctx, k.ClientID, v)
	if err != nil {
		return nil, err
	}
	if k.SalesContactID == nil && client != nil {
		k.SalesContactID = client.SalesContactID
	}
	if err := s.validate(ctx, &k, v); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&k).Error; err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}
	return s.reload(ctx, k.ID)
}

func (s *ContractService) Update(ctx context.Context, r policy.Requester, id uint, in ContractInput) (*models.Contract, error) {
	var k models.Contract
	if err := find(ctx, s.db, &k, entityContract, id); err != nil {
		return nil, err
	}
	if !s.gate.Contracts.CanUpdate(ctx, r, k.GetUserID()) {
		return nil, s.deny(ctx, r, entityContract, opUpdate, k.ID, MsgContractUpdateDenied)
	}

	applyContract(&k, in)
	v := make(validation.Violations)
	if in.ClientID != nil {
		if k.ClientID == nil {
			v.Add("client_id", "required")
		}
		if _, err := s.client(ctx, k.ClientID, v); err != nil {
			return nil, err
		}
	}
	if err := s.validate(ctx, &k, v); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&k).Error; err != nil {
		return nil, fmt.Errorf("update contract %d: %w", k.ID, err)
	}
	return s.reload(ctx, k.ID)
}

// Delete removes a contract; its event, if any, is kept and detached.
func (s *ContractService) Delete(ctx context.Context, r policy.Requester, id uint) error {
	var k models.Contract
	if err := find(ctx, s.db, &k, entityContract, id); err != nil {
		return err
	}
	if !s.gate.Contracts.CanDelete(ctx, r, k.GetUserID()) {
		return s.deny(ctx, r, entityContract, opDestroy, k.ID, MsgContractDeleteDenied)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Event{}).Where("contract_id = ?", k.ID).Update("contract_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Contract{}, k.ID).Error
	})
	if err != nil {
		return fmt.Errorf("delete contract %d: %w", k.ID, err)
	}
	return nil
}

// client loads the referenced client, recording a field error when missing.
func (s *ContractService) client(ctx context.Context, id *uint, v validation.Violations) (*models.Client, error) {
	if id == nil {
		return nil, nil
	}
	var c models.Client
	err := find(ctx, s.db, &c, "client", *id)
	if apperrors.CodeOf(err) == apperrors.CodeNotFound {
		v.Add("client_id", "not_found")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContractService) validate(ctx context.Context, k *models.Contract, v validation.Violations) error {
	validation.NonNegativeFloat("total_amount", k.TotalAmount, v)
	validation.NonNegativeFloat("remaining_amount", k.RemainingAmount, v)
	if k.RemainingAmount > k.TotalAmount {
		v.Add("remaining_amount", "exceeds_total")
	}
	if err := checkRole(ctx, s.db, "sales_contact_id", k.SalesContactID, models.RoleSales, v); err != nil {
		return err
	}
	if !v.Empty() {
		return apperrors.Validation(v)
	}
	return nil
}

func (s *ContractService) reload(ctx context.Context, id uint) (*models.Contract, error) {
	var k models.Contract
	if err := find(ctx, s.db, &k, entityContract, id, "Client", "SalesContact"); err != nil {
		return nil, err
	}
	return &k, nil
}

func applyContract(k *models.Contract, in ContractInput) {
	if in.ClientID != nil {
		k.ClientID = normalizeRef(in.ClientID)
	}
	if in.SalesContactID.Set {
		k.SalesContactID = in.SalesContactID.ID
	}
	if in.Signed != nil {
		k.Signed = *in.Signed
	}
	if in.TotalAmount != nil {
		k.TotalAmount = *in.TotalAmount
	}
	if in.RemainingAmount != nil {
		k.RemainingAmount = *in.RemainingAmount
	}
}
