package services

import (
	"context"
	"errors"
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

const entityEvent = "event"

// EventInput carries event fields. Nil fields are left unchanged on update;
// see RefInput for clearing the support contact.
type EventInput struct {
	Name             *string    `json:"name"`
	ContractID       *uint      `json:"contract_id"`
	StartDate        *time.Time `json:"event_date_start"`
	EndDate          *time.Time `json:"event_date_end"`
	SupportContactID RefInput   `json:"support_contact_id"`
	Location         *string    `json:"location"`
	Attendees        *int       `json:"attendees"`
	Notes            *string    `json:"notes"`
}

// EventFilter narrows List.
type EventFilter struct {
	Mine       bool // only events where the requester is the support contact
	Unassigned bool // events without a support contact
}

type EventService struct {
	base
}

func (s *EventService) List(ctx context.Context, r policy.Requester, f EventFilter) ([]models.Event, error) {
	if !s.gate.Events.CanAccess(ctx, r, nil) {
		return nil, s.deny(ctx, r, entityEvent, opList, 0, MsgEventListDenied)
	}
	q := s.db.WithContext(ctx).Preload("SupportContact")
	if f.Mine {
		q = q.Where("support_contact_id = ?", r.ID)
	}
	if f.Unassigned {
		q = q.Where("support_contact_id IS NULL")
	}
	var events []models.Event
	if err := q.Order("start_date, id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, r policy.Requester, id uint) (*models.Event, error) {
	var e models.Event
	if err := find(ctx, s.db, &e, entityEvent, id, "SupportContact"); err != nil {
		return nil, err
	}
	if !s.gate.Events.CanAccess(ctx, r, &e) {
		return nil, s.deny(ctx, r, entityEvent, opDetail, e.ID, MsgEventAccessDenied)
	}
	return &e, nil
}

// Create schedules the event of a contract. The checks run in order:
// permission (the requester must be the sales contact of the contract's
// client), signed contract, no existing event, field validation. Nothing is
// written unless all of them pass.
func (s *EventService) Create(ctx context.Context, r policy.Requester, in EventInput) (*models.Event, error) {
	if in.ContractID == nil || *in.ContractID == 0 {
		v := make(validation.Violations)
		v.Add("contract_id", "required")
		return nil, apperrors.Validation(v)
	}

	var k models.Contract
	err := find(ctx, s.db, &k, entityContract, *in.ContractID, "Client")
	if apperrors.CodeOf(err) == apperrors.CodeNotFound {
		return nil, s.deny(ctx, r, entityEvent, opCreate, 0, MsgEventCreateDenied)
	}
	if err != nil {
		return nil, err
	}
	if !s.gate.Events.CanCreate(ctx, r, salesContactOf(k.Client)) {
		return nil, s.deny(ctx, r, entityEvent, opCreate, 0, MsgEventCreateDenied)
	}
	if !k.Signed {
		return nil, apperrors.Forbidden(MsgContractNotSigned)
	}
	exists, err := s.hasEvent(ctx, k.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Forbidden(MsgEventExists)
	}

	var e models.Event
	applyEvent(&e, in)
	if err := s.validate(ctx, &e); err != nil {
		return nil, err
	}
	denormalize(&e, &k)

	err = s.db.WithContext(ctx).Omit(clause.Associations).Create(&e).Error
	if isUniqueViolation(err) {
		return nil, apperrors.Forbidden(MsgEventExists)
	}
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.reload(ctx, e.ID)
}

// Update changes an event. The contract cannot be changed; the client
// fields are recomputed from it.
func (s *EventService) Update(ctx context.Context, r policy.Requester, id uint, in EventInput) (*models.Event, error) {
	var e models.Event
	if err := find(ctx, s.db, &e, entityEvent, id); err != nil {
		return nil, err
	}
	if !s.gate.Events.CanUpdate(ctx, r, e.GetUserID()) {
		return nil, s.deny(ctx, r, entityEvent, opUpdate, e.ID, MsgEventUpdateDenied)
	}
	if in.ContractID != nil && !sameRef(in.ContractID, e.ContractID) {
		v := make(validation.Violations)
		v.Add("contract_id", "immutable")
		return nil, apperrors.Validation(v)
	}

	applyEvent(&e, in)
	if err := s.validate(ctx, &e); err != nil {
		return nil, err
	}
	if e.ContractID != nil {
		var k models.Contract
		err := s.db.WithContext(ctx).Preload("Client").First(&k, *e.ContractID).Error
		switch {
		case err == nil:
			denormalize(&e, &k)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("load contract %d: %w", *e.ContractID, err)
		}
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&e).Error; err != nil {
		return nil, fmt.Errorf("update event %d: %w", e.ID, err)
	}
	return s.reload(ctx, e.ID)
}

func (s *EventService) Delete(ctx context.Context, r policy.Requester, id uint) error {
	var e models.Event
	if err := find(ctx, s.db, &e, entityEvent, id); err != nil {
		return err
	}
	if !s.gate.Events.CanDelete(ctx, r, e.GetUserID()) {
		return s.deny(ctx, r, entityEvent, opDestroy, e.ID, MsgEventDeleteDenied)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Event{}, e.ID).Error; err != nil {
		return fmt.Errorf("delete event %d: %w", e.ID, err)
	}
	return nil
}

func (s *EventService) hasEvent(ctx context.Context, contractID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Event{}).Where("contract_id = ?", contractID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count events of contract %d: %w", contractID, err)
	}
	return n > 0, nil
}

func (s *EventService) validate(ctx context.Context, e *models.Event) error {
	v := make(validation.Violations)
	validation.Required("name", e.Name, v)
	validation.MaxLen("name", e.Name, 255, v)
	validation.MaxLen("location", e.Location, 255, v)
	validation.RequiredTime("event_date_start", e.StartDate, v)
	validation.RequiredTime("event_date_end", e.EndDate, v)
	validation.NotBefore("event_date_end", e.StartDate, e.EndDate, v)
	validation.NonNegativeInt("attendees", e.Attendees, v)
	if err := checkRole(ctx, s.db, "support_contact_id", e.SupportContactID, models.RoleSupport, v); err != nil {
		return err
	}
	if !v.Empty() {
		return apperrors.Validation(v)
	}
	return nil
}

func (s *EventService) reload(ctx context.Context, id uint) (*models.Event, error) {
	var e models.Event
	if err := find(ctx, s.db, &e, entityEvent, id, "SupportContact"); err != nil {
		return nil, err
	}
	return &e, nil
}

// denormalize copies the client of k onto e.
func denormalize(e *models.Event, k *models.Contract) {
	e.ContractID = models.Ref(k.ID)
	e.ClientID = k.ClientID
	if k.Client != nil {
		e.ClientName = k.Client.FullName
		e.ClientContact = k.Client.Contact()
	}
}

func salesContactOf(c *models.Client) uint {
	if c == nil {
		return 0
	}
	return deref(c.SalesContactID)
}

func applyEvent(e *models.Event, in EventInput) {
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.StartDate != nil {
		e.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		e.EndDate = *in.EndDate
	}
	if in.SupportContactID.Set {
		e.SupportContactID = in.SupportContactID.ID
	}
	if in.Location != nil {
		e.Location = strings.TrimSpace(*in.Location)
	}
	if in.Attendees != nil {
		e.Attendees = *in.Attendees
	}
	if in.Notes != nil {
		e.Notes = *in.Notes
	}
}
