package services

import (
	"context"
	"fmt"

	"github.com/diewo77/epic-crm/gate"
	"github.com/diewo77/epic-crm/internal/apperrors"
	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
	"gorm.io/gorm"
)

// SalesLoad is one sales identity and the number of clients it holds.
type SalesLoad struct {
	IdentityID uint   `json:"identity_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Clients    int64  `json:"clients"`
}

// Assignment is a sales contact given to a previously unassigned client.
type Assignment struct {
	ClientID       uint `json:"client_id"`
	SalesContactID uint `json:"sales_contact_id"`
}

// salesBook lists active sales identities by ascending (client count, id).
func salesBook(ctx context.Context, tx *gorm.DB) ([]SalesLoad, error) {
	var rows []SalesLoad
	err := tx.WithContext(ctx).
		Table("identities AS i").
		Select("i.id AS identity_id, i.email, i.full_name, COUNT(c.id) AS clients").
		Joins("LEFT JOIN clients c ON c.sales_contact_id = i.id").
		Where("i.role = ? AND i.is_active = ?", models.RoleSales, true).
		Group("i.id, i.email, i.full_name").
		Order("clients ASC, i.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sales book: %w", err)
	}
	return rows, nil
}

// assignPending gives every client without a sales contact one, round-robin
// over the sales book order computed once at the start. With no sales
// identity the clients stay unassigned.
func assignPending(ctx context.Context, tx *gorm.DB) ([]Assignment, error) {
	book, err := salesBook(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(book) == 0 {
		return nil, nil
	}

	var pending []uint
	err = tx.WithContext(ctx).Model(&models.Client{}).
		Where("sales_contact_id IS NULL").
		Order("id").
		Pluck("id", &pending).Error
	if err != nil {
		return nil, fmt.Errorf("list unassigned clients: %w", err)
	}

	assignments := make([]Assignment, 0, len(pending))
	for i, clientID := range pending {
		contact := book[i%len(book)].IdentityID
		res := tx.WithContext(ctx).Model(&models.Client{}).
			Where("id = ? AND sales_contact_id IS NULL", clientID).
			Update("sales_contact_id", contact)
		if res.Error != nil {
			return nil, fmt.Errorf("assign client %d: %w", clientID, res.Error)
		}
		if res.RowsAffected == 1 {
			assignments = append(assignments, Assignment{ClientID: clientID, SalesContactID: contact})
		}
	}
	return assignments, nil
}

func assignmentChanges(assignments []Assignment, by uint) []SalesContactChange {
	changes := make([]SalesContactChange, 0, len(assignments))
	for _, a := range assignments {
		changes = append(changes, SalesContactChange{ClientID: a.ClientID, To: a.SalesContactID, By: by})
	}
	return changes
}

// AssignSalesContacts runs the rebalancing routine. Running it again with no
// new unassigned client changes nothing.
func (s *ClientService) AssignSalesContacts(ctx context.Context, r policy.Requester) ([]Assignment, error) {
	if err := s.gate.Authorize(ctx, r, gate.ActionAssign, policy.ResourceClient, nil); err != nil {
		return nil, apperrors.Forbidden(MsgClientAssignDenied)
	}

	var assignments []Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		assignments, err = assignPending(ctx, tx)
		if err != nil {
			return err
		}
		return s.propagate(ctx, tx, assignmentChanges(assignments, r.ID))
	})
	if err != nil {
		return nil, err
	}
	s.hooks.salesContactChanged(ctx, assignmentChanges(assignments, r.ID))
	return assignments, nil
}

// SalesBook reports the derived client group: each sales identity with its
// current client count.
func (s *ClientService) SalesBook(ctx context.Context, r policy.Requester) ([]SalesLoad, error) {
	if err := s.gate.Authorize(ctx, r, gate.ActionView, policy.ResourceReport, nil); err != nil {
		return nil, apperrors.Forbidden(MsgReportDenied)
	}
	return salesBook(ctx, s.db)
}
