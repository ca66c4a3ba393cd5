package services

import (
	"context"
	"fmt"

	"github.com/diewo77/epic-crm/internal/models"
	"github.com/diewo77/epic-crm/internal/policy"
)

// Revenue sums the amounts of the contracts a requester may list.
type Revenue struct {
	Contracts   int64   `json:"contracts"`
	Signed      int64   `json:"signed"`
	Total       float64 `json:"total"`
	Collected   float64 `json:"collected"`
	Outstanding float64 `json:"outstanding"`
}

// Revenue reports signed business. Management sees every contract, sales
// only the contracts they are the contact of.
func (s *ContractService) Revenue(ctx context.Context, r policy.Requester) (Revenue, error) {
	if !s.gate.Contracts.CanAccess(ctx, r, nil) {
		return Revenue{}, s.deny(ctx, r, entityContract, opList, 0, MsgContractListDenied)
	}
	q := s.db.WithContext(ctx).Model(&models.Contract{})
	if !r.IsManagement() {
		q = q.Where("sales_contact_id = ?", r.ID)
	}
	var contracts []models.Contract
	if err := q.Select("id", "signed", "total_amount", "remaining_amount").Find(&contracts).Error; err != nil {
		return Revenue{}, fmt.Errorf("revenue: %w", err)
	}
	return computeRevenue(contracts), nil
}

// computeRevenue only counts signed contracts towards the amounts.
func computeRevenue(contracts []models.Contract) (rev Revenue) {
	for _, k := range contracts {
		rev.Contracts++
		if !k.Signed {
			continue
		}
		rev.Signed++
		rev.Total += k.TotalAmount
		rev.Outstanding += k.RemainingAmount
	}
	rev.Collected = rev.Total - rev.Outstanding
	return
}
