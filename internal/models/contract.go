package models

import "time"

// Contract is a commercial agreement with a client.
type Contract struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"creation_date"`
	UpdatedAt time.Time `json:"update_date"`

	ClientID *uint   `gorm:"index" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"client,omitempty"`
	// SalesContactID is copied from the client at creation unless given.
	SalesContactID *uint     `gorm:"index" json:"sales_contact_id"`
	SalesContact   *Identity `gorm:"foreignKey:SalesContactID;constraint:OnDelete:SET NULL" json:"sales_contact,omitempty"`

	Signed          bool    `gorm:"not null" json:"signed"`
	TotalAmount     float64 `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	RemainingAmount float64 `gorm:"type:decimal(12,2);not null" json:"remaining_amount"`
}

// GetUserID returns the sales contact, or 0 when there is none.
func (c *Contract) GetUserID() uint {
	if c == nil {
		return 0
	}
	return deref(c.SalesContactID)
}

// Paid reports whether nothing is left to pay.
func (c *Contract) Paid() bool { return c.RemainingAmount <= 0 }
