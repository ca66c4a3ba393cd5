package models

import "time"

// Client is a customer company.
type Client struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"creation_date"`
	UpdatedAt   time.Time  `json:"update_date"`
	Email       string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName    string     `gorm:"size:255;not null" json:"full_name"`
	PhoneNumber string     `gorm:"size:20" json:"phone_number,omitempty"`
	CompanyName string     `gorm:"size:255" json:"company_name,omitempty"`
	LastContact *time.Time `json:"last_contact,omitempty"`

	// AccountOwnerID is the staff member responsible for the record.
	AccountOwnerID *uint     `gorm:"index" json:"account_owner_id"`
	AccountOwner   *Identity `gorm:"foreignKey:AccountOwnerID;constraint:OnDelete:SET NULL" json:"account_owner,omitempty"`
	// SalesContactID always references a sales identity; nil means the
	// client is waiting for assignment.
	SalesContactID *uint     `gorm:"index" json:"sales_contact_id"`
	SalesContact   *Identity `gorm:"foreignKey:SalesContactID;constraint:OnDelete:SET NULL" json:"sales_contact,omitempty"`
}

// GetUserID returns the account owner, or 0 when there is none.
func (c *Client) GetUserID() uint {
	if c == nil {
		return 0
	}
	return deref(c.AccountOwnerID)
}

// Contact renders the email and phone pair copied onto events.
func (c *Client) Contact() string {
	if c.PhoneNumber == "" {
		return c.Email
	}
	return c.Email + " " + c.PhoneNumber
}
