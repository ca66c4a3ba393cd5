package models

import "time"

// Event is an engagement organised for a signed contract.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"creation_date"`
	UpdatedAt time.Time `json:"update_date"`
	Name      string    `gorm:"size:255;not null" json:"name"`

	// ContractID is unique: one event per contract.
	ContractID *uint     `gorm:"uniqueIndex" json:"contract_id"`
	Contract   *Contract `gorm:"foreignKey:ContractID;constraint:OnDelete:SET NULL" json:"-"`

	// Client fields are copied from the contract on every save.
	ClientID      *uint   `gorm:"index" json:"client_id"`
	Client        *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"-"`
	ClientName    string  `gorm:"size:255" json:"client_name"`
	ClientContact string  `gorm:"size:300" json:"client_contact"`

	StartDate time.Time `gorm:"not null" json:"event_date_start"`
	EndDate   time.Time `gorm:"not null" json:"event_date_end"`

	SupportContactID *uint     `gorm:"index" json:"support_contact_id"`
	SupportContact   *Identity `gorm:"foreignKey:SupportContactID;constraint:OnDelete:SET NULL" json:"support_contact,omitempty"`

	Location  string `gorm:"size:255" json:"location"`
	Attendees int    `gorm:"not null" json:"attendees"`
	Notes     string `gorm:"type:text" json:"notes,omitempty"`
}

// GetUserID returns the support contact, or 0 when there is none.
func (e *Event) GetUserID() uint {
	if e == nil {
		return 0
	}
	return deref(e.SupportContactID)
}
