package models

import "time"

// Identity is a staff account.
type Identity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"date_joined"`
	UpdatedAt   time.Time `json:"updated_at"`
	Email       string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName    string    `gorm:"size:255" json:"full_name"`
	PhoneNumber string    `gorm:"size:20" json:"phone_number,omitempty"`
	Role        Role      `gorm:"size:20;not null;index" json:"role"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	IsStaff     bool      `gorm:"not null" json:"is_staff"`
	IsSuperuser bool      `gorm:"not null" json:"is_superuser"`
	Password    string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
}

// TableName keeps the table name independent of the struct name.
func (Identity) TableName() string { return "identities" }

// DisplayName prefers the full name and falls back to the email.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.FullName != "" {
		return i.FullName
	}
	return i.Email
}
