package models

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleSupport  Role = "SUPPORT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleManager, RoleSupport:
		return true
	}
	return false
}

type User struct {
	ID              string     `gorm:"primaryKey" json:"id"`
	Email           string     `gorm:"unique;not null" json:"email"`
	PasswordHash    string     `gorm:"not null" json:"-"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Role            Role       `gorm:"type:VARCHAR(20);default:'CUSTOMER'" json:"role"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	Cart            Cart       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Addresses       []Address  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Orders          []Order    `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index;not null" json:"-"`
	Label      string    `json:"label"`
	Line1      string    `gorm:"not null" json:"line1"`
	Line2      string    `json:"line2"`
	City       string    `json:"city"`
	Region     string    `json:"region"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postal_code"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
