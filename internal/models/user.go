package models

import (
	"time"
)

// Roles recognised by the route allowlists.
const (
	RoleCustomer       = "customer"
	RoleProductManager = "productManager"
	RoleSalesManager   = "salesManager"
	RoleAdmin          = "admin"
)

// User represents a customer or staff account.
type User struct {
	BaseModel
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Email        string        `gorm:"uniqueIndex" json:"email"`
	DisplayName  string        `json:"display_name"`
	Role         string        `gorm:"index;default:customer" json:"role"`
	PasswordHash string        `json:"-"`
	TaxID        string        `json:"tax_id"`
	Addresses    []Address     `json:"addresses,omitempty"`
	BillingInfos []BillingInfo `json:"billing_infos,omitempty"`
	Orders       []Order       `json:"orders,omitempty"`
}

// IsStaff reports whether the user holds a back-office role.
func (u *User) IsStaff() bool {
	return u.Role == RoleProductManager || u.Role == RoleSalesManager || u.Role == RoleAdmin
}

// PasswordResetToken tracks email-delivered reset codes.
type PasswordResetToken struct {
	BaseModel
	Email     string     `gorm:"index" json:"email"`
	Token     string     `gorm:"uniqueIndex" json:"token"`
	Code      string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	Verified  bool       `json:"verified"`
	UsedAt    *time.Time `json:"used_at"`
}
