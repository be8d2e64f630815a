package model

import (
	baseModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/model"
)

// Customer is a storefront account. Checkout snapshots the contact fields into
// the order, so later edits here never touch past orders.
type Customer struct {
	baseModel.BaseModel
	Name     string `gorm:"type:varchar(120);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(100);not null" json:"-"`
	Phone    string `gorm:"type:varchar(32)" json:"phone"`
	Role     int    `gorm:"default:1" json:"role"`

	// Default shipping address, copied into checkout when the client omits one.
	AddressStreet     string `gorm:"type:varchar(255)" json:"addressStreet"`
	AddressNumber     string `gorm:"type:varchar(32)" json:"addressNumber"`
	AddressComplement string `gorm:"type:varchar(128)" json:"addressComplement"`
	AddressCity       string `gorm:"type:varchar(128)" json:"addressCity"`
	AddressState      string `gorm:"type:varchar(2)" json:"addressState"`
	AddressZip        string `gorm:"type:varchar(16)" json:"addressZip"`
}

const (
	RoleUser  = 1
	RoleAdmin = 2
)
