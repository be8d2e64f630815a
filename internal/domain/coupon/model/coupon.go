package model

import (
	"time"

	baseModel "github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/model"
)

// Coupon is a discount code. Codes are stored uppercase; lookups normalize.
type Coupon struct {
	baseModel.BaseModel
	Code          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DiscountType  string     `gorm:"type:varchar(16);not null" json:"discountType"` // percentage, fixed
	DiscountValue float64    `gorm:"not null" json:"discountValue"`
	MinCartValue  float64    `gorm:"not null;default:0" json:"minCartValue"`
	MaxUses       int        `gorm:"not null;default:0" json:"maxUses"` // 0 = unlimited
	UsedCount     int        `gorm:"not null;default:0" json:"usedCount"`
	StartsAt      *time.Time `json:"startsAt"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	Active        bool       `gorm:"not null;default:true" json:"active"`
}

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Validation reasons, surfaced verbatim to the checkout UI.
const (
	ReasonNotFound     = "coupon not found"
	ReasonInactive     = "coupon inactive"
	ReasonNotYetValid  = "not yet valid"
	ReasonExpired      = "expired"
	ReasonUsageLimit   = "usage limit reached"
	ReasonMinCartValue = "minimum cart value not met"
)

// Validation is the outcome of checking a coupon against a cart subtotal.
type Validation struct {
	Valid          bool
	Reason         string
	DiscountAmount float64
}

// Validate checks the coupon against the subtotal at the given instant.
// Rules run in order, first failure wins. No side effects; the caller redeems
// (increments used_count) only when the checkout completes.
func (c *Coupon) Validate(subtotal float64, now time.Time) Validation {
	if !c.Active {
		return Validation{Reason: ReasonInactive}
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return Validation{Reason: ReasonNotYetValid}
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return Validation{Reason: ReasonExpired}
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return Validation{Reason: ReasonUsageLimit}
	}
	if c.MinCartValue > 0 && subtotal < c.MinCartValue {
		return Validation{Reason: ReasonMinCartValue}
	}

	var discount float64
	if c.DiscountType == DiscountTypePercentage {
		discount = subtotal * c.DiscountValue / 100
	} else {
		discount = c.DiscountValue
	}

	// A fixed discount larger than the cart would produce a negative total.
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}

	return Validation{Valid: true, DiscountAmount: discount}
}
