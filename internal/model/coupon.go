package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

var (
	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
)

type Coupon struct {
	BaseModel
	Tenancy
	Code         string          `gorm:"type:varchar(50);not null;index" json:"code" validate:"required"`
	DiscountType DiscountType    `gorm:"type:varchar(10);not null" json:"discount_type" validate:"required,oneof=percent amount"`
	Value        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"value"`
	MaxUses      int             `gorm:"default:0" json:"max_uses"` // 0 = unlimited
	UsedCount    int             `gorm:"default:0" json:"used_count"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
}

// Validate checks whether the coupon can be applied at the given time.
func (c *Coupon) Validate(now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return ErrCouponExpired
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return ErrCouponExhausted
	}
	return nil
}

// Discount computes the discount this coupon grants on a subtotal.
// A percent discount never exceeds the subtotal itself.
func (c *Coupon) Discount(subTotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch c.DiscountType {
	case DiscountPercent:
		d = subTotal.Mul(c.Value).Div(decimal.NewFromInt(100))
	case DiscountAmount:
		d = c.Value
	}
	if d.GreaterThan(subTotal) {
		return subTotal
	}
	return d
}
