package model

import "github.com/shopspring/decimal"

// Affiliate earns a commission on orders that carry its referral code.
// UnpaidAmount accumulates per confirmed order and moves to PaidAmount when
// the owner settles a payout.
type Affiliate struct {
	BaseModel
	Tenancy
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone        string          `gorm:"type:varchar(20)" json:"phone"`
	ReferralCode string          `gorm:"type:varchar(50);not null;index" json:"referral_code" validate:"required"`
	Percent      decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"percent"`
	UnpaidAmount decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"unpaid_amount"`
	PaidAmount   decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"paid_amount"`
}

// Commission computes the payout earned on one order total.
func (a *Affiliate) Commission(total decimal.Decimal) decimal.Decimal {
	return total.Mul(a.Percent).Div(decimal.NewFromInt(100))
}
