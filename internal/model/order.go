package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses follow the labels the storefront shows, verbatim.
const (
	OrderStatusDraft     = "Đơn nháp"
	OrderStatusConfirmed = "Đơn chốt"
	OrderStatusShipping  = "Đang giao"
	OrderStatusDone      = "Hoàn thành"
	OrderStatusCancelled = "Đã hủy"
)

// StatusAffectsStock reports whether orders in this status hold stock.
// Draft, finished and cancelled orders never touch the stock counter.
func StatusAffectsStock(status string) bool {
	return status == OrderStatusConfirmed || status == OrderStatusShipping
}

type Order struct {
	BaseModel
	Tenancy
	Code   string `gorm:"type:varchar(30);index" json:"code"`
	Status string `gorm:"type:varchar(30);not null" json:"status" validate:"required"`

	CustomerID    *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName  string     `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone string     `gorm:"type:varchar(20)" json:"customer_phone"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items" validate:"required,min=1,dive"`

	SubTotal        decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"sub_total"`
	DiscountValue   decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"discount_value"`
	AdjustmentValue decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"adjustment_value"` // shipping fee
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"total_amount"`

	CouponCode  string     `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`
	AffiliateID *uuid.UUID `gorm:"type:uuid;index" json:"affiliate_id,omitempty"`

	// PromoApplied records that coupon usage and referral commission have
	// already been counted for this order. Never cleared, so a
	// cancel-and-reconfirm cycle cannot accrue twice.
	PromoApplied bool `gorm:"default:false" json:"-"`

	Note string `gorm:"type:text" json:"note,omitempty"`
}

// RedeemPromo reports whether coupon usage and referral commission should
// accrue now, and marks them consumed. Accrual happens at most once per
// order, on the first transition into a stock-affecting status.
func (o *Order) RedeemPromo() bool {
	if o.PromoApplied || !StatusAffectsStock(o.Status) {
		return false
	}
	o.PromoApplied = true
	return true
}

// OrderItem snapshots the product at order time: name, unit, category and
// buy price are copied so later catalog edits do not rewrite order history.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Name      string          `gorm:"type:varchar(255)" json:"name"`
	Qty       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	Price     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
	BuyPrice  decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"buy_price"`
	Unit      string          `gorm:"type:varchar(20)" json:"unit"`
	Category  string          `gorm:"type:varchar(100)" json:"category"`
}

// ComputeTotals derives SubTotal and TotalAmount from the line items and the
// current discount/adjustment values:
//
//	totalAmount = subTotal + adjustmentValue - discountValue
func (o *Order) ComputeTotals() {
	sub := decimal.Zero
	for _, it := range o.Items {
		sub = sub.Add(it.Price.Mul(it.Qty))
	}
	o.SubTotal = sub
	o.TotalAmount = sub.Add(o.AdjustmentValue).Sub(o.DiscountValue)
}
