package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestStatusAffectsStock(t *testing.T) {
	assert.False(t, StatusAffectsStock(OrderStatusDraft))
	assert.True(t, StatusAffectsStock(OrderStatusConfirmed))
	assert.True(t, StatusAffectsStock(OrderStatusShipping))
	assert.False(t, StatusAffectsStock(OrderStatusDone))
	assert.False(t, StatusAffectsStock(OrderStatusCancelled))
}

func TestComputeTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Qty: d("2"), Price: d("50000")},
			{Qty: d("1.5"), Price: d("20000")},
		},
		DiscountValue:   d("10000"),
		AdjustmentValue: d("15000"), // shipping
	}
	order.ComputeTotals()

	assert.True(t, order.SubTotal.Equal(d("130000")), "got %s", order.SubTotal)
	assert.True(t, order.TotalAmount.Equal(d("135000")), "got %s", order.TotalAmount)
}

func TestComputeTotalsEmptyOrder(t *testing.T) {
	var order Order
	order.ComputeTotals()
	assert.True(t, order.SubTotal.IsZero())
	assert.True(t, order.TotalAmount.IsZero())
}

func TestRedeemPromoOncePerOrder(t *testing.T) {
	order := Order{Status: OrderStatusDraft}
	assert.False(t, order.RedeemPromo(), "drafts never redeem")

	order.Status = OrderStatusConfirmed
	assert.True(t, order.RedeemPromo())

	// Cancel and re-confirm: the promo is already spent.
	order.Status = OrderStatusCancelled
	assert.False(t, order.RedeemPromo())
	order.Status = OrderStatusConfirmed
	assert.False(t, order.RedeemPromo())
}

func TestCouponValidate(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		coupon Coupon
		want   error
	}{
		{"active", Coupon{IsActive: true}, nil},
		{"inactive", Coupon{IsActive: false}, ErrCouponInactive},
		{"expired", Coupon{IsActive: true, ExpiresAt: &expired}, ErrCouponExpired},
		{"not yet expired", Coupon{IsActive: true, ExpiresAt: &future}, nil},
		{"exhausted", Coupon{IsActive: true, MaxUses: 3, UsedCount: 3}, ErrCouponExhausted},
		{"uses left", Coupon{IsActive: true, MaxUses: 3, UsedCount: 2}, nil},
		{"unlimited uses", Coupon{IsActive: true, MaxUses: 0, UsedCount: 99}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.Validate(now))
		})
	}
}

func TestCouponDiscount(t *testing.T) {
	percent := Coupon{DiscountType: DiscountPercent, Value: d("10")}
	assert.True(t, percent.Discount(d("200000")).Equal(d("20000")))

	amount := Coupon{DiscountType: DiscountAmount, Value: d("30000")}
	assert.True(t, amount.Discount(d("200000")).Equal(d("30000")))

	// A discount never exceeds the subtotal.
	big := Coupon{DiscountType: DiscountAmount, Value: d("500000")}
	assert.True(t, big.Discount(d("200000")).Equal(d("200000")))
}

func TestAffiliateCommission(t *testing.T) {
	a := Affiliate{Percent: d("5")}
	assert.True(t, a.Commission(d("1000000")).Equal(d("50000")))
}

func TestInventoryLogSignedQty(t *testing.T) {
	in := InventoryLog{Qty: d("7"), DiffType: DiffIncrease}
	out := InventoryLog{Qty: d("7"), DiffType: DiffDecrease}

	require.True(t, in.SignedQty().Equal(d("7")))
	require.True(t, out.SignedQty().Equal(d("-7")))
}
