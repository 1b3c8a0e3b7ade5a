package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bizman-ws/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestPlanOrderDeltasDraftNeverTouchesStock(t *testing.T) {
	p := makeProduct("A1", time.Now(), nil)
	items := []model.OrderItem{{ProductID: p.ID, Qty: dec("5")}}

	deltas := PlanOrderDeltas(uuid.New(), items, model.OrderStatusDraft, []model.Product{p})
	assert.Empty(t, deltas)

	deltas = PlanOrderDeltas(uuid.New(), items, model.OrderStatusCancelled, []model.Product{p})
	assert.Empty(t, deltas)
}

func TestPlanOrderDeltasConfirmedDebitsMaster(t *testing.T) {
	now := time.Now()
	master := makeProduct("A1", now, nil)
	alias := makeProduct("A1", now.Add(time.Hour), &master.ID)
	all := []model.Product{master, alias}

	orderID := uuid.New()
	items := []model.OrderItem{{ProductID: alias.ID, Qty: dec("5"), Name: "Tôn lợp 5 zem"}}

	deltas := PlanOrderDeltas(orderID, items, model.OrderStatusConfirmed, all)
	require.Len(t, deltas, 1)

	// The alias's sale debits the master's counter.
	assert.Equal(t, master.ID, deltas[0].ProductID)
	assert.True(t, deltas[0].Qty.Equal(dec("-5")))

	require.NotNil(t, deltas[0].Log)
	assert.Equal(t, model.LogOut, deltas[0].Log.Type)
	assert.Equal(t, model.DiffDecrease, deltas[0].Log.DiffType)
	assert.True(t, deltas[0].Log.Qty.Equal(dec("5")))
	require.NotNil(t, deltas[0].Log.OrderID)
	assert.Equal(t, orderID, *deltas[0].Log.OrderID)
}

func TestPlanOrderDeltasOnePerLineItem(t *testing.T) {
	p := makeProduct("", time.Now(), nil)
	items := []model.OrderItem{
		{ProductID: p.ID, Qty: dec("2")},
		{ProductID: p.ID, Qty: dec("3")},
	}

	deltas := PlanOrderDeltas(uuid.New(), items, model.OrderStatusShipping, []model.Product{p})
	require.Len(t, deltas, 2)
	total := deltas[0].Qty.Add(deltas[1].Qty)
	assert.True(t, total.Equal(dec("-5")))
}

func TestPlanReversalNegatesSignedQty(t *testing.T) {
	pid := uuid.New()
	logs := []model.InventoryLog{
		{ProductID: pid, Type: model.LogOut, Qty: dec("5"), DiffType: model.DiffDecrease},
		{ProductID: pid, Type: model.LogAudit, Qty: dec("2"), DiffType: model.DiffIncrease},
	}

	deltas := PlanReversal(logs)
	require.Len(t, deltas, 2)
	assert.True(t, deltas[0].Qty.Equal(dec("5")), "reversing an out log restores stock")
	assert.True(t, deltas[1].Qty.Equal(dec("-2")), "reversing an increase subtracts it")
}

// A transfer is one decrease and one increase of equal magnitude; the pair
// sums to zero so total stock is conserved, and so does its reversal.
func TestTransferLogPairConservesStock(t *testing.T) {
	out := model.InventoryLog{ProductID: uuid.New(), Type: model.LogTransfer, Qty: dec("4"), DiffType: model.DiffDecrease}
	in := model.InventoryLog{ProductID: uuid.New(), Type: model.LogTransfer, Qty: dec("4"), DiffType: model.DiffIncrease}

	assert.True(t, out.SignedQty().Add(in.SignedQty()).IsZero())

	deltas := PlanReversal([]model.InventoryLog{out, in})
	require.Len(t, deltas, 2)
	assert.True(t, deltas[0].Qty.Add(deltas[1].Qty).IsZero())
}

// Deleting an order reverses its ledger entries, landing the counter back on
// its pre-order value.
func TestDeleteReversalRestoresPreOrderStock(t *testing.T) {
	p := makeProduct("", time.Now(), nil)
	p.Stock = dec("12")

	deltas := PlanOrderDeltas(uuid.New(), []model.OrderItem{{ProductID: p.ID, Qty: dec("4")}},
		model.OrderStatusShipping, []model.Product{p})
	stockVal := p.Stock
	for _, d := range deltas {
		stockVal = stockVal.Add(d.Qty)
	}
	assert.True(t, stockVal.Equal(dec("8")))

	var logs []model.InventoryLog
	for _, d := range deltas {
		logs = append(logs, *d.Log)
	}
	for _, d := range PlanReversal(logs) {
		stockVal = stockVal.Add(d.Qty)
	}
	assert.True(t, stockVal.Equal(dec("12")), "delete must hand back the order's stock")
}

// Reconciliation walk-through: confirm qty=5 then edit to qty=3. Stock must
// end at initial-3, with exactly one active log for the order.
func TestReconciliationEditRevertsThenReapplies(t *testing.T) {
	p := makeProduct("", time.Now(), nil)
	p.Stock = dec("10")
	orderID := uuid.New()

	apply := func(stockVal decimal.Decimal, deltas []Delta) decimal.Decimal {
		for _, d := range deltas {
			if d.ProductID == p.ID {
				stockVal = stockVal.Add(d.Qty)
			}
		}
		return stockVal
	}

	// Create with qty=5.
	first := PlanOrderDeltas(orderID, []model.OrderItem{{ProductID: p.ID, Qty: dec("5")}},
		model.OrderStatusConfirmed, []model.Product{p})
	stockVal := apply(p.Stock, first)
	assert.True(t, stockVal.Equal(dec("5")))

	// Edit to qty=3: revert prior logs, then reapply.
	var priorLogs []model.InventoryLog
	for _, d := range first {
		priorLogs = append(priorLogs, *d.Log)
	}
	stockVal = apply(stockVal, PlanReversal(priorLogs))
	assert.True(t, stockVal.Equal(dec("10")))

	second := PlanOrderDeltas(orderID, []model.OrderItem{{ProductID: p.ID, Qty: dec("3")}},
		model.OrderStatusConfirmed, []model.Product{p})
	stockVal = apply(stockVal, second)

	assert.True(t, stockVal.Equal(dec("7")), "edit 5->3 must land on 7, not 2 or 12")
	require.Len(t, second, 1)
	assert.True(t, second[0].Log.Qty.Equal(dec("3")))
}
