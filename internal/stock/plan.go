package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-bizman-ws/internal/model"
)

// Delta is one pending adjustment to a master product's stock counter.
// Qty is signed: negative for deductions.
type Delta struct {
	ProductID uuid.UUID
	Qty       decimal.Decimal
	Log       *model.InventoryLog // nil for reversals of existing logs
}

// PlanOrderDeltas computes the stock deltas an order in the given status
// implies. Orders outside the stock-affecting statuses produce no deltas.
// One delta and one `out` log entry are produced per line item, against the
// item's resolved master product.
func PlanOrderDeltas(orderID uuid.UUID, items []model.OrderItem, status string, products []model.Product) []Delta {
	if !model.StatusAffectsStock(status) {
		return nil
	}

	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	oid := orderID
	deltas := make([]Delta, 0, len(items))
	for _, it := range items {
		target := it.ProductID
		if p, ok := byID[it.ProductID]; ok {
			target = ResolveMaster(p, products)
		}
		deltas = append(deltas, Delta{
			ProductID: target,
			Qty:       it.Qty.Neg(),
			Log: &model.InventoryLog{
				ProductID: target,
				Type:      model.LogOut,
				Qty:       it.Qty,
				DiffType:  model.DiffDecrease,
				OrderID:   &oid,
				Note:      it.Name,
			},
		})
	}
	return deltas
}

// PlanReversal computes the deltas that undo a set of previously applied
// inventory logs: each entry's signed quantity is negated against the same
// product. Applying a reversal and then deleting the logs restores the
// reconciliation invariant before new deltas are applied.
func PlanReversal(logs []model.InventoryLog) []Delta {
	deltas := make([]Delta, 0, len(logs))
	for _, l := range logs {
		deltas = append(deltas, Delta{
			ProductID: l.ProductID,
			Qty:       l.SignedQty().Neg(),
		})
	}
	return deltas
}
