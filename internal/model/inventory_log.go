package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryLogType string

const (
	LogInit     InventoryLogType = "init"     // opening stock
	LogOut      InventoryLogType = "out"      // order-driven deduction
	LogAudit    InventoryLogType = "audit"    // manual stock count correction
	LogTransfer InventoryLogType = "transfer" // movement between linked products
)

type DiffType string

const (
	DiffIncrease DiffType = "increase"
	DiffDecrease DiffType = "decrease"
)

// InventoryLog is the append-only record of every stock-affecting event.
// ProductID always references the master (stock-bearing) product. The sum of
// signed quantities of the non-reverted entries for a product equals the
// drift of its stock counter since time zero; the order reconciler preserves
// this by soft-deleting (reverting) entries before reapplying new deltas.
type InventoryLog struct {
	BaseModel
	Tenancy
	ProductID uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Type      InventoryLogType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=init out audit transfer"`

	// Qty is a positive magnitude; DiffType carries the sign.
	Qty      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	DiffType DiffType        `gorm:"type:varchar(10);not null" json:"diff_type" validate:"required,oneof=increase decrease"`

	OrderID *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Note    string     `gorm:"type:text" json:"note,omitempty"`
}

func (InventoryLog) TableName() string {
	return "inventory_logs"
}

// SignedQty folds DiffType into the magnitude.
func (l *InventoryLog) SignedQty() decimal.Decimal {
	if l.DiffType == DiffDecrease {
		return l.Qty.Neg()
	}
	return l.Qty
}
