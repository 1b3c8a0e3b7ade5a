package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one catalog entry. SKU is optional and NOT unique on its own:
// several products may share a SKU, in which case exactly one of them (the
// "master", the one without LinkedProductID) owns the stock counter and the
// others sell against it.
type Product struct {
	BaseModel
	Tenancy
	SKU      string `gorm:"type:varchar(50);index" json:"sku"`
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category string `gorm:"type:varchar(100);index" json:"category"`
	Unit     string `gorm:"type:varchar(20)" json:"unit"`

	// Stock is authoritative only when this product is a master record.
	Stock decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"stock"`

	// LinkedProductID points at the product whose stock counter this
	// product's sales should debit instead of its own.
	LinkedProductID *uuid.UUID `gorm:"type:uuid;index" json:"linked_product_id,omitempty"`

	PriceBuy  decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"price_buy"`
	PriceSell decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"price_sell"`

	Note string `gorm:"type:text" json:"note,omitempty"`
}

// IsMaster reports whether this product owns its own stock counter.
func (p *Product) IsMaster() bool {
	return p.LinkedProductID == nil
}
