package importer

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

func existingProduct(sku, name, category string) model.Product {
	p := model.Product{SKU: sku, Name: name, Category: category}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	return p
}

func record(values map[string]string, numbers map[string]decimal.Decimal, missing ...string) Record {
	rec := Record{
		Values:  values,
		Numbers: numbers,
		Missing: make(map[string]bool),
	}
	if rec.Values == nil {
		rec.Values = map[string]string{}
	}
	if rec.Numbers == nil {
		rec.Numbers = map[string]decimal.Decimal{}
	}
	for _, m := range missing {
		rec.Missing[m] = true
	}
	return rec
}

func TestBuildProductPlanMatchesSKUAndCategory(t *testing.T) {
	existing := existingProduct("ABC", "Tôn lợp 5 zem", "Tôn lợp")

	plan := BuildProductPlan([]Record{
		record(map[string]string{"name": "Tôn lợp 5 zem mới", "sku": "ABC", "category": "tôn lợp"}, nil),
	}, []model.Product{existing})

	require.Len(t, plan.Updates, 1)
	assert.Empty(t, plan.Inserts)
	assert.Equal(t, existing.ID, plan.Updates[0].ID)
}

func TestBuildProductPlanDifferentCategoryInserts(t *testing.T) {
	existing := existingProduct("ABC", "Tôn lợp 5 zem", "Tôn lợp")

	plan := BuildProductPlan([]Record{
		record(map[string]string{"name": "Xà gồ ABC", "sku": "ABC", "category": "Xà gồ"}, nil),
	}, []model.Product{existing})

	assert.Empty(t, plan.Updates)
	require.Len(t, plan.Inserts, 1)
	assert.Equal(t, "ABC", plan.Inserts[0].SKU)
}

func TestBuildProductPlanNameFallback(t *testing.T) {
	existing := existingProduct("", "Tôn lợp 5 zem", "Tôn lợp")

	// No SKU on either side: name + category must still match.
	plan := BuildProductPlan([]Record{
		record(map[string]string{"name": "  tôn lợp  5 zem ", "category": "TÔN LỢP"}, nil),
	}, []model.Product{existing})

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, existing.ID, plan.Updates[0].ID)
}

func TestBuildProductPlanPreservesSKUOnUpdate(t *testing.T) {
	existing := existingProduct("", "Tôn lợp 5 zem", "Tôn lợp")

	// Sheet has no sku column at all: the update map must not contain sku.
	plan := BuildProductPlan([]Record{
		record(map[string]string{"name": "Tôn lợp 5 zem", "category": "Tôn lợp"},
			map[string]decimal.Decimal{"price_sell": dec("125000")},
			"sku", "price_buy", "stock", "unit", "note"),
	}, []model.Product{existing})

	require.Len(t, plan.Updates, 1)
	fields := plan.Updates[0].Fields
	_, hasSKU := fields["sku"]
	assert.False(t, hasSKU, "unmapped sku must not overwrite the stored one")
	_, hasStock := fields["stock"]
	assert.False(t, hasStock)
	assert.Equal(t, dec("125000"), fields["price_sell"])
}

func TestBuildProductPlanEmptySKUValueNotWritten(t *testing.T) {
	existing := existingProduct("KEEP", "Tôn lợp 5 zem", "Tôn lợp")

	// The sku column exists but the cell is blank: keep the stored SKU.
	plan := BuildProductPlan([]Record{
		record(map[string]string{"name": "Tôn lợp 5 zem", "sku": "", "category": "Tôn lợp"}, nil),
	}, []model.Product{existing})

	require.Len(t, plan.Updates, 1)
	_, hasSKU := plan.Updates[0].Fields["sku"]
	assert.False(t, hasSKU)
}

func TestBuildCustomerPlanMatchesByPhone(t *testing.T) {
	c := model.Customer{Name: "Nguyễn Văn An", Phone: "0901234567"}
	c.ID = uuid.New()

	plan := BuildCustomerPlan([]Record{
		record(map[string]string{"name": "Nguyễn Văn An", "phone": "0901234567", "address": "Quận 7"}, nil),
		record(map[string]string{"name": "Trần Thị Bích", "phone": "0912345678"}, nil),
	}, []model.Customer{c})

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, c.ID, plan.Updates[0].ID)
	require.Len(t, plan.Inserts, 1)
	assert.Equal(t, "Trần Thị Bích", plan.Inserts[0].Name)
}
