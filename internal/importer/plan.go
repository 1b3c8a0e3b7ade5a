package importer

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-bizman-ws/internal/model"
)

// ChunkSize is the largest number of rows committed in one atomic batch.
// Chunks commit independently: a failure in chunk N does not revert earlier
// chunks.
const ChunkSize = 500

// FieldUpdate is a partial update against one existing record: only fields
// actually present in the sheet appear in the column map, so stored values
// survive unmapped columns.
type FieldUpdate struct {
	ID     uuid.UUID
	Fields map[string]interface{}
}

type ProductPlan struct {
	Inserts []model.Product
	Updates []FieldUpdate
}

type CustomerPlan struct {
	Inserts []model.Customer
	Updates []FieldUpdate
}

// BuildProductPlan matches records against existing products. Match
// priority: same SKU + same normalized category first, then same normalized
// name + category. Matches become partial updates, the rest insert.
func BuildProductPlan(records []Record, existing []model.Product) ProductPlan {
	bySKU := make(map[string]model.Product)
	byName := make(map[string]model.Product)
	for _, p := range existing {
		cat := normText(p.Category)
		if p.SKU != "" {
			bySKU[p.SKU+"|"+cat] = p
		}
		byName[normText(p.Name)+"|"+cat] = p
	}

	var plan ProductPlan
	for _, rec := range records {
		sku := rec.Values["sku"]
		cat := normText(rec.Values["category"])

		var match model.Product
		found := false
		if sku != "" {
			match, found = bySKU[sku+"|"+cat]
		}
		if !found {
			match, found = byName[normText(rec.Values["name"])+"|"+cat]
		}

		if found {
			plan.Updates = append(plan.Updates, FieldUpdate{ID: match.ID, Fields: productFields(rec)})
		} else {
			plan.Inserts = append(plan.Inserts, model.Product{
				Name:      rec.Values["name"],
				SKU:       sku,
				Category:  rec.Values["category"],
				Unit:      rec.Values["unit"],
				Note:      rec.Values["note"],
				PriceBuy:  num(rec, "price_buy"),
				PriceSell: num(rec, "price_sell"),
				Stock:     num(rec, "stock"),
			})
		}
	}
	return plan
}

// BuildCustomerPlan matches records against existing customers by exact
// phone number.
func BuildCustomerPlan(records []Record, existing []model.Customer) CustomerPlan {
	byPhone := make(map[string]model.Customer)
	for _, c := range existing {
		if c.Phone != "" {
			byPhone[c.Phone] = c
		}
	}

	var plan CustomerPlan
	for _, rec := range records {
		phone := rec.Values["phone"]
		if match, ok := byPhone[phone]; phone != "" && ok {
			plan.Updates = append(plan.Updates, FieldUpdate{ID: match.ID, Fields: customerFields(rec)})
		} else {
			plan.Inserts = append(plan.Inserts, model.Customer{
				Name:    rec.Values["name"],
				Phone:   phone,
				Address: rec.Values["address"],
				Note:    rec.Values["note"],
				Lat:     num(rec, "lat").InexactFloat64(),
				Lng:     num(rec, "lng").InexactFloat64(),
			})
		}
	}
	return plan
}

func num(rec Record, key string) decimal.Decimal {
	if d, ok := rec.Numbers[key]; ok {
		return d
	}
	return decimal.Zero
}

// productFields builds the partial update map for one matched product.
// Unmapped fields stay out entirely; a mapped-but-empty SKU also stays out
// so an existing SKU is never blanked by a sheet that lacks one.
func productFields(rec Record) map[string]interface{} {
	fields := make(map[string]interface{})
	for _, key := range []string{"name", "category", "unit", "note"} {
		if !rec.Missing[key] {
			fields[key] = rec.Values[key]
		}
	}
	if !rec.Missing["sku"] && rec.Values["sku"] != "" {
		fields["sku"] = rec.Values["sku"]
	}
	for _, key := range []string{"price_buy", "price_sell", "stock"} {
		if !rec.Missing[key] {
			fields[key] = rec.Numbers[key]
		}
	}
	return fields
}

func customerFields(rec Record) map[string]interface{} {
	fields := make(map[string]interface{})
	for _, key := range []string{"name", "phone", "address", "note"} {
		if !rec.Missing[key] {
			fields[key] = rec.Values[key]
		}
	}
	for _, key := range []string{"lat", "lng"} {
		if !rec.Missing[key] {
			fields[key] = num(rec, key).InexactFloat64()
		}
	}
	return fields
}
