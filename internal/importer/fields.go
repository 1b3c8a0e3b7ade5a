// Package importer turns raw spreadsheet rows into upsert-ready records:
// it locates the header row, maps columns to target fields through a fixed
// synonym table, normalizes values (locale-aware numbers, combined
// coordinates) and plans inserts vs. updates against existing records.
// All of it is pure so the matching rules are testable in isolation.
package importer

import "strings"

const (
	EntityProducts  = "products"
	EntityCustomers = "customers"
)

// FieldSpec describes one target field the matcher tries to bind to a
// spreadsheet column. Matching order: key, then label, then synonyms;
// specs are tried in slice order and the first header hit wins.
type FieldSpec struct {
	Key      string
	Label    string
	Synonyms []string
	Numeric  bool
}

// ProductFields: order matters — price_buy is listed before price_sell so a
// bare "giá" column falls through to the sell price, matching how sellers
// label their sheets.
var ProductFields = []FieldSpec{
	{Key: "name", Label: "tên sản phẩm", Synonyms: []string{"tên hàng", "sản phẩm", "mặt hàng", "hàng hóa", "product", "item"}},
	{Key: "sku", Label: "mã sản phẩm", Synonyms: []string{"sku", "mã hàng", "mã sp", "code"}},
	{Key: "category", Label: "danh mục", Synonyms: []string{"loại hàng", "phân loại", "nhóm hàng", "category", "nhóm"}},
	{Key: "unit", Label: "đơn vị", Synonyms: []string{"đvt", "đơn vị tính", "unit"}},
	{Key: "price_buy", Label: "giá nhập", Synonyms: []string{"giá vốn", "giá mua", "buy price", "cost"}, Numeric: true},
	{Key: "price_sell", Label: "giá bán", Synonyms: []string{"đơn giá", "price", "giá"}, Numeric: true},
	{Key: "stock", Label: "tồn kho", Synonyms: []string{"số lượng", "sl tồn", "tồn", "qty", "quantity", "stock"}, Numeric: true},
	{Key: "note", Label: "ghi chú", Synonyms: []string{"chú thích", "note"}},
}

var CustomerFields = []FieldSpec{
	{Key: "name", Label: "tên khách hàng", Synonyms: []string{"khách hàng", "họ và tên", "họ tên", "customer", "name"}},
	{Key: "phone", Label: "số điện thoại", Synonyms: []string{"sđt", "đt", "điện thoại", "mobile", "tel", "phone"}},
	{Key: "address", Label: "địa chỉ", Synonyms: []string{"đc", "address"}},
	{Key: "lat", Label: "vĩ độ", Synonyms: []string{"latitude", "lat"}, Numeric: true},
	{Key: "lng", Label: "kinh độ", Synonyms: []string{"longitude", "long", "lng"}, Numeric: true},
	{Key: "note", Label: "ghi chú", Synonyms: []string{"chú thích", "note"}},
}

// FieldsFor returns the field table for an import entity, or nil when the
// entity is unknown.
func FieldsFor(entity string) []FieldSpec {
	switch entity {
	case EntityProducts:
		return ProductFields
	case EntityCustomers:
		return CustomerFields
	}
	return nil
}

// nameLabels mark a row as a header candidate during header detection.
var nameLabels = []string{"tên", "name", "sản phẩm", "khách hàng", "mặt hàng", "họ tên"}

// coordLabels mark a combined "lat,lng" column, which takes priority over
// separate lat/lng columns.
var coordLabels = []string{"vị trí", "tọa độ", "toạ độ", "coordinate", "location"}

// foldHeader lowercases a header cell and strips all whitespace so synonym
// comparison ignores spacing variations.
func foldHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "")
}

// normText lowercases, trims and collapses inner whitespace; used for the
// dedup keys (category, name).
func normText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
