package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHeaderRowSkipsPreamble(t *testing.T) {
	rows := [][]string{
		{"CÔNG TY TNHH DUNVEX"},
		{"Báo giá tháng 8"},
		{"STT", "Tên sản phẩm", "Giá bán"},
		{"1", "Tôn lợp 5 zem", "133.215"},
	}
	assert.Equal(t, 2, DetectHeaderRow(rows))
}

func TestDetectHeaderRowFallsBackToRowZero(t *testing.T) {
	// No name-like cell anywhere in the first 10 rows: row 0 is used
	// unconditionally, no error.
	rows := [][]string{
		{"a", "b"}, {"c"}, {"d"}, {"e"}, {"f"},
		{"g"}, {"h"}, {"i"}, {"j"}, {"k"}, {"Tên sản phẩm"},
	}
	assert.Equal(t, 0, DetectHeaderRow(rows))
}

func TestMatchColumnsSynonyms(t *testing.T) {
	header := []string{"STT", "Mặt hàng", "SĐT", "Loại hàng", "ĐVT", "Giá", "SL tồn"}
	m := MatchColumns(header, ProductFields)

	assert.Equal(t, 1, m.Fields["name"])
	assert.Equal(t, 3, m.Fields["category"])
	assert.Equal(t, 4, m.Fields["unit"])
	assert.Equal(t, 5, m.Fields["price_sell"], "bare 'Giá' binds the sell price")
	assert.Equal(t, 6, m.Fields["stock"])
	assert.False(t, m.Has("sku"))
}

func TestMatchColumnsFirstMatchWins(t *testing.T) {
	header := []string{"Tên sản phẩm", "Tên viết tắt"}
	m := MatchColumns(header, ProductFields)
	assert.Equal(t, 0, m.Fields["name"])
}

func TestMatchColumnsCombinedCoordinatePriority(t *testing.T) {
	header := []string{"Họ tên", "SĐT", "Vị trí (lat,lng)", "Lat", "Lng"}
	m := MatchColumns(header, CustomerFields)

	assert.Equal(t, 2, m.CoordCol, "combined column takes priority")
	assert.False(t, m.Has("lat"))
	assert.False(t, m.Has("lng"))
	assert.Equal(t, 0, m.Fields["name"])
	assert.Equal(t, 1, m.Fields["phone"])
}

func TestNormalizeCoordinateSplit(t *testing.T) {
	rows := [][]string{
		{"Họ tên", "SĐT", "Vị trí"},
		{"Nguyễn Văn An", "0901234567", "10.762622, 106.660172"},
		{"Trần Thị Bích", "0912345678", "không rõ"},
	}
	p, err := Normalize(rows, EntityCustomers)
	require.NoError(t, err)
	require.Len(t, p.Records, 2)

	lat, _ := p.Records[0].Numbers["lat"].Float64()
	lng, _ := p.Records[0].Numbers["lng"].Float64()
	assert.InDelta(t, 10.762622, lat, 1e-9)
	assert.InDelta(t, 106.660172, lng, 1e-9)

	// Unparseable coordinates fall back to the numeric default.
	assert.True(t, p.Records[1].Numbers["lat"].IsZero())
	assert.True(t, p.Records[1].Numbers["lng"].IsZero())
}

func TestNormalizeFiltersShortNames(t *testing.T) {
	rows := [][]string{
		{"Tên sản phẩm", "Giá bán"},
		{"Tôn lợp 5 zem", "120.000"},
		{"", "99"},
		{"ab", "99"},
	}
	p, err := Normalize(rows, EntityProducts)
	require.NoError(t, err)
	assert.Len(t, p.Records, 1)
	assert.Equal(t, 2, p.Skipped)
}

func TestNormalizeMarksUnmappedFieldsMissing(t *testing.T) {
	rows := [][]string{
		{"Tên sản phẩm", "Giá bán"},
		{"Tôn lợp 5 zem", "120.000"},
	}
	p, err := Normalize(rows, EntityProducts)
	require.NoError(t, err)
	require.Len(t, p.Records, 1)

	rec := p.Records[0]
	assert.True(t, rec.Missing["sku"])
	assert.True(t, rec.Missing["stock"])
	assert.False(t, rec.Missing["name"])
	assert.True(t, rec.Numbers["price_sell"].Equal(dec("120000")))
}
