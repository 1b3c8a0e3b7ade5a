package importer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Record is one normalized, upsert-ready row. Missing marks fields that had
// no column in the sheet; on update those must never overwrite stored
// values.
type Record struct {
	Line    int                        `json:"line"`
	Values  map[string]string          `json:"values"`
	Numbers map[string]decimal.Decimal `json:"numbers"`
	Missing map[string]bool            `json:"missing"`
}

// Preview is the staged result shown to the user before a commit.
type Preview struct {
	Entity    string         `json:"entity"`
	HeaderRow int            `json:"header_row"`
	Columns   map[string]int `json:"columns"`
	Records   []Record       `json:"records"`
	Skipped   int            `json:"skipped"`
}

// Normalize runs the full matching pipeline over raw rows: header
// detection, column matching, per-cell normalization and row filtering.
func Normalize(rows [][]string, entity string) (*Preview, error) {
	fields := FieldsFor(entity)
	if fields == nil {
		return nil, fmt.Errorf("unsupported import entity %q", entity)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet contains no rows")
	}

	headerRow := DetectHeaderRow(rows)
	cols := MatchColumns(rows[headerRow], fields)

	p := &Preview{Entity: entity, HeaderRow: headerRow, Columns: cols.Fields}
	for i := headerRow + 1; i < len(rows); i++ {
		rec := normalizeRow(rows[i], i, fields, cols)
		// Rows without a usable name are noise (separators, totals).
		if utf8.RuneCountInString(strings.TrimSpace(rec.Values["name"])) <= 2 {
			p.Skipped++
			continue
		}
		p.Records = append(p.Records, rec)
	}
	return p, nil
}

func normalizeRow(row []string, line int, fields []FieldSpec, cols ColumnMap) Record {
	rec := Record{
		Line:    line,
		Values:  make(map[string]string),
		Numbers: make(map[string]decimal.Decimal),
		Missing: make(map[string]bool),
	}

	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	coordDone := false
	if cols.CoordCol >= 0 {
		if lat, lng, ok := splitCoordinate(cell(cols.CoordCol)); ok {
			rec.Numbers["lat"] = decimal.NewFromFloat(lat)
			rec.Numbers["lng"] = decimal.NewFromFloat(lng)
			coordDone = true
		}
	}

	for _, f := range fields {
		if f.Key == "lat" || f.Key == "lng" {
			if cols.CoordCol >= 0 {
				if !coordDone {
					rec.Numbers[f.Key] = decimal.Zero
				}
				continue
			}
		}
		idx, ok := cols.Fields[f.Key]
		if !ok {
			rec.Missing[f.Key] = true
			continue
		}
		raw := cell(idx)
		if f.Numeric {
			rec.Numbers[f.Key] = ParseNumberOrDefault(raw, decimal.Zero)
		} else {
			rec.Values[f.Key] = raw
		}
	}
	return rec
}

// splitCoordinate parses a combined "lat,lng" cell. Both halves must parse
// as floats for the value to be trusted.
func splitCoordinate(raw string) (lat, lng float64, ok bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
