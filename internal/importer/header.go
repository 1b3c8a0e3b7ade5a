package importer

import "strings"

// headerScanLimit caps how deep DetectHeaderRow looks for a header row.
const headerScanLimit = 10

// DetectHeaderRow scans the first rows for one containing a name-indicating
// cell and returns its index. When nothing in the first ten rows looks like
// a header, row 0 is used unconditionally.
func DetectHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			folded := strings.ToLower(strings.TrimSpace(cell))
			for _, label := range nameLabels {
				if strings.Contains(folded, label) {
					return i
				}
			}
		}
	}
	return 0
}

// ColumnMap binds target field keys to column indexes. CoordCol is the
// index of a combined "lat,lng" column, or -1 when absent.
type ColumnMap struct {
	Fields   map[string]int
	CoordCol int
}

// Has reports whether a field was bound to a column.
func (m ColumnMap) Has(key string) bool {
	_, ok := m.Fields[key]
	return ok
}

// MatchColumns binds each field spec to the first header cell that matches
// it. A direct match (key or label as substring of the cell) is tried
// before the synonym table; a column claimed by one field is never reused.
// There is no scoring — first match in header order wins.
func MatchColumns(header []string, fields []FieldSpec) ColumnMap {
	folded := make([]string, len(header))
	for i, cell := range header {
		folded[i] = foldHeader(cell)
	}

	m := ColumnMap{Fields: make(map[string]int), CoordCol: -1}
	used := make(map[int]bool)

	// The combined coordinate column is claimed first so a header like
	// "vị trí (lat,lng)" does not get eaten by the lat synonym.
	for i, cell := range folded {
		if cell == "" {
			continue
		}
		for _, label := range coordLabels {
			if strings.Contains(cell, foldHeader(label)) {
				m.CoordCol = i
				used[i] = true
				break
			}
		}
		if m.CoordCol >= 0 {
			break
		}
	}

	for _, f := range fields {
		if m.CoordCol >= 0 && (f.Key == "lat" || f.Key == "lng") {
			continue // combined column takes priority
		}
		idx := matchField(folded, used, f)
		if idx >= 0 {
			m.Fields[f.Key] = idx
			used[idx] = true
		}
	}
	return m
}

func matchField(folded []string, used map[int]bool, f FieldSpec) int {
	keyNorm := foldHeader(f.Key)
	labelNorm := foldHeader(f.Label)
	for i, cell := range folded {
		if used[i] || cell == "" {
			continue
		}
		if cell == keyNorm || strings.Contains(cell, keyNorm) || strings.Contains(cell, labelNorm) {
			return i
		}
	}
	for _, syn := range f.Synonyms {
		synNorm := foldHeader(syn)
		for i, cell := range folded {
			if used[i] || cell == "" {
				continue
			}
			if strings.Contains(cell, synNorm) {
				return i
			}
		}
	}
	return -1
}
