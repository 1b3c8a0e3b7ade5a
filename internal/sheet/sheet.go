// Package sheet turns uploaded files and shared spreadsheet links into raw
// rows (array-of-arrays of cell strings, header included) for the importer.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFile = errors.New("unsupported file type, expected .xlsx or .csv")

// ParseFile dispatches on the file extension. Only the first sheet of a
// workbook is read.
func ParseFile(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ParseXLSX(data)
	case ".csv", ".txt":
		return ParseCSV(data)
	default:
		return nil, ErrUnsupportedFile
	}
}

// ParseXLSX reads the first sheet of a workbook into raw rows.
func ParseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// ParseCSV tolerates ragged rows and stray quotes, which published
// spreadsheet exports routinely contain.
func ParseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse csv: %w", err)
	}
	return rows, nil
}
