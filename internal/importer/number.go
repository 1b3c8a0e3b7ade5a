package importer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errNotANumber = errors.New("not a number")

// ParseNumber normalizes locale-formatted numerics from spreadsheet cells.
// Vietnamese sheets mix separator conventions, so:
//
//   - both comma and dot present: dot is the thousands separator, comma the
//     decimal one ("1.234.567,89" -> 1234567.89)
//   - only comma: comma is the decimal separator ("1234,56" -> 1234.56)
//   - only dot with exactly three digits after the final dot: dot is a
//     thousands separator ("133.215" -> 133215)
//   - otherwise: literal decimal
func ParseNumber(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" || s == "-" {
		return decimal.Zero, errNotANumber
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	case hasDot:
		if tail := s[strings.LastIndex(s, ".")+1:]; len(tail) == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errNotANumber
	}
	return d, nil
}

// ParseNumberOrDefault falls back to the field default when the cell cannot
// be parsed.
func ParseNumberOrDefault(raw string, def decimal.Decimal) decimal.Decimal {
	d, err := ParseNumber(raw)
	if err != nil {
		return def
	}
	return d
}
