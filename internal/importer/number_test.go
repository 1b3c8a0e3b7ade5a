package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumberSeparatorRules(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.234.567,89", "1234567.89"}, // dot thousands, comma decimal
		{"1234,56", "1234.56"},         // comma decimal
		{"133.215", "133215"},          // exactly three digits after the final dot
		{"12.5", "12.5"},               // literal decimal
		{"1.234", "1234"},              // three digits -> thousands
		{"1500", "1500"},
		{"1.500.000", "1500000"},
		{"-2,5", "-2.5"},
	}
	for _, c := range cases {
		got, err := ParseNumber(c.in)
		require.NoError(t, err, c.in)
		want, _ := decimal.NewFromString(c.want)
		assert.Truef(t, got.Equal(want), "ParseNumber(%q) = %s, want %s", c.in, got, want)
	}
}

func TestParseNumberStripsJunk(t *testing.T) {
	got, err := ParseNumber("₫ 1.500.000 VND")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1500000)))
}

func TestParseNumberFailureFallsBackToDefault(t *testing.T) {
	_, err := ParseNumber("n/a")
	assert.Error(t, err)

	def := decimal.NewFromInt(0)
	assert.True(t, ParseNumberOrDefault("n/a", def).Equal(def))
	assert.True(t, ParseNumberOrDefault("", def).Equal(def))
}
