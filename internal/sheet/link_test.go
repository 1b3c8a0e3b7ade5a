package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportURLFromShareLink(t *testing.T) {
	url, err := ExportURL("https://docs.google.com/spreadsheets/d/1AbC_def-123/edit?usp=sharing")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/1AbC_def-123/export?format=csv", url)
}

func TestExportURLCarriesGid(t *testing.T) {
	url, err := ExportURL("https://docs.google.com/spreadsheets/d/1AbC/edit#gid=420")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/1AbC/export?format=csv&gid=420", url)
}

func TestExportURLRejectsOtherLinks(t *testing.T) {
	_, err := ExportURL("https://example.com/file.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedLink)
}

func TestParseCSVRaggedRows(t *testing.T) {
	rows, err := ParseCSV([]byte("Tên sản phẩm,Giá bán\nTôn lợp 5 zem,133.215\nghi chú cuối"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 2)
	assert.Len(t, rows[2], 1)
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	_, err := ParseFile("data.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}
