package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestEqualPlainFiles(t *testing.T) {
	assert.True(t, Equal("a-summary.txt", []byte("3 x DESK"), []byte("3 x DESK")))
	assert.False(t, Equal("a-summary.txt", []byte("3 x DESK"), []byte("2 x DESK")))
	assert.False(t, Equal("a-summary.txt", []byte("x"), nil))
}

func TestEqualWorkbooks(t *testing.T) {
	a := workbook(t, []any{"Item Number", "Quantity"}, []any{"10-201-AB", 3})
	b := workbook(t, []any{"Item Number", "Quantity"}, []any{"10-201-AB", 3})
	c := workbook(t, []any{"Item Number", "Quantity"}, []any{"10-201-AB", 4})

	assert.True(t, Equal("out-items.xlsx", a, b))
	assert.False(t, Equal("out-items.xlsx", a, c))
	assert.False(t, Equal("out-items.xlsx", a, []byte("not a workbook")))
}
