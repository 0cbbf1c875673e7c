package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/pconv/pkg/projection"
)

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(Sheet)
	require.NoError(t, err)
	return rows
}

var sample = projection.Projection{
	Items: []projection.ItemQuantityRow{
		{ItemNumber: "10-201-AB", Quantity: 3},
		{ItemNumber: "30-400-EF", Quantity: 1},
	},
	Detailed: []projection.DetailedRow{
		{ItemNumber: "10-201-AB", ProductName: "STACKED STORAGE SYSTEM", Quantity: 3},
		{ItemNumber: "30-400-EF", ProductName: "DESK", Quantity: 1},
	},
}

func TestItems(t *testing.T) {
	data, err := Items(sample)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"10-201-AB", "3"},
		{"30-400-EF", "1"},
	}, readRows(t, data))
}

func TestDetailed(t *testing.T) {
	data, err := Detailed(sample)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Item Number", "Product Name", "Quantity"},
		{"10-201-AB", "STACKED STORAGE SYSTEM", "3"},
		{"30-400-EF", "DESK", "1"},
	}, readRows(t, data))
}

func TestDetailedEmpty(t *testing.T) {
	data, err := Detailed(projection.Projection{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Item Number", "Product Name", "Quantity"}}, readRows(t, data))
}
