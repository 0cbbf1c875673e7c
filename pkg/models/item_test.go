package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRecordAppend(t *testing.T) {
	r := NewItem("10-201-AB", 3, 4)
	assert.False(t, r.HasName())

	require.NoError(t, r.AppendName("Stacked Storage", " "))
	require.NoError(t, r.AppendName("  System/Plinth ", " "))
	require.NoError(t, r.AppendName("   ", " "))
	require.NoError(t, r.AppendDetail("Material: Oak"))
	require.NoError(t, r.AppendDetail(""))
	require.NoError(t, r.AppendDetail("Handle: none"))

	assert.Equal(t, "10-201-AB", r.ItemNumber())
	assert.Equal(t, 3, r.Quantity())
	assert.Equal(t, 4, r.Line())
	assert.Equal(t, "Stacked Storage System/Plinth", r.ProductName())
	assert.Equal(t, 2, r.NameLines())
	assert.Equal(t, "Material: Oak, Handle: none", r.Details())
	assert.True(t, r.HasName())
	assert.False(t, r.Ambiguous())
}

func TestItemRecordSeal(t *testing.T) {
	r := NewItem("55-300-CD", 1, 1).MarkAmbiguous()
	require.NoError(t, r.AppendName("Desk", " "))
	r.Seal()

	assert.True(t, r.Sealed())
	assert.True(t, r.Ambiguous())
	assert.ErrorIs(t, r.AppendName("Frame", " "), ErrSealed)
	assert.ErrorIs(t, r.AppendDetail("Steel"), ErrSealed)
	assert.Equal(t, "Desk", r.ProductName())
	assert.Empty(t, r.Details())
}
