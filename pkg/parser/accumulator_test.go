package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/pconv/pkg/models"
)

type recordView struct {
	ItemNumber  string
	Quantity    int
	ProductName string
	Details     string
}

func view(records []*models.ItemRecord) []recordView {
	out := make([]recordView, len(records))
	for i, r := range records {
		out[i] = recordView{r.ItemNumber(), r.Quantity(), r.ProductName(), r.Details()}
	}
	return out
}

var sampleLines = []string{
	"3 10-201-AB 1,000",
	"Stacked Storage System/Plinth",
	"Material: Oak veneer",
	"2 20-310-CD",
	"Lounge Chair/Swivel",
	"Fabric: Grey melange",
	"left armrest",
	"1 30-400-EF",
	"Desk/Height adjustable",
}

func TestParseScenarios(t *testing.T) {
	t.Run("single record", func(t *testing.T) {
		records := Parse([]string{"3 10-201-AB 1,000", "Stacked Storage System/Plinth", "Material: Oak veneer"})
		require.Len(t, records, 1)
		assert.Equal(t, recordView{"10-201-AB", 3, "Stacked Storage System/Plinth", "Material: Oak veneer"}, view(records)[0])
		assert.True(t, records[0].Sealed())
	})

	t.Run("consecutive headers", func(t *testing.T) {
		records := Parse([]string{"2 40-100-XY", "1 40-200-XY"})
		require.Len(t, records, 2)
		assert.False(t, records[0].HasName())
		assert.False(t, records[1].HasName())
	})

	t.Run("noise after header", func(t *testing.T) {
		records := Parse([]string{"1 55-300-CD", "Value Added Tax 19%", "Desk Frame/Steel"})
		require.Len(t, records, 1)
		assert.Equal(t, "Desk Frame/Steel", records[0].ProductName())
	})

	t.Run("no headers", func(t *testing.T) {
		assert.Empty(t, Parse([]string{"Quotation 4711", "Sofa/Cover", "left armrest"}))
		assert.Empty(t, Parse(nil))
	})
}

func TestParseContinuation(t *testing.T) {
	records := Parse(sampleLines)
	require.Len(t, records, 3)
	assert.Equal(t, "Fabric: Grey melange, left armrest", records[1].Details())

	policy := DefaultPolicy()
	policy.Continuation = ContinueName
	result := New(nil, policy).ParseLines(sampleLines)
	assert.Equal(t, "Lounge Chair/Swivel left armrest", result.Records[1].ProductName())
	assert.Equal(t, "Fabric: Grey melange", result.Records[1].Details())

	// An unclassified line fills an empty name first.
	records = Parse([]string{"1 10-1", "plain words", "more words"})
	require.Len(t, records, 1)
	assert.Equal(t, "plain words", records[0].ProductName())
	assert.Equal(t, "more words", records[0].Details())
}

func TestParseWindowPreset(t *testing.T) {
	policy, err := PresetPolicy(PresetWindow)
	require.NoError(t, err)

	result := New(nil, policy).ParseLines([]string{
		"2 70-001-ZZ",
		"Lounge chair",
		"swivel base",
		"Fabric: Grey",
		"extra info",
	})
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Lounge chair swivel base", result.Records[0].ProductName())
	assert.Equal(t, "Fabric: Grey, extra info", result.Records[0].Details())
	assert.Equal(t, 2, result.Records[0].NameLines())

	policy.NameJoin = ""
	result = New(nil, policy).ParseLines([]string{"1 A-10", "MODULAR", "SOFA"})
	assert.Equal(t, "MODULARSOFA", result.Records[0].ProductName())
}

func TestParseMaxNameLines(t *testing.T) {
	policy := DefaultPolicy()
	policy.MaxNameLines = 1
	result := New(nil, policy).ParseLines([]string{"1 10-1", "Sofa/Cover", "Cushion/Set"})
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Sofa/Cover", result.Records[0].ProductName())
	assert.Equal(t, "Cushion/Set", result.Records[0].Details())
}

func TestParseOrderAndClosure(t *testing.T) {
	records := Parse(sampleLines)
	require.Len(t, records, 3)

	want := []string{"10-201-AB", "20-310-CD", "30-400-EF"}
	for i, r := range records {
		assert.Equal(t, want[i], r.ItemNumber())
		assert.True(t, r.Sealed(), "record %d left open", i)
	}
	// The last record is closed by end of input.
	assert.Equal(t, "Desk/Height adjustable", records[2].ProductName())
	assert.Equal(t, []int{1, 4, 8}, []int{records[0].Line(), records[1].Line(), records[2].Line()})
}

func TestParseNumericItemCodes(t *testing.T) {
	records := Parse([]string{
		"1 10-100-AA",
		"Sofa/Cover",
		"2 22143 Stacked Storage/Plinth",
		"Material: Oak",
		"4 22144 850",
		"Shelf/Board",
	})

	assert.Equal(t, []recordView{
		{"10-100-AA", 1, "Sofa/Cover", ""},
		{"22143", 2, "", "Material: Oak"},
		{"22144", 4, "Shelf/Board", ""},
	}, view(records))
}

func TestParseNamesWithNoiseFragments(t *testing.T) {
	records := Parse([]string{
		"1 10-100-AA",
		"Fleur Lounge Chair/Large",
		"2 10-200-BB",
		"Liqueur Cabinet/Oak",
		"1 10-300-CC",
		"Syntax Shelf/Oak",
		"Delivery 120 EUR",
	})

	assert.Equal(t, []recordView{
		{"10-100-AA", 1, "Fleur Lounge Chair/Large", ""},
		{"10-200-BB", 2, "Liqueur Cabinet/Oak", ""},
		{"10-300-CC", 1, "Syntax Shelf/Oak", ""},
	}, view(records))
}

func TestParseNoiseIdempotence(t *testing.T) {
	noise := []string{"Value Added Tax 19%", "Unit price 1.299,00 EUR", "Page 1 of 2", ""}
	window, err := PresetPolicy(PresetWindow)
	require.NoError(t, err)

	for _, policy := range []Policy{DefaultPolicy(), window} {
		p := New(nil, policy)
		base := view(p.ParseLines(sampleLines).Records)

		for pos := 0; pos <= len(sampleLines); pos++ {
			for _, n := range noise {
				lines := make([]string, 0, len(sampleLines)+1)
				lines = append(lines, sampleLines[:pos]...)
				lines = append(lines, n)
				lines = append(lines, sampleLines[pos:]...)

				assert.Equal(t, base, view(p.ParseLines(lines).Records), "noise %q at %d", n, pos)
			}
		}
	}
}

func TestParseResultCounters(t *testing.T) {
	lines := []string{
		"Quotation 4711",
		"Sofa/Cover",
		"1,000 12-345-XY",
		"Sofa/Cover",
		"",
		"1,5 12-345-XY",
		"2 40-100-XY",
	}
	result := New(nil, DefaultPolicy()).ParseLines(lines)

	assert.Equal(t, 7, result.TotalLines)
	assert.Equal(t, 2, result.HeaderLines)
	assert.Equal(t, 1, result.NoiseLines)
	assert.Equal(t, 2, result.SkippedLines)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 1000, result.Records[0].Quantity())
	assert.True(t, result.Records[0].Ambiguous())
	assert.True(t, result.Ambiguous())
	assert.Equal(t, "Sofa/Cover", result.Records[0].ProductName())
	assert.Equal(t, "1,5 12-345-XY", result.Records[0].Details())
	assert.Len(t, result.Named(), 1)

	require.Len(t, result.Warnings, 3)
	assert.Equal(t, 3, result.Warnings[0].Line)
	assert.Contains(t, result.Warnings[0].Message, "ambiguous")
	assert.Equal(t, 6, result.Warnings[1].Line)
	assert.Contains(t, result.Warnings[1].Message, "quantity not readable")
	assert.Equal(t, 7, result.Warnings[2].Line)
	assert.Contains(t, result.Warnings[2].Message, "no product name")
}

func TestTrace(t *testing.T) {
	steps, result := New(nil, DefaultPolicy()).Trace([]string{
		"Sofa/Cover",
		"3 10-201-AB 1,000",
		"Stacked Storage System/Plinth",
		"Material: Oak veneer",
		"Total 1.299,00",
	})
	require.Len(t, steps, 5)
	assert.Len(t, result.Records, 1)

	actions := make([]string, len(steps))
	tags := make([]string, len(steps))
	for i, s := range steps {
		actions[i] = s.Action
		tags[i] = s.Tag
	}
	assert.Equal(t, []string{"skip", "open", "name", "detail", "skip"}, actions)
	assert.Equal(t, []string{"product-name", "item-header", "product-name", "detail", "noise"}, tags)
}
