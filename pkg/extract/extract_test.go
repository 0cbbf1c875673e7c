package extract

import (
	"bytes"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []string
	}{
		{"unix", []byte("a\nb\n"), []string{"a", "b"}},
		{"windows", []byte("a\r\nb"), []string{"a", "b"}},
		{"bom", []byte("\xEF\xBB\xBFa\nb"), []string{"a", "b"}},
		{"keeps blank lines", []byte("a\n\nb"), []string{"a", "", "b"}},
		{"empty", []byte(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := Text(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lines)
		})
	}
}

func TestTextRejectsBinary(t *testing.T) {
	_, err := Text([]byte("abc\x00def"))
	assert.ErrorIs(t, err, ErrNotText)

	_, err = Text([]byte{0xC3, 0x28})
	assert.ErrorIs(t, err, ErrNotText)
}

func TestXLSXLines(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "3"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "10-201-AB"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Stacked Storage System/Plinth"))
	_, err := f.NewSheet("Sheet2")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet2", "C1", "Material: Oak veneer"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	lines, err := XLSXLines(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"3 10-201-AB", "Stacked Storage System/Plinth", "Material: Oak veneer"}, lines)
}

func TestXLSXLinesEmpty(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = XLSXLines(buf.Bytes())
	assert.ErrorIs(t, err, ErrNoText)
}

func TestPDFLinesRejectsGarbage(t *testing.T) {
	_, err := PDFLines(bytes.Repeat([]byte("not a pdf "), 20))
	assert.Error(t, err)
}

func TestJoinWords(t *testing.T) {
	words := []pdf.Text{
		{S: "3", X: 10, W: 5, FontSize: 10},
		{S: "10-201-", X: 20, W: 30, FontSize: 10},
		{S: "AB", X: 50, W: 10, FontSize: 10},
		{S: "1,000", X: 80, W: 20, FontSize: 10},
	}
	assert.Equal(t, "3 10-201-AB 1,000", joinWords(words))
	assert.Equal(t, "", joinWords(nil))
}

func TestStreamLines(t *testing.T) {
	stream := []byte(`BT
/F1 10 Tf
72 720 Td
(3 10-201-AB) Tj
( 1,000) Tj
0 -12 Td
[(Stacked Storage ) -20 (System/Plinth)] TJ
T*
(Material: Oak veneer) Tj
(Colour: \(natural\)) '
ET`)

	assert.Equal(t, []string{
		"3 10-201-AB 1,000",
		"Stacked Storage System/Plinth",
		"Material: Oak veneer",
		"Colour: (natural)",
	}, streamLines(stream))
}

func TestDecodePDFString(t *testing.T) {
	assert.Equal(t, "a(b)c", decodePDFString([]byte(`a\(b\)c`)))
	assert.Equal(t, "A B", decodePDFString([]byte(`\101\040B`)))
	assert.Equal(t, "Größe", decodePDFString([]byte(`Gr\366\337e`)))
}

func TestLinesDispatch(t *testing.T) {
	lines, err := Lines([]byte("a\nb"), TXT)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)
}
