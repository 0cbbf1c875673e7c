package extract

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFLines returns the text rows of every page, top to bottom. Row grouping
// comes from the glyph positions; documents the row reader cannot decode are
// retried by walking the page content streams.
func PDFLines(data []byte) ([]string, error) {
	lines, err := pdfRows(data)
	if err == nil && hasText(lines) {
		return lines, nil
	}

	fallback, ferr := pdfStreamLines(data)
	if ferr != nil {
		if err != nil {
			return nil, fmt.Errorf("pdf read: %w", err)
		}
		return nil, fmt.Errorf("pdfcpu read: %w", ferr)
	}
	if !hasText(fallback) {
		return nil, fmt.Errorf("%w: pdf has no extractable text", ErrNoText)
	}
	return fallback, nil
}

func pdfRows(data []byte) (lines []string, err error) {
	// The row reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		for _, row := range rows {
			lines = append(lines, joinWords(row.Content))
		}
	}
	return lines, nil
}

// joinWords concatenates the text runs of a row, inserting a space where the
// horizontal gap between two runs is wider than a fraction of the font size.
func joinWords(words []pdf.Text) string {
	var sb strings.Builder
	for i, w := range words {
		if i > 0 {
			prev := words[i-1]
			gap := w.X - (prev.X + prev.W)
			if gap > prev.FontSize*0.15 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(w.S, " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(w.S)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func pdfStreamLines(data []byte) ([]string, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}

	var lines []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		lines = append(lines, streamLines(content)...)
	}
	return lines, nil
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// streamLines walks text operators of a content stream. Text shown between
// two line moves (T*, ', or a Td/TD with a vertical offset) forms one line.
func streamLines(data []byte) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		lines = append(lines, strings.Join(strings.Fields(cur.String()), " "))
		cur.Reset()
	}

	for _, op := range bytes.Split(data, []byte{'\n'}) {
		op = bytes.TrimSpace(op)
		switch {
		case len(op) == 0:
		case bytes.Equal(op, []byte("T*")), bytes.Equal(op, []byte("ET")):
			flush()
		case bytes.HasSuffix(op, []byte("Td")), bytes.HasSuffix(op, []byte("TD")):
			fields := strings.Fields(string(op))
			if len(fields) >= 3 {
				if ty, err := strconv.ParseFloat(fields[len(fields)-2], 64); err == nil && ty != 0 {
					flush()
					continue
				}
			}
			cur.WriteByte(' ')
		case bytes.HasSuffix(op, []byte("'")) && bytes.Contains(op, []byte("(")):
			flush()
			writeStrings(&cur, op)
		case bytes.HasSuffix(op, []byte("Tj")), bytes.HasSuffix(op, []byte("TJ")):
			writeStrings(&cur, op)
		}
	}
	if cur.Len() > 0 {
		flush()
	}
	return compactBlankRuns(lines)
}

func writeStrings(sb *strings.Builder, op []byte) {
	for _, m := range pdfStringRe.FindAllSubmatch(op, -1) {
		sb.WriteString(decodePDFString(m[1]))
	}
}

// compactBlankRuns drops repeated empty lines produced by consecutive moves.
func compactBlankRuns(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, l := range lines {
		if l == "" && (i == 0 || lines[i-1] == "") {
			continue
		}
		out = append(out, l)
	}
	return out
}

// decodePDFString handles basic PDF escape sequences. Bytes are read as
// Latin-1, which covers the simple fonts configurator exports embed.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteRune(rune(raw[i]))
			continue
		}
		i++
		switch raw[i] {
		case 'n', 'r', 't':
			sb.WriteByte(' ')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteRune(rune(raw[i]))
				continue
			}
			val := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteRune(rune(val & 0xff))
		}
	}
	return sb.String()
}
