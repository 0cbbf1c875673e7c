// Package extract turns exported documents into the ordered plain-text lines
// the parser folds over.
package extract

import (
	"errors"
	"strings"
)

var (
	// ErrNoText is returned when a document decodes but yields no text.
	ErrNoText = errors.New("no text content found")
	// ErrNotText is returned by Text for binary input.
	ErrNotText = errors.New("input is not text")
)

// Kind is the container format of an input document.
type Kind string

const (
	PDF  Kind = "pdf"
	XLS  Kind = "xls"
	XLSX Kind = "xlsx"
	TXT  Kind = "txt"
)

// Lines extracts the text lines of a document of the given kind.
func Lines(data []byte, kind Kind) ([]string, error) {
	switch kind {
	case PDF:
		return PDFLines(data)
	case XLS:
		return XLSLines(data)
	case XLSX:
		return XLSXLines(data)
	default:
		return Text(data)
	}
}

// joinCells renders a spreadsheet row as one line, skipping empty cells.
func joinCells(row []string) string {
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		if cell = strings.TrimSpace(cell); cell != "" {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, " ")
}

func hasText(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}
