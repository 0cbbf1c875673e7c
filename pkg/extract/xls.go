package extract

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

const maxXLSRows = 10000

// XLSLines reads every sheet of a legacy Excel export, one line per row.
func XLSLines(data []byte) ([]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data found in workbook", ErrNoText)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, joinCells(row))
	}
	return lines, nil
}
