package extract

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXLines reads every sheet of a workbook in sheet order, one line per row.
func XLSXLines(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			lines = append(lines, joinCells(row))
		}
	}
	if !hasText(lines) {
		return nil, fmt.Errorf("%w: workbook is empty", ErrNoText)
	}
	return lines, nil
}
