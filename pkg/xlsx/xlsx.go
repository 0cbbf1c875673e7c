// Package xlsx writes the output tables as single-sheet workbooks.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/pconv/pkg/projection"
)

const (
	// Sheet is the name of the only sheet in every workbook.
	Sheet = "Sheet1"

	ItemsFilename    = "item_numbers_and_quantities.xlsx"
	DetailedFilename = "detailed_product_list.xlsx"
)

// Row is anything that renders as one spreadsheet row.
type Row interface {
	Cells() []any
}

// Workbook writes an optional header followed by rows, starting at A1.
func Workbook[R Row](header []string, rows []R) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	rowIdx := 1
	if len(header) > 0 {
		cells := make([]any, len(header))
		for i, h := range header {
			cells[i] = h
		}
		if err := setRow(f, rowIdx, cells); err != nil {
			return nil, err
		}
		rowIdx++
	}
	for _, r := range rows {
		if err := setRow(f, rowIdx, r.Cells()); err != nil {
			return nil, err
		}
		rowIdx++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func setRow(f *excelize.File, rowIdx int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(Sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowIdx, err)
	}
	return nil
}

// Items is the item-quantity workbook, without a header row.
func Items(p projection.Projection) ([]byte, error) {
	buf, err := Workbook[projection.ItemQuantityRow](nil, p.Items)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Detailed is the detailed workbook, with projection.DetailedHeader.
func Detailed(p projection.Projection) ([]byte, error) {
	buf, err := Workbook(projection.DetailedHeader, p.Detailed)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
