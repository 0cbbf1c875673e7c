package compare

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Equal compares a freshly rendered output file with the copy already on
// disk. Workbooks are compared by sheet names and cell values, since the
// zip container and document properties differ between two renders of the
// same table. Every other file is compared byte for byte.
func Equal(path string, local, remote []byte) bool {
	if local == nil || remote == nil {
		return false
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return bytes.Equal(local, remote)
	}

	a, err := cells(local)
	if err != nil {
		return false
	}
	b, err := cells(remote)
	if err != nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for sheet, rows := range a {
		other, ok := b[sheet]
		if !ok || !slices.EqualFunc(rows, other, slices.Equal[[]string]) {
			return false
		}
	}
	return true
}

func cells(data []byte) (map[string][][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make(map[string][][]string)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		out[sheet] = rows
	}
	return out, nil
}
