package csv

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/yurifrl/pconv/pkg/projection"
)

// Record is the read side of an item record that filters look at.
type Record interface {
	ItemNumber() string
	ProductName() string
	Quantity() int
}

type FilterFunc[T Record] func(T) bool

// Filter keeps the records accepted by filter, in order.
func Filter[T Record](records []T, filter FilterFunc[T]) []T {
	if filter == nil {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if filter(r) {
			out = append(out, r)
		}
	}
	return out
}

// Items renders the item-quantity table without a header row.
func Items(p projection.Projection) ([]byte, error) {
	var buf bytes.Buffer
	if len(p.Items) == 0 {
		return buf.Bytes(), nil
	}
	if err := gocsv.MarshalWithoutHeaders(p.Items, &buf); err != nil {
		return nil, fmt.Errorf("failed to marshal items: %w", err)
	}
	return buf.Bytes(), nil
}

// Detailed renders the detailed table with its header row.
func Detailed(p projection.Projection) ([]byte, error) {
	if len(p.Detailed) == 0 {
		return []byte(strings.Join(projection.DetailedHeader, ",") + "\n"), nil
	}
	out, err := gocsv.MarshalBytes(p.Detailed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal detailed rows: %w", err)
	}
	return out, nil
}
