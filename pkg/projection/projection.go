// Package projection derives the output tables and display text from a
// sealed record sequence. Everything here is a pure function of the records.
package projection

import (
	"strings"

	"github.com/yurifrl/pconv/pkg/format"
	"github.com/yurifrl/pconv/pkg/models"
)

// DetailedHeader is the header row of the detailed table.
var DetailedHeader = []string{"Item Number", "Product Name", "Quantity"}

// ItemQuantityRow is one row of the item-quantity table.
type ItemQuantityRow struct {
	ItemNumber string `csv:"item_number" json:"item_number"`
	Quantity   int    `csv:"quantity" json:"quantity"`
}

func (r ItemQuantityRow) Cells() []any {
	return []any{r.ItemNumber, r.Quantity}
}

// DetailedRow is one row of the detailed table.
type DetailedRow struct {
	ItemNumber  string `csv:"Item Number" json:"item_number"`
	ProductName string `csv:"Product Name" json:"product_name"`
	Quantity    int    `csv:"Quantity" json:"quantity"`
}

func (r DetailedRow) Cells() []any {
	return []any{r.ItemNumber, r.ProductName, r.Quantity}
}

// Projection holds both tables and the display text, in record order.
type Projection struct {
	Items    []ItemQuantityRow
	Detailed []DetailedRow
	Lines    []string
	Display  string
}

// Len is the number of projected records.
func (p Projection) Len() int {
	return len(p.Items)
}

// Project builds the outputs. Records without a product name are skipped.
func Project(records []*models.ItemRecord) Projection {
	p := Projection{
		Items:    make([]ItemQuantityRow, 0, len(records)),
		Detailed: make([]DetailedRow, 0, len(records)),
		Lines:    make([]string, 0, len(records)),
	}
	for _, rec := range records {
		if rec == nil || !rec.HasName() {
			continue
		}
		name := format.Name(rec.ProductName())
		p.Items = append(p.Items, ItemQuantityRow{
			ItemNumber: rec.ItemNumber(),
			Quantity:   rec.Quantity(),
		})
		p.Detailed = append(p.Detailed, DetailedRow{
			ItemNumber:  rec.ItemNumber(),
			ProductName: format.FirstSegment(name),
			Quantity:    rec.Quantity(),
		})
		p.Lines = append(p.Lines, format.Display(rec.Quantity(), rec.ProductName(), rec.Details()))
	}
	p.Display = strings.Join(p.Lines, "\n")
	return p
}
