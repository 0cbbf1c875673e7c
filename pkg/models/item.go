package models

import (
	"errors"
	"strings"
)

// ErrSealed is returned when a sealed record is mutated.
var ErrSealed = errors.New("item record is sealed")

// DetailSeparator joins detail fragments.
const DetailSeparator = ", "

// ItemRecord is one physical order line of a configurator export. Item number
// and quantity are fixed at creation; product name and details only grow until
// the record is sealed.
type ItemRecord struct {
	itemNumber  string
	quantity    int
	productName string
	details     string
	line        int
	ambiguous   bool
	nameLines   int
	sealed      bool
}

// NewItem opens a record for the header found on the given 1-based line.
func NewItem(itemNumber string, quantity, line int) *ItemRecord {
	return &ItemRecord{
		itemNumber: itemNumber,
		quantity:   quantity,
		line:       line,
	}
}

// MarkAmbiguous flags the quantity as locale-ambiguous.
func (r *ItemRecord) MarkAmbiguous() *ItemRecord {
	r.ambiguous = true
	return r
}

// AppendName adds a product-name fragment, joined to the existing name with sep.
func (r *ItemRecord) AppendName(fragment, sep string) error {
	if r.sealed {
		return ErrSealed
	}
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil
	}
	if r.productName == "" {
		r.productName = fragment
	} else {
		r.productName += sep + fragment
	}
	r.nameLines++
	return nil
}

// AppendDetail adds a detail fragment, comma-joined.
func (r *ItemRecord) AppendDetail(fragment string) error {
	if r.sealed {
		return ErrSealed
	}
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil
	}
	if r.details == "" {
		r.details = fragment
	} else {
		r.details += DetailSeparator + fragment
	}
	return nil
}

// Seal makes the record read-only.
func (r *ItemRecord) Seal() { r.sealed = true }

func (r *ItemRecord) Sealed() bool        { return r.sealed }
func (r *ItemRecord) ItemNumber() string  { return r.itemNumber }
func (r *ItemRecord) Quantity() int       { return r.quantity }
func (r *ItemRecord) ProductName() string { return r.productName }
func (r *ItemRecord) Details() string     { return r.details }
func (r *ItemRecord) Line() int           { return r.line }
func (r *ItemRecord) Ambiguous() bool     { return r.ambiguous }

// NameLines is the number of fragments the product name was built from.
func (r *ItemRecord) NameLines() int { return r.nameLines }

// HasName reports whether the record carries a product name. Records without
// one are not real items and never reach the outputs.
func (r *ItemRecord) HasName() bool { return r.productName != "" }
