package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/yurifrl/pconv/pkg/csv"
	"github.com/yurifrl/pconv/pkg/models"
	"github.com/yurifrl/pconv/pkg/service"
)

type filters struct {
	item   string
	minQty int
	maxQty int
	name   string
}

func (f *filters) toFilterFunc() csv.FilterFunc[*models.ItemRecord] {
	return func(r *models.ItemRecord) bool {
		if f.item != "" && !strings.HasPrefix(strings.ToLower(r.ItemNumber()), strings.ToLower(f.item)) {
			return false
		}
		if f.minQty != 0 && r.Quantity() < f.minQty {
			return false
		}
		if f.maxQty != 0 && r.Quantity() > f.maxQty {
			return false
		}
		if f.name != "" && !strings.Contains(strings.ToLower(r.ProductName()), strings.ToLower(f.name)) {
			return false
		}
		return true
	}
}

// printOutput writes the display block of a converted document to stdout.
func printOutput(out *service.Output) {
	if out.Projection.Display == "" {
		return
	}
	fmt.Fprintf(os.Stdout, "# %s\n%s\n", out.Source, out.Projection.Display)
}
