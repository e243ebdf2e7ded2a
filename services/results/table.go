package results

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table writes the coupons as a numbered table.
func (e Export) Table(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Coupon"})
	for i, url := range e.Coupons {
		t.AppendRow(table.Row{i + 1, url})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d unique coupons", len(e.Coupons))})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
