// Package receipt renders the printable bill of an order as plain text.
package receipt

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/lairai/internal/config"
	"github.com/Alturino/lairai/internal/format"
	"github.com/Alturino/lairai/pkg/response"
)

const width = 40

var rule = strings.Repeat("-", width)

// Render writes the bill of order. Lines are priced at order time; the total
// is the backend total of the order.
func Render(
	w io.Writer,
	order response.Order,
	restaurant config.Restaurant,
	f *format.Formatter,
	printedAt time.Time,
) error {
	b := &strings.Builder{}

	center(b, restaurant.Name)
	center(b, restaurant.Address)
	if restaurant.Phone != "" {
		center(b, "ĐT: "+restaurant.Phone)
	}
	fmt.Fprintln(b, rule)

	tw := tabwriter.NewWriter(b, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Hóa đơn:\t#%d\n", order.ID)
	fmt.Fprintf(tw, "Bàn:\t%s\n", format.TableName(order))
	fmt.Fprintf(tw, "Giờ vào:\t%s\n", f.DateTime(order.CheckIn))
	if order.CheckOut != nil {
		fmt.Fprintf(tw, "Giờ ra:\t%s\n", f.DateTime(*order.CheckOut))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed rendering receipt header with error=%w", err)
	}
	fmt.Fprintln(b, rule)

	subtotal := decimal.Zero
	tw = tabwriter.NewWriter(b, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Món\tSL\tGiá\tT.tiền\t")
	for _, item := range order.Items {
		name := item.Name()
		if name == "" {
			name = fmt.Sprintf("Món #%d", item.MenuItemID)
		}
		subtotal = subtotal.Add(item.LineTotal())
		fmt.Fprintf(
			tw,
			"%s\t%d\t%s\t%s\t\n",
			name,
			item.Quantity,
			f.Currency(item.PriceAtOrderTime),
			f.Currency(item.LineTotal()),
		)
		if note := item.NoteText(); note != "" {
			fmt.Fprintf(tw, "  (%s)\t\t\t\t\n", note)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed rendering receipt items with error=%w", err)
	}
	fmt.Fprintln(b, rule)

	tw = tabwriter.NewWriter(b, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Tạm tính:\t%s\t\n", f.Currency(subtotal))
	fmt.Fprintf(tw, "VAT (0%%):\t%s\t\n", f.Currency(decimal.Zero))
	fmt.Fprintf(tw, "TỔNG CỘNG:\t%s\t\n", f.Currency(order.Total()))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed rendering receipt totals with error=%w", err)
	}
	fmt.Fprintln(b, rule)

	center(b, "Cảm ơn quý khách!")
	center(b, "Hẹn gặp lại")
	center(b, "In lúc: "+f.DateTime(printedAt))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed writing receipt with error=%w", err)
	}
	return nil
}

func center(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	pad := (width - len([]rune(text))) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(b, "%s%s\n", strings.Repeat(" ", pad), text)
}
