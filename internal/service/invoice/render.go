package invoice

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

// DateLayout — формат даты в счёте.
const DateLayout = "2006-01-02 15:04:05 MST"

// Render печатает счёт в текстовом виде.
func Render(w io.Writer, order domain.Order) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Invoice: %s\n", order.ID)
	fmt.Fprintf(tw, "Date: %s\n", order.Date.In(time.Local).Format(DateLayout))
	fmt.Fprintf(tw, "Customer: %s\n", order.ShippingName)
	fmt.Fprintf(tw, "Address: %s\n", order.ShippingAddress)
	fmt.Fprintf(tw, "Phone: %s\n\n", order.ShippingPhone)

	fmt.Fprintln(tw, "#\tProduct\tQty\tUnit\tLine\t")
	for i, item := range order.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t\n",
			i+1, item.Name, item.Quantity, FormatJMD(item.UnitPrice), FormatJMD(item.LineTotal()))
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Subtotal:\t%s\t\n", FormatJMD(order.Subtotal))
	fmt.Fprintf(tw, "Discount:\t%s\t\n", FormatJMD(order.Discount))
	fmt.Fprintf(tw, "Tax:\t%s\t\n", FormatJMD(order.Tax))
	fmt.Fprintf(tw, "Total:\t%s\t\n", FormatJMD(order.Total))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Thank you for shopping with us.")

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write invoice: %w", err)
	}
	return nil
}

// FormatJMD форматирует сумму с разделителем тысяч: "JMD 112,500".
func FormatJMD(amount int64) string {
	return "JMD " + groupDigits(amount)
}

func groupDigits(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + digits
	}

	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	out := make([]byte, 0, len(digits)+len(digits)/3)
	out = append(out, digits[:head]...)
	for i := head; i < len(digits); i += 3 {
		out = append(out, ',')
		out = append(out, digits[i:i+3]...)
	}
	return sign + string(out)
}
