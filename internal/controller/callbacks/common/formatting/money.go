package formatting

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney форматирует сумму в лирах с разделением разрядов.
// Дробная часть показывается только если она не нулевая.
func FormatMoney(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	negative := d.IsNegative()

	intPart, fraction, _ := strings.Cut(d.Abs().StringFixed(2), ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if fraction != "00" {
		b.WriteByte(',')
		b.WriteString(fraction)
	}
	b.WriteString(" ₺")
	return b.String()
}
