package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var idr = message.NewPrinter(language.Indonesian)

// FormatCurrency renders an amount in rupiah with Indonesian digit grouping.
func FormatCurrency(v float64) string {
	return idr.Sprintf("Rp %v", number.Decimal(v, number.MaxFractionDigits(2)))
}

func FormatQuantity(q int) string {
	return idr.Sprintf("%v", number.Decimal(q))
}
