package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pricePrinter = message.NewPrinter(language.Russian)

// FormatPrice форматирует цену с разделением разрядов: 12 000 000.
// Неразрывные пробелы локали заменяются обычными.
func FormatPrice(price float64) string {
	formatted := pricePrinter.Sprint(number.Decimal(price, number.MaxFractionDigits(0)))
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Zs, r) {
			return ' '
		}
		return r
	}, formatted)
}
