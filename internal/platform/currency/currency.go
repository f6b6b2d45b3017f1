// Package currency renders monetary amounts the way the storefront shows
// them everywhere: Brazilian Real, pt-BR conventions. The same formatter is
// used for JSON payloads and for the outbound order message so the two can
// never drift apart.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount of centavos as a pt-BR currency string,
// e.g. 3980 -> "R$ 39,80".
func FormatBRL(cents int64) string {
	return printer.Sprintf("R$ %.2f", float64(cents)/100)
}

// ParseBRLUnits converts a decimal amount of reais into centavos, rounding
// half away from zero. Catalog files carry prices as decimals; everything
// downstream works in integer minor units.
func ParseBRLUnits(units float64) int64 {
	if units >= 0 {
		return int64(units*100 + 0.5)
	}
	return int64(units*100 - 0.5)
}
