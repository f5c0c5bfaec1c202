package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"AED": "AED ",
}

// FormatMoney formats an amount like "$12,500.00".
// Uses comma as thousands separator and always two decimals.
func FormatMoney(amount decimal.Decimal, currency string) string {
	neg := amount.IsNegative()
	if neg {
		amount = amount.Neg()
	}

	s := amount.StringFixed(2)
	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}

	var b strings.Builder
	// Pre-allocate: digits + separators + symbol + fraction
	b.Grow(len(intPart) + len(intPart)/3 + len(symbol) + len(fracPart) + 1)
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(symbol)

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	if rem > len(intPart) {
		rem = len(intPart)
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(fracPart)

	return b.String()
}
