package utils

import (
	"fmt"
	"math"
	"strings"
)

// ToCents converts a decimal amount to integer minor units, rounding half
// away from zero. Totals are summed in cents so they stay exact.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// FormatCurrency formats an amount in rupees with thousands separators.
// Example: 1234.5 -> "₹1,234.50"
func FormatCurrency(amount float64) string {
	s := FormatAmount(amount)
	if strings.HasPrefix(s, "-") {
		return "-₹" + s[1:]
	}
	return "₹" + s
}

// FormatAmount is FormatCurrency without the currency symbol.
func FormatAmount(amount float64) string {
	cents := ToCents(amount)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	integerPart := fmt.Sprintf("%d", cents/100)
	decimalPart := fmt.Sprintf("%02d", cents%100)

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return sign + strings.Join(groups, ",") + "." + decimalPart
}
