package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a decimal amount with thousand separators and two
// decimal places, for human-facing notifications.
func FormatAmount(amount decimal.Decimal) string {
	formatted := amount.StringFixed(2)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	negative := strings.HasPrefix(integerPart, "-")
	if negative {
		integerPart = integerPart[1:]
	}

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	result := strings.Join(groups, ",") + "." + decimalPart
	if negative {
		result = "-" + result
	}
	return result
}
