package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/finopskit/master-budget/pkg/mathutil"
)

// NotAvailable is displayed wherever a budget figure is undefined, such as a
// contribution ratio with zero selling price.
const NotAvailable = "n/a"

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return NotAvailable
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return NotAvailable
	}
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	return sign + formatted
}

// Percent renders a 0-100 scale percentage (e.g., "60.0%").
func Percent(value float64) string {
	if !mathutil.IsFinite(value) {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", value)
}

// Quantity renders a unit count, dropping the decimals when the value is
// whole. Fractional production quantities are legitimate and kept.
func Quantity(value float64) string {
	if !mathutil.IsFinite(value) {
		return NotAvailable
	}
	if value == math.Trunc(value) {
		return fmt.Sprintf("%.0f", value)
	}
	return fmt.Sprintf("%.2f", value)
}

// Ratio renders a unitless ratio such as the P/V ratio.
func Ratio(value float64) string {
	if !mathutil.IsFinite(value) {
		return NotAvailable
	}
	return fmt.Sprintf("%.4f", value)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
