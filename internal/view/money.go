package view

import "strconv"

// formatMoney renders a raw float total with two decimals for display.
// The underlying value keeps full precision; only the view rounds.
func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
