package exporter

import (
	"strconv"
)

// formatFloat formats a value with the fewest digits that read back exactly
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
