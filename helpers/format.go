package helpers

import (
	"fmt"
	"math"
)

// FormatIndex formats a search-interest index value for human-readable
// output. Whole numbers render without decimals.
func FormatIndex(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d", int64(value))
	}
	return fmt.Sprintf("%.1f", value)
}

// FormatCoefficient formats a correlation coefficient, or "n/a" for an
// undefined (zero-variance) pair.
func FormatCoefficient(coef *float64) string {
	if coef == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *coef)
}

// FormatSpikeMessage builds the human-readable spike alert line used in
// webhook payloads.
func FormatSpikeMessage(brand string, value, zScore float64) string {
	return fmt.Sprintf("%s search interest hit %s (%.1fσ above baseline)",
		brand, FormatIndex(value), zScore)
}
