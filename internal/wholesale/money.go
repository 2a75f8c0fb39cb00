package wholesale

import "math"

// DecimalToCents converts a decimal currency amount to int64 minor
// units, rounding to the nearest cent. Rounding (rather than
// truncating) avoids floating-point artifacts like 19.99 * 100 =
// 1998.9999....
func DecimalToCents(f float64) int64 {
	return int64(math.Round(f * 100))
}

// CentsToDecimal converts int64 minor units to a decimal amount.
func CentsToDecimal(c int64) float64 {
	return float64(c) / 100.0
}
