package utils

import "math"

// Round2 rounds to two decimal places, half away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToMinorUnits converts a rupee amount to paise
func ToMinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}

// IsFiniteNonNegative reports whether v is a usable money amount
func IsFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
