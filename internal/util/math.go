package util

import "math"

// FloatEquals compares a and b. A tolerance of 0 means exact equality.
func FloatEquals(a, b, tolerance float64) bool {
	if tolerance <= 0 {
		return a == b
	}
	return math.Abs(a-b) <= tolerance
}

// Sign returns 1 for positive, -1 for negative and 0 for zero values
func Sign(value float64) int {
	switch {
	case value > 0:
		return 1
	case value < 0:
		return -1
	default:
		return 0
	}
}
