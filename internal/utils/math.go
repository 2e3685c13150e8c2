package utils

import "math"

// Clamp01 limits t to [0,1]. NaN maps to 0.
func Clamp01(t float64) float64 {
	if t > 1 {
		return 1
	}
	if t >= 0 {
		return t
	}
	return 0
}

// EaseInQuart is t⁴.
func EaseInQuart(t float64) float64 {
	return t * t * t * t
}

// EaseOutQuart is 1-(1-t)⁴.
func EaseOutQuart(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u*u
}

// Alpha converts a [0,1] intensity into an 8-bit alpha, truncating like the
// renderer expects.
func Alpha(t float64) uint8 {
	return uint8(math.Floor(255 * Clamp01(t)))
}

// FloorDiv is floor(a/b) as an int. b must be positive.
func FloorDiv(a, b float64) int {
	return int(math.Floor(a / b))
}
