package utils

import "math"

// Round1 rounds x to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
