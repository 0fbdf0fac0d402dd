package common

import "math"

// Round rounds x to the given number of decimal places, halves to even.
func Round(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.RoundToEven(x*pow) / pow
}
