package output

import (
	"math"
	"strconv"
	"strings"
)

const floatPrecision = 1e6

// RoundFloat rounds to at most 6 decimal places.
func RoundFloat(f float64) float64 {
	return math.Round(f*floatPrecision) / floatPrecision
}

// FormatFloat renders f rounded, without trailing zeros: 0.5, 1, 0.333333.
func FormatFloat(f float64) string {
	str := strconv.FormatFloat(RoundFloat(f), 'f', 6, 64)
	str = strings.TrimRight(str, "0")
	return strings.TrimSuffix(str, ".")
}
