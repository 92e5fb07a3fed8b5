package energy

import (
	"math"
	"strconv"
)

// Unit is the unit of every value in a summary.
const Unit = "kWh"

// FormatKWh formats v for tooltips with at most three fraction digits,
// e.g. "0.042 kWh" or "12.5 kWh".
func FormatKWh(v float64) string {
	return formatNumber(v, 3) + " " + Unit
}

// formatNumber rounds v to at most digits fraction digits and drops
// trailing zeros.
func formatNumber(v float64, digits int) string {
	p := math.Pow(10, float64(digits))
	r := math.Round(v*p) / p
	if r == 0 {
		r = 0 // no "-0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
