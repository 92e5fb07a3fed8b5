package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Render dimension bounds, in pixels.
const (
	MinDimension = 50
	MaxDimension = 10000
)

// ValidateDimensions checks that a chart size is finite and within
// [MinDimension, MaxDimension] on both axes.
func ValidateDimensions(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return New(ErrCodeInvalidDimension, "%s must be a finite number", d.name)
		}
		if d.v < MinDimension || d.v > MaxDimension {
			return New(ErrCodeInvalidDimension, "%s must be between %d and %d, got %g", d.name, MinDimension, MaxDimension, d.v)
		}
	}
	return nil
}

// nodeIDRegex rejects whitespace-only and control-character ids. Anything
// printable is accepted since ids come from entity names.
var nodeIDRegex = regexp.MustCompile(`\S`)

// ValidateNodeID validates a chart node id.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidChart, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidChart, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidChart, "node id contains invalid control characters")
		}
	}

	return nil
}

// chartIDRegex matches canonical UUID strings as issued by the chart store.
var chartIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateChartID validates a stored chart identifier.
func ValidateChartID(id string) error {
	if !chartIDRegex.MatchString(strings.ToLower(id)) {
		return New(ErrCodeInvalidID, "invalid chart id: %q", id)
	}
	return nil
}
