package fonts

import "unicode"

// Table estimates text width from average character proportions of a
// sans-serif face. Widths are in em units scaled by the font size.
type Table struct {
	// CharWidth overrides the width of an average lowercase letter, in em.
	// Zero uses 0.55.
	CharWidth float64
}

const (
	defaultCharWidth = 0.55
	narrowRatio      = 0.5 // i, l, punctuation
	wideRatio        = 1.6 // m, w
	upperRatio       = 1.25
	spaceRatio       = 0.5
)

// TextWidth returns the estimated width of text in pixels at fontSize.
func (t Table) TextWidth(text string, fontSize float64) float64 {
	cw := t.CharWidth
	if cw <= 0 {
		cw = defaultCharWidth
	}
	var ems float64
	for _, r := range text {
		ems += cw * ratio(r)
	}
	return ems * fontSize
}

func ratio(r rune) float64 {
	switch {
	case r == ' ':
		return spaceRatio
	case r == 'i' || r == 'l' || r == 'j' || r == '.' || r == ',' || r == '\'' || r == '|' || r == '!':
		return narrowRatio
	case r == 'm' || r == 'w' || r == 'M' || r == 'W':
		return wideRatio
	case unicode.IsUpper(r):
		return upperRatio
	}
	return 1
}
