// Package fonts measures label text for chart layout.
//
// Two measurers are provided. [Face] shapes text with a real TrueType font
// (the Go fonts shipped with golang.org/x/image) and is what [Default]
// returns. [Table] approximates widths from per-character ratios and needs
// no font data, which makes it handy in tests and for callers that want
// layout output independent of font metrics.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontFamily is the CSS font-family used for chart labels. Go Regular is
// listed first so browsers that have it render what [Default] measured.
const FontFamily = `'Go', Roboto, 'Helvetica Neue', Arial, sans-serif`

// referenceSize is the size faces are built at. Widths at other sizes are
// scaled linearly, which is exact with hinting disabled.
const referenceSize = 64.0

// Face measures text with a parsed TrueType font. It is safe for concurrent
// use. The zero value is not usable; construct one with [NewFace].
type Face struct {
	ttf []byte

	once sync.Once
	err  error

	mu   sync.Mutex // font.Face is not safe for concurrent use
	face font.Face
}

// NewFace returns a measurer for the TrueType font in ttf. Parsing happens
// on first use.
func NewFace(ttf []byte) *Face {
	return &Face{ttf: ttf}
}

var (
	regular = NewFace(goregular.TTF)
	bold    = NewFace(gobold.TTF)
)

// Default returns the measurer used when none is configured: Go Regular.
func Default() *Face { return regular }

// Bold returns a measurer for Go Bold.
func Bold() *Face { return bold }

func (f *Face) load() error {
	f.once.Do(func() {
		parsed, err := opentype.Parse(f.ttf)
		if err != nil {
			f.err = fmt.Errorf("parse font: %w", err)
			return
		}
		f.face, f.err = opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    referenceSize,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	})
	return f.err
}

// Err reports whether the font could be loaded.
func (f *Face) Err() error { return f.load() }

// TextWidth returns the advance width of text in pixels at fontSize. If the
// font cannot be loaded it falls back to [Table] metrics.
func (f *Face) TextWidth(text string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	if err := f.load(); err != nil {
		return Table{}.TextWidth(text, fontSize)
	}
	f.mu.Lock()
	adv := font.MeasureString(f.face, text)
	f.mu.Unlock()
	return fixedToFloat(adv) * fontSize / referenceSize
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
