package fonts

import (
	"math"
	"sync"
	"testing"
)

func TestFaceTextWidth(t *testing.T) {
	f := Default()
	if err := f.Err(); err != nil {
		t.Fatalf("load default font: %v", err)
	}

	if got := f.TextWidth("", 12); got != 0 {
		t.Errorf("empty text width = %v, want 0", got)
	}
	if got := f.TextWidth("abc", 0); got != 0 {
		t.Errorf("zero size width = %v, want 0", got)
	}

	short := f.TextWidth("Grid", 12)
	long := f.TextWidth("Grid consumption", 12)
	if short <= 0 || long <= short {
		t.Errorf("widths not increasing: short=%v long=%v", short, long)
	}

	w12 := f.TextWidth("Solar", 12)
	w24 := f.TextWidth("Solar", 24)
	if math.Abs(w24-2*w12) > 1e-9 {
		t.Errorf("width should scale linearly: 12px=%v 24px=%v", w12, w24)
	}
}

func TestFaceBoldIsWider(t *testing.T) {
	r := Default().TextWidth("Battery", 12)
	b := Bold().TextWidth("Battery", 12)
	if b <= r {
		t.Errorf("bold width %v should exceed regular %v", b, r)
	}
}

func TestFaceBadFontFallsBack(t *testing.T) {
	f := NewFace([]byte("not a font"))
	if f.Err() == nil {
		t.Fatal("expected parse error")
	}
	want := Table{}.TextWidth("Home", 12)
	if got := f.TextWidth("Home", 12); got != want {
		t.Errorf("fallback width = %v, want %v", got, want)
	}
}

func TestFaceConcurrent(t *testing.T) {
	f := Default()
	want := f.TextWidth("concurrent", 12)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := f.TextWidth("concurrent", 12); got != want {
				t.Errorf("width = %v, want %v", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestTable(t *testing.T) {
	tests := []struct {
		name string
		text string
		size float64
		want float64
	}{
		{"empty", "", 12, 0},
		{"lowercase", "ab", 10, 2 * 0.55 * 10},
		{"narrow", "il", 10, 2 * 0.55 * 0.5 * 10},
		{"wide", "m", 10, 0.55 * 1.6 * 10},
		{"upper", "A", 10, 0.55 * 1.25 * 10},
		{"space", "a b", 10, (2 + 0.5) * 0.55 * 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Table{}.TextWidth(tt.text, tt.size)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TextWidth(%q, %v) = %v, want %v", tt.text, tt.size, got, tt.want)
			}
		})
	}
}

func TestTableCharWidth(t *testing.T) {
	got := Table{CharWidth: 1}.TextWidth("aaaa", 10)
	if got != 40 {
		t.Errorf("TextWidth = %v, want 40", got)
	}
}
