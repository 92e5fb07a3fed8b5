package energy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad toml", `sources = [`},
		{"unknown layout", `layout = "diagonal"`},
		{"unknown area", "[[devices]]\nid = \"a\"\nvalue = 1\narea = \"attic\""},
		{"unknown floor", "[[areas]]\nid = \"attic\"\nfloor = \"roof\""},
		{"duplicate device", "[[devices]]\nid = \"a\"\n[[devices]]\nid = \"a\""},
		{"reserved area", "[[areas]]\nid = \"no_area\""},
		{"own parent", "[[devices]]\nid = \"a\"\nparent = \"a\""},
		{"empty device id", "[[devices]]\nvalue = 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse(strings.NewReader(`title = "x"`))
	if err != nil {
		t.Fatal(err)
	}
	if !s.groupByArea() || !s.groupByFloor() {
		t.Error("grouping should default to on")
	}
	if s.Sources.HasGrid() || s.Sources.HasSolar() || s.Sources.HasBattery() || s.Sources.HasGridReturn() {
		t.Errorf("no sources configured, got %+v", s.Sources)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "today.toml")
	if err := os.WriteFile(path, []byte(houseTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(s.Devices) != 4 || s.Floors[1].Level == nil || *s.Floors[1].Level != 1 {
		t.Errorf("unexpected summary %+v", s)
	}

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}
