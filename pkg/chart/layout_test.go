package chart

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/fonts"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

func sampleResult(t *testing.T) sankey.Result {
	t.Helper()
	c, err := UnmarshalChart([]byte(sampleHuJSON))
	if err != nil {
		t.Fatal(err)
	}
	return sankey.Layout(c.Data(), sankey.Options{Width: 600, Height: 300, Measurer: fonts.Table{}})
}

func TestLayoutRoundTrip(t *testing.T) {
	res := sampleResult(t)
	l := Export(res)

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if !reflect.DeepEqual(l, back) {
		t.Fatal("layout changed through JSON")
	}

	rebuilt, err := back.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if !reflect.DeepEqual(rebuilt.Nodes, res.Nodes) {
		t.Error("nodes differ after round trip")
	}
	if !reflect.DeepEqual(rebuilt.Links, res.Links) {
		t.Error("links differ after round trip")
	}
	for i := range res.Paths {
		if rebuilt.Paths[i].D() != res.Paths[i].D() {
			t.Errorf("path %d differs after round trip", i)
		}
	}
	if len(rebuilt.Sections) != len(res.Sections) {
		t.Errorf("got %d sections, want %d", len(rebuilt.Sections), len(res.Sections))
	}
	for i := range res.Sections {
		if rebuilt.Sections[i].Offset != res.Sections[i].Offset {
			t.Errorf("section %d offset = %v, want %v", i, rebuilt.Sections[i].Offset, res.Sections[i].Offset)
		}
	}
}

func TestExportPassThrough(t *testing.T) {
	l := Export(sampleResult(t))
	var found bool
	for _, n := range l.Nodes {
		if n.PassThrough {
			found = true
		}
	}
	if found {
		t.Error("sample has no spanning links, found pass-through node")
	}
	for _, p := range l.Paths {
		if p.D == "" || len(p.Commands) == 0 {
			t.Errorf("ribbon %s -> %s has no geometry", p.Source, p.Target)
		}
	}
}

func TestLayoutFile(t *testing.T) {
	l := Export(sampleResult(t))
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if !reflect.DeepEqual(l, back) {
		t.Error("layout changed through file")
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	if _, err := UnmarshalLayout([]byte(`{`)); !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("syntax error = %v", err)
	}
	if _, err := UnmarshalLayout([]byte(`{"width": 0, "height": 10}`)); !errors.Is(err, errors.ErrCodeInvalidDimension) {
		t.Errorf("dimension error = %v", err)
	}
}

func TestResultUnknownRibbonNode(t *testing.T) {
	l := Layout{Width: 10, Height: 10, Paths: []Ribbon{{Source: "a", Target: "b"}}}
	if _, err := l.Result(); err == nil {
		t.Error("expected error for ribbon referencing unknown nodes")
	}
}
