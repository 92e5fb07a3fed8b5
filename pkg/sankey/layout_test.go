package sankey

import (
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/fonts"
)

func energyData() Data {
	return Data{
		Nodes: []Node{
			{ID: "grid", Label: "Grid", Value: 7.2, Index: 0},
			{ID: "solar", Label: "Solar", Value: 4.1, Index: 0},
			{ID: "battery", Label: "Battery", Value: 0.4, Index: 0},
			{ID: "home", Label: "Home", Value: 9.5, Index: 1},
			{ID: "grid_return", Label: "Return to grid", Value: 2.2, Index: 2},
			{ID: "ground", Label: "Ground floor", Value: 6.1, Index: 2},
			{ID: "kitchen", Label: "Kitchen", Value: 3.8, Index: 3},
			{ID: "fridge", Label: "Fridge", Value: 1.2, Index: 4},
			{ID: "oven", Label: "Oven", Value: 2.4, Index: 4},
			{ID: "tv", Label: "TV", Value: 0.9, Index: 4},
			{ID: "untracked", Label: "Untracked consumption", Value: 0, Index: 5},
		},
		Links: []Link{
			{Source: "grid", Target: "home"},
			{Source: "solar", Target: "home", Value: Value(1.9)},
			{Source: "solar", Target: "grid_return"},
			{Source: "battery", Target: "home"},
			{Source: "home", Target: "ground"},
			{Source: "home", Target: "tv"},
			{Source: "ground", Target: "kitchen"},
			{Source: "kitchen", Target: "fridge"},
			{Source: "kitchen", Target: "oven"},
			{Source: "home", Target: "untracked"},
			{Source: "home", Target: "nowhere"},
		},
	}
}

func TestLayoutFiltersEmptyNodes(t *testing.T) {
	res := Layout(energyData(), Options{Width: 800, Height: 400, Measurer: fonts.Table{}})
	if _, ok := res.Node("untracked"); ok {
		t.Error("zero-valued node should be left out")
	}
	for _, l := range res.Links {
		if l.Target == "untracked" || l.Target == "nowhere" {
			t.Errorf("link to %s should be dropped", l.Target)
		}
	}
}

func TestLayoutInvariants(t *testing.T) {
	for _, vertical := range []bool{false, true} {
		res := Layout(energyData(), Options{Width: 800, Height: 400, Vertical: vertical, Measurer: fonts.Table{}})

		for _, n := range res.Nodes {
			if n.Size < MinSize {
				t.Errorf("vertical=%v: %s size %v below MinSize", vertical, n.ID, n.Size)
			}
		}

		in := make(map[string]float64)
		for _, l := range res.Links {
			in[l.Target] += l.Value
		}
		for _, n := range res.Nodes {
			if in[n.ID] > n.Value+1e-9 {
				t.Errorf("vertical=%v: inflow to %s = %v exceeds value %v", vertical, n.ID, in[n.ID], n.Value)
			}
		}

		if len(res.Paths) != len(res.Links) {
			t.Errorf("vertical=%v: %d paths for %d links", vertical, len(res.Paths), len(res.Links))
		}
	}
}

func TestLayoutPassThroughNodes(t *testing.T) {
	res := Layout(energyData(), Options{Width: 800, Height: 400, Measurer: fonts.Table{}})

	var link ProcessedLink
	for _, l := range res.Links {
		if l.Source == "home" && l.Target == "tv" {
			link = l
		}
	}
	want := []string{"home-tv-2", "home-tv-3"}
	if !slices.Equal(link.PassThroughNodeIDs, want) {
		t.Fatalf("pass-through ids = %v, want %v", link.PassThroughNodeIDs, want)
	}
	for _, id := range want {
		n, ok := res.Node(id)
		if !ok {
			t.Errorf("pass-through %s not laid out", id)
			continue
		}
		if !n.PassThrough || n.Value != link.Value {
			t.Errorf("pass-through %s = %+v", id, n)
		}
	}
}

func TestLayoutColumnsOrdered(t *testing.T) {
	res := Layout(energyData(), Options{Width: 800, Height: 400, Measurer: fonts.Table{}})
	var indexes []int
	for i, s := range res.Sections {
		indexes = append(indexes, s.Index)
		if i > 0 && s.Offset <= res.Sections[i-1].Offset {
			t.Errorf("section %d offset %v not after %v", s.Index, s.Offset, res.Sections[i-1].Offset)
		}
	}
	if want := []int{0, 1, 2, 3, 4}; !slices.Equal(indexes, want) {
		t.Errorf("section indexes = %v, want %v", indexes, want)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	opts := Options{Width: 640, Height: 320, Measurer: fonts.Default()}
	first := Layout(energyData(), opts)
	second := Layout(energyData(), opts)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("layouts differ between identical calls")
	}
	for i := range first.Paths {
		if first.Paths[i].D() != second.Paths[i].D() {
			t.Errorf("path %d differs", i)
		}
	}
}

func TestLayoutEmpty(t *testing.T) {
	res := Layout(Data{}, Options{Width: 100, Height: 100})
	if len(res.Nodes) != 0 || len(res.Paths) != 0 || len(res.Sections) != 0 {
		t.Errorf("empty input produced %+v", res)
	}
}

func TestColumnIndexes(t *testing.T) {
	nodes := []Node{{Index: 10}, {Index: 2}, {Index: 10}, {Index: 0}, {Index: 2}}
	if got, want := ColumnIndexes(nodes), []int{0, 2, 10}; !slices.Equal(got, want) {
		t.Errorf("ColumnIndexes = %v, want %v", got, want)
	}
}
