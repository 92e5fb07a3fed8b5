package sankey

import (
	"testing"
)

func TestLayoutNodesMinSizeClamp(t *testing.T) {
	nodes := []Node{
		{ID: "small1", Value: 1, Index: 0},
		{ID: "small2", Value: 1, Index: 0},
		{ID: "large", Value: 100, Index: 0},
	}
	// 112 breadth leaves 100 for nodes after two gaps.
	sections := LayoutNodes(nodes, []int{0}, NodeLayout{SectionSize: 112})
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	got := sections[0].Nodes

	wantSize := map[string]float64{"small1": MinSize, "small2": MinSize, "large": 92}
	wantY := map[string]float64{"small1": 6, "small2": 16, "large": 26}
	var total float64
	for _, n := range got {
		if n.Size != wantSize[n.ID] {
			t.Errorf("%s size = %v, want %v", n.ID, n.Size, wantSize[n.ID])
		}
		if n.Y != wantY[n.ID] {
			t.Errorf("%s y = %v, want %v", n.ID, n.Y, wantY[n.ID])
		}
		total += n.Size
	}
	if total > 100 {
		t.Errorf("column total %v exceeds available space 100", total)
	}
}

func TestLayoutNodesSharedScale(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  map[string]float64
	}{
		{
			name: "LargeFirst",
			nodes: []Node{
				{ID: "big", Value: 100, Index: 0},
				{ID: "small", Value: 10, Index: 1},
			},
			want: map[string]float64{"big": 100, "small": 10},
		},
		{
			name: "SmallFirst",
			nodes: []Node{
				{ID: "small", Value: 10, Index: 0},
				{ID: "big", Value: 100, Index: 1},
			},
			want: map[string]float64{"big": 100, "small": 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := LayoutNodes(tt.nodes, []int{0, 1}, NodeLayout{SectionSize: 100, FlexSize: 200})
			for _, n := range Flatten(sections) {
				if n.Size != tt.want[n.ID] {
					t.Errorf("%s size = %v, want %v", n.ID, n.Size, tt.want[n.ID])
				}
			}
			for _, s := range sections {
				if s.StatePerPixel != 1 {
					t.Errorf("section %d state per pixel = %v, want 1", s.Index, s.StatePerPixel)
				}
			}
		})
	}
}

func TestLayoutNodesPositions(t *testing.T) {
	nodes := []Node{
		{ID: "a", Value: 50, Index: 0},
		{ID: "b", Value: 30, Index: 0},
		{ID: "c", Value: 20, Index: 0},
		{ID: "d", Value: 40, Index: 1},
	}
	sections := LayoutNodes(nodes, []int{0, 1}, NodeLayout{SectionSize: 112, FlexSize: 300})

	// Column 0: 100 value over 100px, no gaps beyond MinDistance.
	col0 := sections[0].Nodes
	wantY := []float64{6, 62, 98}
	for i, n := range col0 {
		if n.X != 0 {
			t.Errorf("%s x = %v, want 0", n.ID, n.X)
		}
		if n.Y != wantY[i] {
			t.Errorf("%s y = %v, want %v", n.ID, n.Y, wantY[i])
		}
	}

	// Column 1: a single node is centered.
	d := sections[1].Nodes[0]
	if d.X != 300 {
		t.Errorf("d x = %v, want 300", d.X)
	}
	if d.Size != 40 {
		t.Errorf("d size = %v, want 40", d.Size)
	}
	if want := (112.0-40)/2 + MinDistance; d.Y != want {
		t.Errorf("d y = %v, want %v", d.Y, want)
	}
}

func TestLayoutNodesVertical(t *testing.T) {
	nodes := []Node{
		{ID: "a", Value: 10, Index: 0},
		{ID: "b", Value: 10, Index: 1},
	}
	h := LayoutNodes(nodes, []int{0, 1}, NodeLayout{SectionSize: 100, FlexSize: 50})
	v := LayoutNodes(nodes, []int{0, 1}, NodeLayout{SectionSize: 100, FlexSize: 50, Vertical: true})

	for i := range h {
		for j := range h[i].Nodes {
			hn, vn := h[i].Nodes[j], v[i].Nodes[j]
			if hn.X != vn.Y || hn.Y != vn.X {
				t.Errorf("%s: horizontal (%v,%v) vertical (%v,%v) not swapped", hn.ID, hn.X, hn.Y, vn.X, vn.Y)
			}
		}
	}
}

func TestLayoutNodesDefaultColor(t *testing.T) {
	nodes := []Node{
		{ID: "plain", Value: 1, Index: 0},
		{ID: "red", Value: 1, Index: 0, Color: "#f00"},
		{ID: "spacer", Value: 1, Index: 0, PassThrough: true},
	}
	want := map[string]string{"plain": DefaultColor, "red": "#f00", "spacer": ""}
	for _, n := range Flatten(LayoutNodes(nodes, []int{0}, NodeLayout{SectionSize: 100})) {
		if n.Color != want[n.ID] {
			t.Errorf("%s color = %q, want %q", n.ID, n.Color, want[n.ID])
		}
	}
}

func TestLayoutNodesFloor(t *testing.T) {
	// Far more nodes than pixels: every node still gets at least MinSize.
	var nodes []Node
	for i := range 50 {
		nodes = append(nodes, Node{ID: string(rune('a' + i%26)) + string(rune('0'+i/26)), Value: float64(i + 1), Index: 0})
	}
	for _, n := range Flatten(LayoutNodes(nodes, []int{0}, NodeLayout{SectionSize: 40})) {
		if n.Size < MinSize {
			t.Errorf("%s size = %v, below MinSize", n.ID, n.Size)
		}
	}
}

func TestLayoutNodesIgnoresUnlistedColumns(t *testing.T) {
	nodes := []Node{
		{ID: "a", Value: 1, Index: 0},
		{ID: "b", Value: 1, Index: 5},
	}
	got := Flatten(LayoutNodes(nodes, []int{0}, NodeLayout{SectionSize: 100}))
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("got %+v, want only a", got)
	}
}

func TestSetNodeSizesTerminates(t *testing.T) {
	nodes := []ProcessedNode{
		{Node: Node{ID: "a", Value: 1}},
		{Node: Node{ID: "b", Value: 1}},
	}
	// Negative space never converges; the round cap must stop it.
	sized, scale := setNodeSizes(nodes, -50, 2, 0)
	if scale <= 0 {
		t.Errorf("scale = %v, want positive", scale)
	}
	for _, n := range sized {
		if n.Size < MinSize {
			t.Errorf("%s size = %v, below MinSize", n.ID, n.Size)
		}
	}
}
