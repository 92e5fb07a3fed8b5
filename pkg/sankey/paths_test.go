package sankey

import (
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/fonts"
)

func twoNodes() Data {
	return Data{
		Nodes: []Node{
			{ID: "a", Value: 50, Index: 0},
			{ID: "b", Value: 50, Index: 1},
		},
		Links: []Link{{Source: "a", Target: "b"}},
	}
}

func TestRoutePathsHorizontal(t *testing.T) {
	res := Layout(twoNodes(), Options{Width: 800, Height: 112, Measurer: fonts.Table{}})
	if len(res.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(res.Paths))
	}
	p := res.Paths[0]
	want := "M15,6 L15,6 C390,6 390,6 780,6 L780,106 C390,106 390,106 15,106 Z"
	if got := p.D(); got != want {
		t.Errorf("D() =\n  %s\nwant\n  %s", got, want)
	}
	if p.Source.ID != "a" || p.Target.ID != "b" || p.Value != 50 {
		t.Errorf("path endpoints = %s->%s (%v), want a->b (50)", p.Source.ID, p.Target.ID, p.Value)
	}
}

func TestRoutePathsCopiesEndpoints(t *testing.T) {
	nodes := []ProcessedNode{
		{Node: Node{ID: "s", Value: 10}, X: 0, Y: 20, Size: 100},
		{Node: Node{ID: "t", Value: 10}, X: 300, Y: 40, Size: 100},
	}
	links := []ProcessedLink{{Source: "s", Target: "t", Value: 10}}
	p := RoutePaths(nodes, links, false)[0]

	nodes[0], nodes[1] = nodes[1], nodes[0]
	nodes[0].Y = 999

	if p.Source.ID != "s" || p.Source.Y != 20 || p.Target.ID != "t" || p.Target.Y != 40 {
		t.Errorf("path endpoints changed with the node slice: %+v -> %+v", p.Source, p.Target)
	}
}

func TestRoutePathsVertical(t *testing.T) {
	res := Layout(twoNodes(), Options{Width: 112, Height: 800, Vertical: true, Measurer: fonts.Table{}})
	want := "M6,15 L6,15 C6,380.5 6,380.5 6,761 L106,761 C106,380.5 106,380.5 106,15 Z"
	if got := res.Paths[0].D(); got != want {
		t.Errorf("D() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestRoutePathsThroughPassThrough(t *testing.T) {
	data := Data{
		Nodes: []Node{
			{ID: "a", Value: 10, Index: 0},
			{ID: "m", Value: 10, Index: 1},
			{ID: "z", Value: 10, Index: 2},
		},
		Links: []Link{{Source: "a", Target: "z"}},
	}
	res := Layout(data, Options{Width: 600, Height: 200, Measurer: fonts.Table{}})
	if len(res.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(res.Paths))
	}
	cmds := res.Paths[0].Commands
	// Move, then two hops forward and two hops back.
	if len(cmds) != 1+4*2+4*2 {
		t.Fatalf("got %d commands, want 17", len(cmds))
	}

	spacer, ok := res.Node(PassThroughID("a", "z", 1))
	if !ok {
		t.Fatal("pass-through node missing from layout")
	}
	if cmds[4].X != spacer.X || cmds[4].Y != spacer.Y {
		t.Errorf("first hop ends at (%v,%v), want pass-through at (%v,%v)", cmds[4].X, cmds[4].Y, spacer.X, spacer.Y)
	}
	if cmds[5].Op != "L" || cmds[5].X != spacer.X+NodeWidth {
		t.Errorf("second hop starts at %+v, want L at x=%v", cmds[5], spacer.X+NodeWidth)
	}
}

func TestRoutePathsParallelPassThroughs(t *testing.T) {
	data := Data{
		Nodes: []Node{
			{ID: "a", Value: 10, Index: 0},
			{ID: "m", Value: 10, Index: 1},
			{ID: "c", Value: 10, Index: 2},
		},
		Links: []Link{
			{Source: "a", Target: "c", Value: Value(5)},
			{Source: "a", Target: "c", Value: Value(5)},
		},
	}
	res := Layout(data, Options{Width: 600, Height: 400, Measurer: fonts.Table{}})
	if len(res.Paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(res.Paths))
	}

	first, ok1 := res.Node(PassThroughID("a", "c", 1))
	second, ok2 := res.Node(PassThroughID("a", "c", 1) + "#2")
	if !ok1 || !ok2 {
		t.Fatal("both pass-through nodes should be laid out")
	}
	if first.Y == second.Y {
		t.Fatalf("pass-throughs share y=%v", first.Y)
	}
	for i, want := range []ProcessedNode{first, second} {
		if hop := res.Paths[i].Commands[4]; hop.Y != want.Y {
			t.Errorf("path %d crosses column 1 at y=%v, want its own spacer at y=%v", i, hop.Y, want.Y)
		}
	}
}

func TestRoutePathsSkipsUnknownNodes(t *testing.T) {
	nodes := []ProcessedNode{{Node: Node{ID: "a", Value: 1}}}
	links := []ProcessedLink{{Source: "a", Target: "missing", Value: 1}}
	if got := RoutePaths(nodes, links, false); len(got) != 0 {
		t.Errorf("got %d paths, want 0", len(got))
	}
}

func TestRoutePathsOffsets(t *testing.T) {
	nodes := []ProcessedNode{
		{Node: Node{ID: "s", Value: 10}, X: 0, Y: 0, Size: 100},
		{Node: Node{ID: "t", Value: 20}, X: 100, Y: 0, Size: 200},
	}
	links := []ProcessedLink{{Source: "s", Target: "t", Value: 5, Offset: Offset{Source: 0.5, Target: 0.25}}}
	p := RoutePaths(nodes, links, false)[0]

	if m := p.Commands[0]; m.Op != "M" || m.X != NodeWidth || m.Y != 50 {
		t.Errorf("move = %+v, want M at (15,50)", m)
	}
	if end := p.Commands[4]; end.X != 100 || end.Y != 50 {
		t.Errorf("forward end = %+v, want (100,50)", end)
	}
	// Back along the target: offset plus 5/20 of its 200px.
	if back := p.Commands[5]; back.Op != "L" || back.Y != 50+50 {
		t.Errorf("backward start = %+v, want L at y=100", back)
	}
	// And closing on the source: offset plus 5/10 of its 100px.
	if last := p.Commands[len(p.Commands)-1]; last.X != NodeWidth || last.Y != 50+50 {
		t.Errorf("backward end = %+v, want (15,100)", last)
	}
}

func TestPathD(t *testing.T) {
	p := Path{Commands: []PathCommand{
		{Op: "M", X: 1.5, Y: 2},
		{Op: "C", X: 3, Y: 4},
		{X: 5, Y: 6.25},
	}}
	if got, want := p.D(), "M1.5,2 C3,4 5,6.25 Z"; got != want {
		t.Errorf("D() = %q, want %q", got, want)
	}
}
