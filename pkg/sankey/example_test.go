package sankey_test

import (
	"fmt"

	"github.com/matzehuels/sankeyflow/pkg/fonts"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

func ExampleLayout() {
	data := sankey.Data{
		Nodes: []sankey.Node{
			{ID: "a", Value: 50, Index: 0},
			{ID: "b", Value: 50, Index: 1},
		},
		Links: []sankey.Link{{Source: "a", Target: "b"}},
	}

	res := sankey.Layout(data, sankey.Options{Width: 800, Height: 112, Measurer: fonts.Table{}})
	for _, n := range res.Nodes {
		fmt.Printf("%s x=%g y=%g size=%g\n", n.ID, n.X, n.Y, n.Size)
	}
	fmt.Println(res.Paths[0].D())
	// Output:
	// a x=0 y=6 size=100
	// b x=780 y=6 size=100
	// M15,6 L15,6 C390,6 390,6 780,6 L780,106 C390,106 390,106 15,106 Z
}

func ExampleResolveLinks() {
	nodes := []sankey.Node{
		{ID: "solar", Value: 10, Index: 0},
		{ID: "home", Value: 6, Index: 1},
		{ID: "grid", Value: 8, Index: 1},
	}
	links := []sankey.Link{
		{Source: "solar", Target: "home"},
		{Source: "solar", Target: "grid"},
	}

	resolved, _ := sankey.ResolveLinks(nodes, sankey.ColumnIndexes(nodes), links)
	for _, l := range resolved {
		fmt.Printf("%s -> %s: %g (source offset %g)\n", l.Source, l.Target, l.Value, l.Offset.Source)
	}
	// Output:
	// solar -> home: 6 (source offset 0)
	// solar -> grid: 4 (source offset 0.6)
}
