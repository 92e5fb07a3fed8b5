// Package sankey lays out Sankey flow diagrams.
//
// A diagram is a set of [Node] values arranged in columns by their Index and
// a set of [Link] values describing flow between them. [Layout] turns that
// input into positioned nodes and closed ribbon paths ready to be drawn:
//
//	res := sankey.Layout(sankey.Data{
//	    Nodes: []sankey.Node{
//	        {ID: "grid", Value: 10, Index: 0},
//	        {ID: "home", Value: 10, Index: 1},
//	    },
//	    Links: []sankey.Link{{Source: "grid", Target: "home"}},
//	}, sankey.Options{Width: 800, Height: 400})
//
// # Stages
//
// The layout runs in four steps, each exported for reuse and testing:
//
//   - [ResolveLinks] gives every link a value bounded by the remaining
//     capacity of both endpoints and creates pass-through nodes for links
//     that skip columns.
//   - [SectionFlexSize] decides how far apart columns are, leaving room for
//     the labels of the last column.
//   - [LayoutNodes] sizes nodes proportionally to their value with one scale
//     shared by the whole diagram and a [MinSize] floor, then spaces them
//     evenly within their column.
//   - [RoutePaths] draws each link as a ribbon of cubic curves through its
//     pass-through nodes.
//
// Vertical diagrams reuse the horizontal computation with x and y swapped.
//
// # Text
//
// Label widths come from a [TextMeasurer]. The default measures with the Go
// fonts; [fonts.Table] is a dependency-free approximation.
package sankey
