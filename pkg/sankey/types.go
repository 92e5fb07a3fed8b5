package sankey

// Layout constants in user units (pixels in SVG).
const (
	// MinSize is the smallest breadth a laid-out node may have.
	MinSize = 3.0

	// NodeWidth is the thickness of a node bar along the flow axis.
	NodeWidth = 15.0

	// FontSize is the label font size.
	FontSize = 12.0

	// MinDistance is the gap between neighbouring nodes in a column and the
	// padding at both ends of a column.
	MinDistance = FontSize / 2

	// TextPadding separates a node bar from its horizontal label.
	TextPadding = 5.0

	// DefaultColor fills nodes that do not carry their own colour.
	DefaultColor = "var(--primary-color, #03a9f4)"
)

// Node is a labeled quantity placed in one column of the diagram.
type Node struct {
	ID          string
	Value       float64
	Index       int // column, ordered left-to-right (or top-to-bottom)
	Label       string
	Tooltip     string
	Color       string
	PassThrough bool
}

// Link is a flow from one node to another. A nil Value means "whatever
// capacity the endpoints have left".
type Link struct {
	Source string
	Target string
	Value  *float64
}

// Value returns a pointer to v, for building links with explicit values.
func Value(v float64) *float64 { return &v }

// Data is the input of a layout pass.
type Data struct {
	Nodes []Node
	Links []Link
}

// ProcessedNode is a node with its computed position and breadth.
type ProcessedNode struct {
	Node
	X, Y float64
	Size float64
}

// Offset holds where along each endpoint a ribbon starts, as a fraction of
// the endpoint's size.
type Offset struct {
	Source float64
	Target float64
}

// ProcessedLink is a link with its resolved value.
type ProcessedLink struct {
	Source             string
	Target             string
	Value              float64
	Offset             Offset
	PassThroughNodeIDs []string
}

// Section is one column of the diagram.
type Section struct {
	Nodes         []ProcessedNode
	Offset        float64 // position along the flow axis
	Index         int
	TotalValue    float64
	StatePerPixel float64
}

// valueOr returns v unless it is zero, in which case it returns 1. Used to
// keep divisions by a node value finite.
func valueOr(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
