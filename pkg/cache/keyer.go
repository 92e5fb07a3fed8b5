package cache

// Keyer derives cache keys. Implementations must be deterministic: the same
// inputs must always produce the same key.
type Keyer interface {
	// ChartKey identifies a stored chart document.
	ChartKey(chartID string) string

	// LayoutKey identifies the layout of a chart with the given content hash.
	LayoutKey(chartHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout options that change the computed layout.
type LayoutKeyOpts struct {
	Width    float64 `json:"w"`
	Height   float64 `json:"h"`
	Vertical bool    `json:"v"`
	Measurer string  `json:"m,omitempty"` // text measurer, e.g. "gofont" or "table"
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"f"`
	Scale       float64 `json:"s,omitempty"`
	Interactive bool    `json:"i,omitempty"`
	CSSVars     bool    `json:"c,omitempty"`
	Background  string  `json:"b,omitempty"`
	Measurer    string  `json:"m,omitempty"` // label fitting in vertical charts depends on it
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ChartKey returns "chart:<id>". Chart ids are already unique.
func (DefaultKeyer) ChartKey(chartID string) string {
	return "chart:" + chartID
}

// LayoutKey hashes the chart hash with the layout options.
func (DefaultKeyer) LayoutKey(chartHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", chartHash, opts)
}

// ArtifactKey hashes the layout hash with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
