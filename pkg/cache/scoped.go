package cache

// NewScopedKeyer prefixes every key of inner, so several deployments can
// share one Redis without seeing each other's entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "sankeyflow:")
//
// A nil inner keyer uses the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return scopedKeyer{inner: inner, prefix: prefix}
}

type scopedKeyer struct {
	inner  Keyer
	prefix string
}

func (k scopedKeyer) ChartKey(chartID string) string {
	return k.prefix + k.inner.ChartKey(chartID)
}

func (k scopedKeyer) LayoutKey(chartHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(chartHash, opts)
}

func (k scopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
