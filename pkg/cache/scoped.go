package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments, or
// several API clients, can share one Redis without seeing each other's
// entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "phylo:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AnalysisKey generates a prefixed analysis key.
func (k *ScopedKeyer) AnalysisKey(inputHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(inputHash, opts)
}
