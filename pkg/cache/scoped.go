package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or engine
// versions can share one backend without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
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

// DilateKey generates a prefixed key for a dilation result.
func (k *ScopedKeyer) DilateKey(surfaceHash, labelsHash string, opts DilateKeyOpts) string {
	return k.prefix + k.inner.DilateKey(surfaceHash, labelsHash, opts)
}
