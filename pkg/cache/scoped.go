package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple deployments can share
// one cache backend without key collisions.
//
// Example usage:
//
//	// Keys isolated per environment
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// GraphKey generates a prefixed key for a graph payload.
func (k *ScopedKeyer) GraphKey(operatorID, graphID string) string {
	return k.prefix + k.inner.GraphKey(operatorID, graphID)
}

// ExportKey generates a prefixed key for an export artifact.
func (k *ScopedKeyer) ExportKey(operatorID, graphID string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(operatorID, graphID, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
