package cache

// ScopedKeyer prefixes every key of an inner [Keyer], so that several
// clients can share one backend without colliding:
//
//	server := NewScopedKeyer(nil, "server:")
//	cli := NewScopedKeyer(nil, "cli:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey returns the prefixed layout key.
func (k *ScopedKeyer) LayoutKey(recordsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(recordsHash, opts)
}

// IndexKey returns the prefixed index key.
func (k *ScopedKeyer) IndexKey(estimatesHash string, opts IndexKeyOpts) string {
	return k.prefix + k.inner.IndexKey(estimatesHash, opts)
}
