package cache

// ScopedKeyer prepends a fixed namespace to every key of an inner Keyer.
// The CLI scopes by release so a new normalizer never reads tiles cached by
// an older one.
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, scope: scope}
}

func (k ScopedKeyer) TileKey(contentHash string, tileSize int) string {
	return k.scope + k.inner.TileKey(contentHash, tileSize)
}

func (k ScopedKeyer) ArtifactKey(tilesHash string, opts ArtifactKeyOpts) string {
	return k.scope + k.inner.ArtifactKey(tilesHash, opts)
}

var _ Keyer = ScopedKeyer{}
