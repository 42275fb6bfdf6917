package cache

// ScopedKeyer wraps a Keyer with a prefix so separate contexts (per-project
// caches, test isolation) share one backend without key collisions.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every generated key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// MatrixKey generates a prefixed key for encoded matrices.
func (k *ScopedKeyer) MatrixKey(opts MatrixKeyOpts) string {
	return k.prefix + k.inner.MatrixKey(opts)
}

// AnalysisKey generates a prefixed key for clustering results.
func (k *ScopedKeyer) AnalysisKey(matrixHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(matrixHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(matrixHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(matrixHash, opts)
}
