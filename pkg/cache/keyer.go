package cache

// Keyer derives cache keys for the two cacheable pipeline products: the
// graph document built from a scene, and rendered artifacts.
type Keyer interface {
	// GraphKey generates a key for the JSON document built from a scene.
	GraphKey(sceneHash string) string

	// ArtifactKey generates a key for rendered output. Two renders share a
	// key only when the graph and every render option match.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts captures every option that changes rendered bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Engine      string  `json:"engine,omitempty"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Labels      bool    `json:"labels"`
	MarginRatio float64 `json:"margin_ratio"`
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for graph document caching.
func (k *DefaultKeyer) GraphKey(sceneHash string) string {
	return "graph:" + sceneHash
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so different surfaces (CLI, HTTP
// shell) keep separate cache namespaces in a shared store.
//
// Example usage:
//
//	// Keys the HTTP shell writes never collide with CLI keys
//	apiKeyer := cache.NewScopedKeyer(nil, "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
// A nil inner keyer defaults to [NewDefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for graph document caching.
func (k *ScopedKeyer) GraphKey(sceneHash string) string {
	return k.prefix + k.inner.GraphKey(sceneHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
