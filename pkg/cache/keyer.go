package cache

import "strconv"

// Key types reported to cache hooks.
const (
	KeyTypeHTTP     = "http"
	KeyTypeTree     = "tree"
	KeyTypeArtifact = "artifact"
)

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// HTTPKey keys a raw API response.
	HTTPKey(namespace, key string) string

	// TreeKey keys a report document for a container.
	TreeKey(baseURL string, containerID int64) string

	// ArtifactKey keys a rendered output for a tree and selection.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	VizType string   `json:"viz_type"`
	Format  string   `json:"format"`
	Path    []int    `json:"path,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Trail   bool     `json:"trail,omitempty"`
	Extra   []string `json:"extra,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return KeyTypeHTTP + ":" + namespace + ":" + key
}

func (DefaultKeyer) TreeKey(baseURL string, containerID int64) string {
	return hashKey(KeyTypeTree, baseURL, strconv.FormatInt(containerID, 10))
}

func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, treeHash, opts)
}
