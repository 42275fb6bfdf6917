// Package cache provides artifact caching for the rendering pipeline.
//
// Three backends ship: FileCache for CLI usage, RedisCache for shared
// deployments, and NullCache to disable caching. Keys are generated through
// the Keyer interface so backends stay agnostic of what is cached; content
// addressing uses full SHA-256 hashes.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The bool reports a hit; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// MatrixKeyOpts feed the encoded-matrix cache key.
type MatrixKeyOpts struct {
	Text       string `json:"text"`
	ErrorLevel string `json:"error_level"`
}

// AnalysisKeyOpts feed the cluster-analysis cache key.
type AnalysisKeyOpts struct {
	MinClusterSize   int     `json:"min_cluster_size"`
	DensityThreshold float64 `json:"density_threshold"`
	Connectivity     string  `json:"connectivity"`
}

// ArtifactKeyOpts feed the rendered-artifact cache key.
type ArtifactKeyOpts struct {
	StyleHash string `json:"style_hash"`
	Format    string `json:"format"`
}

// Keyer generates cache keys for the three pipeline stages.
type Keyer interface {
	// MatrixKey keys an encoded QR matrix by its input text and ECC level.
	MatrixKey(opts MatrixKeyOpts) string

	// AnalysisKey keys a clustering result by matrix content and parameters.
	AnalysisKey(matrixHash string, opts AnalysisKeyOpts) string

	// ArtifactKey keys a rendered document by matrix content and style.
	ArtifactKey(matrixHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard stage-prefixed SHA-256 keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// MatrixKey implements Keyer.
func (k *DefaultKeyer) MatrixKey(opts MatrixKeyOpts) string {
	return hashKey("matrix", opts)
}

// AnalysisKey implements Keyer.
func (k *DefaultKeyer) AnalysisKey(matrixHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", matrixHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(matrixHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", matrixHash, opts)
}
