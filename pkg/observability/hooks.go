// Package observability provides hooks and performance monitoring for the
// inkqr engine.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about pipeline execution, matrix
// operations, and cache activity.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, etc.)
//
// Timing is handled by explicit spans rather than wrappers attached to
// method definitions: callers open a span around an operation and close it
// with the outcome, reporting to an injected MetricsSink (see monitor.go).
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetMatrixHooks(&myMatrixHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the encode → analyze → render pipeline.
type PipelineHooks interface {
	// Encode events
	OnEncodeStart(ctx context.Context, textLen int, errorLevel string)
	OnEncodeComplete(ctx context.Context, size int, version string, duration time.Duration, err error)

	// Analysis events
	OnAnalyzeStart(ctx context.Context, size int)
	OnAnalyzeComplete(ctx context.Context, clusterCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, shape string)
	OnRenderComplete(ctx context.Context, shape string, bytes int, duration time.Duration, err error)
}

// =============================================================================
// Matrix Hooks
// =============================================================================

// MatrixHooks receives events from centerpiece matrix operations.
type MatrixHooks interface {
	// OnCenterpieceStart records the start of a knockout/imprint operation.
	OnCenterpieceStart(ctx context.Context, mode string)

	// OnCenterpieceComplete records a finished operation with the number of
	// affected modules.
	OnCenterpieceComplete(ctx context.Context, mode string, affected int, duration time.Duration, err error)

	// OnValidation records a scanability assessment score.
	OnValidation(ctx context.Context, score float64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnEncodeStart(context.Context, int, string) {}
func (NoopPipelineHooks) OnEncodeComplete(context.Context, int, string, time.Duration, error) {
}
func (NoopPipelineHooks) OnAnalyzeStart(context.Context, int)                          {}
func (NoopPipelineHooks) OnAnalyzeComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                        {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// NoopMatrixHooks is a no-op implementation of MatrixHooks.
type NoopMatrixHooks struct{}

func (NoopMatrixHooks) OnCenterpieceStart(context.Context, string) {}
func (NoopMatrixHooks) OnCenterpieceComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopMatrixHooks) OnValidation(context.Context, float64) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	matrixHooks   MatrixHooks   = NoopMatrixHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetMatrixHooks registers custom matrix hooks.
// This should be called once at application startup.
func SetMatrixHooks(h MatrixHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		matrixHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Matrix returns the registered matrix hooks.
func Matrix() MatrixHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return matrixHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	matrixHooks = NoopMatrixHooks{}
	cacheHooks = NoopCacheHooks{}
}
