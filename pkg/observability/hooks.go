// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, playback progress, and cache
// operations.
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
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnAnalyzeStart(ctx, strokeCount)
//	// ... do analysis ...
//	observability.Engine().OnAnalyzeComplete(ctx, strokeCount, regionCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the writing pipeline.
type EngineHooks interface {
	// Analysis events
	OnAnalyzeStart(ctx context.Context, strokeCount int)
	OnAnalyzeComplete(ctx context.Context, strokeCount, regionCount int, duration time.Duration, err error)

	// Placement events
	OnPlaceComplete(ctx context.Context, degraded bool, duration time.Duration, err error)

	// Synthesis events
	OnSynthesizeStart(ctx context.Context, textLen int)
	OnSynthesizeComplete(ctx context.Context, groupCount int, duration time.Duration, err error)
}

// =============================================================================
// Playback Hooks
// =============================================================================

// PlaybackHooks receives events from playback scheduling.
type PlaybackHooks interface {
	// OnGroupRevealed records a stroke group reaching the canvas.
	OnGroupRevealed(ctx context.Context, index, total int)

	// OnPlaybackComplete records a playback run finishing all groups.
	OnPlaybackComplete(ctx context.Context, total int, duration time.Duration)

	// OnPlaybackCancelled records a playback run stopped before completion.
	OnPlaybackCancelled(ctx context.Context, revealed, total int)
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

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnAnalyzeStart(context.Context, int)                                  {}
func (NoopEngineHooks) OnAnalyzeComplete(context.Context, int, int, time.Duration, error)    {}
func (NoopEngineHooks) OnPlaceComplete(context.Context, bool, time.Duration, error)          {}
func (NoopEngineHooks) OnSynthesizeStart(context.Context, int)                               {}
func (NoopEngineHooks) OnSynthesizeComplete(context.Context, int, time.Duration, error)      {}

// NoopPlaybackHooks is a no-op implementation of PlaybackHooks.
type NoopPlaybackHooks struct{}

func (NoopPlaybackHooks) OnGroupRevealed(context.Context, int, int)                 {}
func (NoopPlaybackHooks) OnPlaybackComplete(context.Context, int, time.Duration) {}
func (NoopPlaybackHooks) OnPlaybackCancelled(context.Context, int, int)             {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks   EngineHooks   = NoopEngineHooks{}
	playbackHooks PlaybackHooks = NoopPlaybackHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any pipeline operations.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetPlaybackHooks registers custom playback hooks.
// This should be called once at application startup before any playback operations.
func SetPlaybackHooks(h PlaybackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		playbackHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Playback returns the registered playback hooks.
func Playback() PlaybackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return playbackHooks
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
	engineHooks = NoopEngineHooks{}
	playbackHooks = NoopPlaybackHooks{}
	cacheHooks = NoopCacheHooks{}
}
