// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module emit events through the registered hooks; which
// backend (if any) receives them is decided by the binary at startup. The
// defaults are no-ops, so library code never needs to check.
//
// # Usage
//
// Register hooks at application startup:
//
//	prom := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
//	observability.SetDilationHooks(prom)
//	observability.SetCacheHooks(prom)
//	observability.SetHTTPHooks(prom)
//
// Libraries call hooks to emit events:
//
//	observability.Dilation().OnDilateStart(ctx, vertices, columns)
//	// ... dilate ...
//	observability.Dilation().OnDilateComplete(ctx, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Dilation Hooks
// =============================================================================

// DilationHooks receives events from dilation runs.
type DilationHooks interface {
	// OnDilateStart is called after validation, before any column is processed.
	OnDilateStart(ctx context.Context, vertices, columns int)

	// OnColumnComplete is called once per output column.
	OnColumnComplete(ctx context.Context, column string, filled, unassigned int)

	// OnDilateComplete is called when a run ends, successfully or not.
	OnDilateComplete(ctx context.Context, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request. route is the matched pattern,
	// e.g. "/v1/dilate", not the raw path.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDilationHooks is a no-op implementation of DilationHooks.
type NoopDilationHooks struct{}

func (NoopDilationHooks) OnDilateStart(context.Context, int, int)                {}
func (NoopDilationHooks) OnColumnComplete(context.Context, string, int, int)     {}
func (NoopDilationHooks) OnDilateComplete(context.Context, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	dilationHooks DilationHooks = NoopDilationHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetDilationHooks registers custom dilation hooks. A nil argument is ignored.
func SetDilationHooks(h DilationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dilationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. A nil argument is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. A nil argument is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Dilation returns the registered dilation hooks.
func Dilation() DilationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dilationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dilationHooks = NoopDilationHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
