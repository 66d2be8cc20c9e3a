// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on a specific backend to the engine packages. Consumers
// register hooks at startup to receive events about deck operations,
// snapshot storage and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [PrometheusHooks] is the bundled implementation used by the HTTP service.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    hooks := observability.NewPrometheusHooks(prometheus.NewRegistry())
//	    observability.SetDeckHooks(hooks)
//	    observability.SetStoreHooks(hooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Deck().OnDispatch("navigate", "started")
//	// ... animate ...
//	observability.Deck().OnOperationComplete("navigate", elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Deck Hooks
// =============================================================================

// DeckHooks receives events from the deck engine. Deck execution is
// single-threaded and has no request context, so these hooks take none.
type DeckHooks interface {
	// OnDispatch records a dispatch attempt and its outcome
	// ("started", "queued" or "rejected").
	OnDispatch(kind, outcome string)

	// OnOperationComplete records the time from start to completion.
	OnOperationComplete(kind string, duration time.Duration)

	// OnTimeout records an operation forced to complete by its timeout.
	OnTimeout(kind string)

	// OnStackUpdated records a rank reassignment.
	OnStackUpdated(items int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from snapshot storage.
type StoreHooks interface {
	// OnStoreHit records a snapshot found in the store.
	OnStoreHit(ctx context.Context, backend string)

	// OnStoreMiss records a snapshot lookup that found nothing.
	OnStoreMiss(ctx context.Context, backend string)

	// OnStoreSet records a snapshot write.
	OnStoreSet(ctx context.Context, backend string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP service.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a finished request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDeckHooks is a no-op implementation of DeckHooks.
type NoopDeckHooks struct{}

func (NoopDeckHooks) OnDispatch(string, string)                 {}
func (NoopDeckHooks) OnOperationComplete(string, time.Duration) {}
func (NoopDeckHooks) OnTimeout(string)                          {}
func (NoopDeckHooks) OnStackUpdated(int)                        {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)      {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)     {}
func (NoopStoreHooks) OnStoreSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	deckHooks  DeckHooks  = NoopDeckHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetDeckHooks registers custom deck hooks.
// This should be called once at application startup before any deck is created.
func SetDeckHooks(h DeckHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		deckHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Deck returns the registered deck hooks.
func Deck() DeckHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return deckHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	deckHooks = NoopDeckHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
