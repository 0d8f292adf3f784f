// Package observability provides instrumentation hooks for session,
// projection, cache, and store events without coupling the engine to
// any observability backend. Applications register implementations at
// startup; libraries emit events through the package-level accessors.
// Defaults are no-ops, so uninstrumented use costs one interface call.
package observability

import (
	"context"
	"sync"
	"time"
)

// SessionHooks receives events from the session store's dispatch family.
type SessionHooks interface {
	// OnDispatch records an action entering history. Squashed reports
	// whether the action replaced the previous entry instead of
	// appending.
	OnDispatch(ctx context.Context, kind string, squashed bool, historyLen int)

	OnUndo(ctx context.Context, historyLen int)
	OnRedo(ctx context.Context, historyLen int)

	// OnCommit records history promotion to a new base config.
	OnCommit(ctx context.Context, actionCount int)
}

// ProjectionHooks receives events from snapshot re-projection.
type ProjectionHooks interface {
	OnProjectionStart(ctx context.Context, token uint64, products int)
	OnProjectionComplete(ctx context.Context, token uint64, instances int, duration time.Duration, err error)

	// OnProjectionStale records a completed projection discarded because
	// a later dispatch superseded it.
	OnProjectionStale(ctx context.Context, token uint64)
}

// CacheHooks receives events from metadata cache operations.
type CacheHooks interface {
	OnHit(ctx context.Context, keyType string)
	OnMiss(ctx context.Context, keyType string)
	OnSet(ctx context.Context, keyType string, size int)
}

// StoreHooks receives events from planogram persistence.
type StoreHooks interface {
	OnSave(ctx context.Context, id string, duration time.Duration, err error)
	OnLoad(ctx context.Context, id string, duration time.Duration, err error)
}

// NoopSessionHooks is the default SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnDispatch(context.Context, string, bool, int) {}
func (NoopSessionHooks) OnUndo(context.Context, int)                   {}
func (NoopSessionHooks) OnRedo(context.Context, int)                   {}
func (NoopSessionHooks) OnCommit(context.Context, int)                 {}

// NoopProjectionHooks is the default ProjectionHooks.
type NoopProjectionHooks struct{}

func (NoopProjectionHooks) OnProjectionStart(context.Context, uint64, int) {}
func (NoopProjectionHooks) OnProjectionComplete(context.Context, uint64, int, time.Duration, error) {
}
func (NoopProjectionHooks) OnProjectionStale(context.Context, uint64) {}

// NoopCacheHooks is the default CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)       {}
func (NoopCacheHooks) OnMiss(context.Context, string)      {}
func (NoopCacheHooks) OnSet(context.Context, string, int)  {}

// NoopStoreHooks is the default StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, time.Duration, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, time.Duration, error) {}

var (
	mu              sync.RWMutex
	sessionHooks    SessionHooks    = NoopSessionHooks{}
	projectionHooks ProjectionHooks = NoopProjectionHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	storeHooks      StoreHooks      = NoopStoreHooks{}
)

// SetSessionHooks registers session hooks. Call once at startup.
func SetSessionHooks(h SessionHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetProjectionHooks registers projection hooks. Call once at startup.
func SetProjectionHooks(h ProjectionHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h != nil {
		projectionHooks = h
	}
}

// SetCacheHooks registers cache hooks. Call once at startup.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetStoreHooks registers store hooks. Call once at startup.
func SetStoreHooks(h StoreHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	mu.RLock()
	defer mu.RUnlock()
	return sessionHooks
}

// Projection returns the registered projection hooks.
func Projection() ProjectionHooks {
	mu.RLock()
	defer mu.RUnlock()
	return projectionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	mu.RLock()
	defer mu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to no-ops. Primarily for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	sessionHooks = NoopSessionHooks{}
	projectionHooks = NoopProjectionHooks{}
	cacheHooks = NoopCacheHooks{}
	storeHooks = NoopStoreHooks{}
}
