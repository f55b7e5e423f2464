// Package observability lets a binary watch what the libraries do without
// the libraries importing a metrics or tracing backend.
//
// Three hook sets exist: [PipelineHooks] for the normalize, place and render
// stages, [CacheHooks] for cache traffic and [StoreHooks] for tile library
// access. Each defaults to a no-op. Libraries fetch the current set on every
// event:
//
//	observability.Pipeline().OnPlaceStart(ctx, gridSize, shape)
//
// and main installs real implementations once at startup:
//
//	observability.Use(observability.NewLogHooks(logger))
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the generation pipeline.
type PipelineHooks interface {
	OnNormalizeStart(ctx context.Context, tileCount int)
	OnNormalizeComplete(ctx context.Context, eligible, excluded int, duration time.Duration)

	OnPlaceStart(ctx context.Context, gridSize int, shape string)
	OnPlaceComplete(ctx context.Context, gridSize, cells int, duration time.Duration)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives one event per cache lookup or write. key is the full
// cache key.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// StoreHooks receives one event per tile library operation. op is one of
// list, add, update, delete or clear.
type StoreHooks interface {
	OnStoreOp(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnNormalizeStart(context.Context, int)                            {}
func (NoopPipelineHooks) OnNormalizeComplete(context.Context, int, int, time.Duration)     {}
func (NoopPipelineHooks) OnPlaceStart(context.Context, int, string)                        {}
func (NoopPipelineHooks) OnPlaceComplete(context.Context, int, int, time.Duration)         {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks ignores every store event.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreOp(context.Context, string, string, time.Duration, error) {}

// registry is replaced as a whole on every change, so readers never lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	store    StoreHooks
}

var current atomic.Pointer[registry]

func init() {
	Reset()
}

func update(fn func(*registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetStoreHooks installs h. A nil h is ignored.
func SetStoreHooks(h StoreHooks) {
	if h != nil {
		update(func(r *registry) { r.store = h })
	}
}

// Use installs h for every hook interface it implements and reports how
// many it matched.
func Use(h any) int {
	n := 0
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
		n++
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
		n++
	}
	if s, ok := h.(StoreHooks); ok {
		SetStoreHooks(s)
		n++
	}
	return n
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// Store returns the installed store hooks.
func Store() StoreHooks { return current.Load().store }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		store:    NoopStoreHooks{},
	})
}
