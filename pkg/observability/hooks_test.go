package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type recordingPipeline struct{ NoopPipelineHooks }
type recordingCache struct{ NoopCacheHooks }
type recordingStore struct{ NoopStoreHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Errorf("Store() = %T, want NoopStoreHooks", Store())
	}
}

func TestSetters(t *testing.T) {
	defer Reset()

	p, c, s := &recordingPipeline{}, &recordingCache{}, &recordingStore{}
	SetPipelineHooks(p)
	SetCacheHooks(c)
	SetStoreHooks(s)
	if Pipeline() != p || Cache() != c || Store() != s {
		t.Fatal("setters did not install the hooks")
	}

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetStoreHooks(nil)
	if Pipeline() != p || Cache() != c || Store() != s {
		t.Error("nil hooks should be ignored")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore the no-op hooks")
	}
}

func TestUse(t *testing.T) {
	defer Reset()

	if n := Use(&recordingStore{}); n != 1 {
		t.Errorf("Use(store hooks) matched %d interfaces, want 1", n)
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Use should leave unmatched hooks alone")
	}

	h := NewLogHooks(log.New(&bytes.Buffer{}))
	if n := Use(h); n != 3 {
		t.Errorf("Use(LogHooks) matched %d interfaces, want 3", n)
	}
	if Pipeline() != PipelineHooks(h) || Cache() != CacheHooks(h) || Store() != StoreHooks(h) {
		t.Error("Use(LogHooks) should install every hook set")
	}
	if n := Use("not hooks"); n != 0 {
		t.Errorf("Use(string) matched %d interfaces", n)
	}
}

func TestConcurrentSetters(t *testing.T) {
	defer Reset()

	p, s := &recordingPipeline{}, &recordingStore{}
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() { defer wg.Done(); SetPipelineHooks(p) }()
		go func() { defer wg.Done(); SetStoreHooks(s) }()
	}
	wg.Wait()
	if Pipeline() != p || Store() != s {
		t.Error("a concurrent update was lost")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)
	h := NewLogHooks(l)
	ctx := context.Background()

	h.OnNormalizeStart(ctx, 12)
	h.OnNormalizeComplete(ctx, 10, 2, time.Millisecond)
	h.OnPlaceStart(ctx, 8, "circle")
	h.OnPlaceComplete(ctx, 8, 64, time.Millisecond)
	h.OnRenderStart(ctx, []string{"svg", "json"})
	h.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	h.OnRenderComplete(ctx, []string{"pdf"}, time.Millisecond, errors.New("rsvg-convert missing"))
	h.OnCacheHit(ctx, "dev:tile:abc")
	h.OnCacheMiss(ctx, "artifact:def")
	h.OnCacheSet(ctx, "artifact:def", 2048)
	h.OnStoreOp(ctx, "sqlite", "list", time.Millisecond, nil)
	h.OnStoreOp(ctx, "mongo", "add", time.Millisecond, errors.New("timeout"))

	out := buf.String()
	for _, want := range []string{
		"hook", "eligible=10", "shape=circle", "cells=64", "formats=svg,json",
		"render failed", "kind=tile", "kind=artifact", "bytes=2048",
		"backend=sqlite", "library op failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.InfoLevel)
	h := NewLogHooks(l)

	h.OnCacheHit(context.Background(), "tile:x")
	if buf.Len() != 0 {
		t.Errorf("debug events logged at info level: %q", buf.String())
	}
	h.OnStoreOp(context.Background(), "file", "add", 0, errors.New("disk full"))
	if !strings.Contains(buf.String(), "disk full") {
		t.Error("failures should be logged at warn level")
	}
}

func TestKeyKind(t *testing.T) {
	tests := map[string]string{
		"tile:abc":         "tile",
		"artifact:abc":     "artifact",
		"v1.0.0:tile:abc":  "tile",
		"dev:artifact:abc": "artifact",
		"session:abc":      "other",
	}
	for key, want := range tests {
		if got := keyKind(key); got != want {
			t.Errorf("keyKind(%q) = %q, want %q", key, got, want)
		}
	}
}
