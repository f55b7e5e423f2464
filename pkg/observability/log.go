package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements all
// three hook interfaces; pass it to [Use].
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through l with a "hook" prefix.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hook")}
}

func (h *LogHooks) OnNormalizeStart(_ context.Context, tileCount int) {
	h.logger.Debug("normalize start", "tiles", tileCount)
}

func (h *LogHooks) OnNormalizeComplete(_ context.Context, eligible, excluded int, d time.Duration) {
	h.logger.Debug("normalize done", "eligible", eligible, "excluded", excluded, "duration", d)
}

func (h *LogHooks) OnPlaceStart(_ context.Context, gridSize int, shape string) {
	h.logger.Debug("place start", "grid", gridSize, "shape", shape)
}

func (h *LogHooks) OnPlaceComplete(_ context.Context, gridSize, cells int, d time.Duration) {
	h.logger.Debug("place done", "grid", gridSize, "cells", cells, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", strings.Join(formats, ","))
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", strings.Join(formats, ","), "err", err)
		return
	}
	h.logger.Debug("render done", "formats", strings.Join(formats, ","), "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "kind", keyKind(key))
}

func (h *LogHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "kind", keyKind(key))
}

func (h *LogHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "kind", keyKind(key), "bytes", size)
}

func (h *LogHooks) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("library op failed", "backend", backend, "op", op, "err", err)
		return
	}
	h.logger.Debug("library op", "backend", backend, "op", op, "duration", d)
}

// keyKind extracts "tile" or "artifact" from a possibly scoped cache key.
func keyKind(key string) string {
	for _, kind := range []string{"tile", "artifact"} {
		if strings.HasPrefix(key, kind+":") || strings.Contains(key, ":"+kind+":") {
			return kind
		}
	}
	return "other"
}
