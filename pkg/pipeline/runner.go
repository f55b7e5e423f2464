package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/truchet/pkg/cache"
	"github.com/matzehuels/truchet/pkg/observability"
	"github.com/matzehuels/truchet/pkg/placement"
	"github.com/matzehuels/truchet/pkg/tile"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ArtifactTTL overrides cache.TTLArtifact when positive.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete normalize → place → render pipeline with caching.
// An empty eligible tile set is not an error: it renders an empty composite.
func (r *Runner) Execute(ctx context.Context, raws []tile.RawTile, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Seed: opts.Seed}
	result.Stats.InputCount = len(raws)

	// Stage 1: Normalize
	normStart := time.Now()
	tiles, hits, err := r.NormalizeWithCacheInfo(ctx, raws, opts)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	result.Tiles = tiles
	result.Stats.EligibleCount = len(tiles)
	result.Stats.NormalizeTime = time.Since(normStart)
	result.CacheInfo.TileHits = hits

	opts.Logger.Info("normalized tiles",
		"eligible", len(tiles),
		"excluded", result.Stats.Excluded(),
		"cached", hits,
		"duration", result.Stats.NormalizeTime)

	// Stage 2: Place
	placeStart := time.Now()
	plan, err := r.Place(ctx, tiles, opts)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	result.Plan = plan
	result.Stats.CellCount = len(plan.Cells)
	result.Stats.PlaceTime = time.Since(placeStart)

	opts.Logger.Info("placed tiles",
		"grid", plan.GridSize,
		"shape", opts.Params.Shape,
		"seed", opts.Seed,
		"duration", result.Stats.PlaceTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, plan, TilesHash(tiles), opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// NormalizeWithCacheInfo normalizes every raw tile, reading and writing the
// canonical form through the cache, and returns the eligible tiles in input
// order together with the number of cache hits.
func (r *Runner) NormalizeWithCacheInfo(ctx context.Context, raws []tile.RawTile, opts Options) ([]tile.NormalizedTile, int, error) {
	r.applyLogger(&opts)
	opts.Params.SetDefaults()
	size := opts.Params.TileSize

	start := time.Now()
	observability.Pipeline().OnNormalizeStart(ctx, len(raws))

	hits := 0
	tiles := make([]tile.NormalizedTile, 0, len(raws))
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, hits, err
		}

		key := r.Keyer.TileKey(cache.Hash([]byte(raw.Content)), size)
		if !opts.NoCache {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, key)
				hits++
				n := tile.NormalizedTile{RawTile: raw, Canonical: string(data)}
				if n.Eligible() {
					tiles = append(tiles, n)
				}
				continue
			}
			observability.Cache().OnCacheMiss(ctx, key)
		}

		n := tile.Normalize(raw, size)
		if !opts.NoCache {
			if err := r.Cache.Set(ctx, key, []byte(n.Canonical), cache.TTLTile); err == nil {
				observability.Cache().OnCacheSet(ctx, key, len(n.Canonical))
			}
		}
		if n.Eligible() {
			tiles = append(tiles, n)
		} else {
			opts.Logger.Debug("excluded tile", "file", raw.FileName)
		}
	}

	observability.Pipeline().OnNormalizeComplete(ctx, len(tiles), len(raws)-len(tiles), time.Since(start))
	return tiles, hits, nil
}

// Normalize is a convenience wrapper that calls NormalizeWithCacheInfo and discards the cache hit info.
func (r *Runner) Normalize(ctx context.Context, raws []tile.RawTile, opts Options) ([]tile.NormalizedTile, error) {
	tiles, _, err := r.NormalizeWithCacheInfo(ctx, raws, opts)
	return tiles, err
}

// Place draws the placement plan from the options' seed.
func (r *Runner) Place(ctx context.Context, tiles []tile.NormalizedTile, opts Options) (placement.Plan, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPlace(); err != nil {
		return placement.Plan{}, err
	}

	start := time.Now()
	observability.Pipeline().OnPlaceStart(ctx, opts.Params.GridSize, string(opts.Params.Shape))
	plan := placement.Place(tiles, opts.Params, placement.NewRand(opts.Seed))
	observability.Pipeline().OnPlaceComplete(ctx, plan.GridSize, len(plan.Cells), time.Since(start))

	if plan.Empty() {
		opts.Logger.Warn("no usable tiles, composite is empty")
	}
	return plan, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. tilesHash identifies the eligible tile set (see TilesHash).
func (r *Runner) RenderWithCacheInfo(ctx context.Context, plan placement.Plan, tilesHash string, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	useCache := opts.cacheArtifacts()

	// Try to get all formats from cache
	if useCache {
		artifacts = make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(tilesHash, opts.ArtifactKeyOpts(format))
			data, ok, err := r.Cache.Get(ctx, key)
			if err != nil || !ok {
				observability.Cache().OnCacheMiss(ctx, key)
				break
			}
			observability.Cache().OnCacheHit(ctx, key)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	// Render all formats
	rendered, err := Render(plan, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if useCache {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(tilesHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, r.artifactTTL()); err == nil {
				observability.Cache().OnCacheSet(ctx, key, len(data))
			}
		}
	}

	return rendered, false, nil
}

// TilesHash identifies an ordered tile set by file name, busyness and
// canonical markup, the inputs that affect placement and rendering.
func TilesHash(tiles []tile.NormalizedTile) string {
	parts := make([]string, 0, 3*len(tiles))
	for _, t := range tiles {
		parts = append(parts, t.FileName, strconv.Itoa(t.Busyness), t.Canonical)
	}
	return cache.HashStrings(parts...)
}

func (r *Runner) artifactTTL() time.Duration {
	if r.ArtifactTTL > 0 {
		return r.ArtifactTTL
	}
	return cache.TTLArtifact
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
