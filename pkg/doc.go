// Package pkg provides the libraries behind truchet, a generator for
// Truchet-style patterns composed from square SVG tiles.
//
// # Overview
//
// A pattern is a square grid in which every cell holds one tile, chosen by
// a spatial distribution over the tiles' busyness and rotated by a rotation
// strategy. The pkg directory is organized into three areas:
//
//  1. Core - [tile] normalization and [placement] of tiles on the grid
//  2. Output - [render/sink] composes plans into SVG, JSON and PDF
//  3. Infrastructure - [pipeline], [cache], [library], [ingest], [config]
//
// # Architecture
//
// The data flow for one generation:
//
//	SVG files / tile library
//	         ↓
//	    [ingest] (read, sanitize, apply busyness.yaml)
//	         ↓
//	    [tile] (scale into a T×T viewport, strip fills)
//	         ↓
//	    [placement] (pick and rotate a tile per cell)
//	         ↓
//	    [render/sink] (SVG, JSON, PDF)
//
// [pipeline] runs these stages with caching, and is what the CLI calls.
//
// # Quick Start
//
//	tiles := tile.NormalizeAll(raws, placement.DefaultTileSize)
//
//	params := placement.DefaultParams()
//	params.Shape = placement.ShapeCircle
//	plan := placement.Place(tiles, params, placement.NewRand(7))
//
//	svg := sink.RenderSVG(plan, sink.WithStroke("black", 1))
//
// # Main Packages
//
// [tile] - Raw and normalized tiles. Normalization maps a tile's natural box
// into the canonical square and removes every fill so tiles render as line
// work. Tiles that cannot be normalized are excluded from placement.
//
// [placement] - Grid parameters, the shape distributions (random, circle,
// gradient, exponential) and the rotation strategies (default, random,
// pyramid). All randomness comes from an injected [placement.Rand].
//
// [render/sink] - Composite SVG, JSON placement export and PDF via librsvg.
//
// [pipeline] - Normalize → place → render with per-tile and per-artifact
// caching. Options validate and default themselves.
//
// [cache] - File, Redis and null cache backends with hashed keys.
//
// [library] - Persistent tile library with file, SQLite and MongoDB stores.
//
// [ingest] - Loading SVG files and directories, sanitization, busyness
// manifests and directory watching.
//
// [config] - TOML configuration under the XDG base directories.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for pipeline, cache and store events.
//
// [tile]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/tile
// [placement]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/placement
// [placement.Rand]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/placement#Rand
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/cache
// [library]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/library
// [ingest]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/ingest
// [config]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/truchet/pkg/observability
package pkg
