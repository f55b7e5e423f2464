// Package sink provides output format renderers for Truchet composites.
//
// # Overview
//
// A "sink" transforms a computed [placement.Plan] into a final output format.
// This package provides renderers for:
//
//   - SVG: the composite document
//   - JSON: the structured placement result
//   - PDF: print-ready output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] emits one root svg sized GridSize·TileSize square and one group
// per cell, in row-major order:
//
//	<g id="arc.svg" transform="translate(48, 24) rotate(90, 12, 12)">…</g>
//
// The group id is the tile file name passed through [SanitizeID]. Ids are
// not deduplicated; every cell that uses the same tile carries the same id.
//
// Normalized tiles have their fills stripped, so coloring is up to the
// composite:
//
//	svg := sink.RenderSVG(plan,
//	    sink.WithBackground("#fdf6e3"),
//	    sink.WithStroke("#073642", 1.5),
//	)
//
// [Generate] is the one-call form that places and renders.
//
// # JSON Output
//
// [RenderJSON] exports the grid, the tile size and every cell's position,
// tile and angle. Generation parameters and the seed can be recorded with
// [WithJSONParams] and [WithJSONSeed] so a composite can be reproduced.
//
// # PDF Output
//
// [RenderPDF] renders SVG first, then converts via [render.ToPDF]. This
// requires librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [placement.Plan]: github.com/matzehuels/truchet/pkg/placement.Plan
// [render.ToPDF]: github.com/matzehuels/truchet/pkg/render.ToPDF
package sink
