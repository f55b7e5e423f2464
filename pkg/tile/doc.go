// Package tile converts user-supplied SVG fragments into canonical Truchet tiles.
//
// # Overview
//
// A [RawTile] is what the user uploaded: arbitrary SVG markup with an arbitrary
// viewport, arbitrary fills, and a busyness weight between 0 and 10. [Normalize]
// re-expresses that markup in a fixed tileSize × tileSize coordinate space so
// that every tile can be dropped verbatim into a grid cell of the composite:
//
//   - the natural box comes from viewBox, or from width/height (default 24)
//   - every element gets fill="none"
//   - children are wrapped in a centering translate + uniform scale group
//   - an unfilled background rect fixes the tile footprint
//
// The result is wrapped in a standalone <svg viewBox="0 0 T T"> element.
//
// # Eligibility
//
// Normalization never fails loudly. Markup without an svg element, or markup
// that does not parse, yields an empty [NormalizedTile.Canonical] and the tile
// is dropped by [NormalizeAll]:
//
//	tiles := tile.NormalizeAll(raws, tile.DefaultSize)
//	// len(tiles) <= len(raws); order is preserved
//
// # Tree Walking
//
// [Walk] is a parser-agnostic pre-order traversal used for fill stripping and
// namespace cleanup. It takes the child accessor as a function so it works on
// any tree type.
package tile
