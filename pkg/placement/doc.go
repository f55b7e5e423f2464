// Package placement decides which tile goes into each cell of a Truchet grid
// and how it is rotated.
//
// # Overview
//
// [Place] walks a GridSize × GridSize grid in row-major order. For every cell
// it asks the shape's selector for a tile and the rotation rule for an angle,
// producing a [Plan] that the sink package turns into an SVG composite.
//
// # Shapes
//
//   - random: uniform pick per cell
//   - circle: tiles ranked by busyness occupy equal-area rings around the
//     grid center; a Gaussian kernel of width sigma blurs the ring borders
//   - gradient: ranked tiles are spread over the rows top to bottom
//   - exponential: a centered band of busyness-10 tiles widens with the row
//     index; everything outside it is drawn from busyness-0 tiles
//
// Ranking always works on a copy; the caller's slice order is preserved.
//
// # Rotation
//
//   - default: 0°
//   - random: one of 0°, 90°, 180°, -90°
//   - pyramid: the cardinal direction from the grid center, giving a
//     pinwheel pattern
//
// # Randomness
//
// All randomness comes from the [Rand] passed in. Use [NewRand] with a fixed
// seed for reproducible output:
//
//	plan := placement.Place(tiles, params, placement.NewRand(42))
package placement
