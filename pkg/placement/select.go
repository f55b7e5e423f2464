package placement

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/truchet/pkg/tile"
)

// selector picks a tile for one grid cell.
type selector interface {
	pick(row, col int, rng Rand) tile.NormalizedTile
}

// newSelector builds the selector for shape. Unknown shapes fall back to
// uniform random selection. tiles must be non-empty.
func newSelector(shape Shape, tiles []tile.NormalizedTile, gridSize int, sigma float64) selector {
	switch shape {
	case ShapeCircle:
		return newCircleSelector(tiles, gridSize, sigma)
	case ShapeGradient:
		return newGradientSelector(tiles, gridSize, sigma)
	case ShapeExponential:
		return newExponentialSelector(tiles, gridSize, sigma)
	default:
		return randomSelector{tiles: tiles}
	}
}

// Rank returns a copy of tiles ordered by descending busyness. Tiles of equal
// busyness keep their relative order.
func Rank(tiles []tile.NormalizedTile) []tile.NormalizedTile {
	ranked := slices.Clone(tiles)
	slices.SortStableFunc(ranked, func(a, b tile.NormalizedTile) int {
		return cmp.Compare(b.Busyness, a.Busyness)
	})
	return ranked
}

type randomSelector struct {
	tiles []tile.NormalizedTile
}

func (s randomSelector) pick(_, _ int, rng Rand) tile.NormalizedTile {
	return s.tiles[rng.IntN(len(s.tiles))]
}

// circleSelector maps the busiest tiles to the innermost of K equal-area
// rings around the grid center.
type circleSelector struct {
	ranked   []tile.NormalizedTile
	rings    []float64 // cumulative area fraction of ring i: (i+1)/K
	gridSize int
	sigma    float64
}

func newCircleSelector(tiles []tile.NormalizedTile, gridSize int, sigma float64) circleSelector {
	ranked := Rank(tiles)
	rings := make([]float64, len(ranked))
	for i := range rings {
		rings[i] = float64(i+1) / float64(len(ranked))
	}
	return circleSelector{ranked: ranked, rings: rings, gridSize: gridSize, sigma: sigma}
}

func (s circleSelector) pick(row, col int, rng Rand) tile.NormalizedTile {
	center := float64(s.gridSize) / 2
	dx := float64(col) + 0.5 - center
	dy := float64(row) + 0.5 - center
	r := math.Hypot(dx, dy) / center

	cdf := GaussianCDF(s.rings, r*r, s.sigma)
	if i, ok := Sample(cdf, rng.Float64()); ok {
		return s.ranked[i]
	}
	return s.ranked[len(s.ranked)-1]
}

// gradientSelector spreads the ranked tiles evenly from the top row (busiest)
// to the bottom row (calmest).
type gradientSelector struct {
	ranked    []tile.NormalizedTile
	positions []float64 // i/(K-1), or 0 for a single tile
	gridSize  int
	sigma     float64
}

func newGradientSelector(tiles []tile.NormalizedTile, gridSize int, sigma float64) gradientSelector {
	ranked := Rank(tiles)
	positions := make([]float64, len(ranked))
	if len(ranked) > 1 {
		for i := range positions {
			positions[i] = float64(i) / float64(len(ranked)-1)
		}
	}
	return gradientSelector{ranked: ranked, positions: positions, gridSize: gridSize, sigma: sigma}
}

func (s gradientSelector) pick(row, _ int, rng Rand) tile.NormalizedTile {
	pos := float64(row) / float64(max(1, s.gridSize-1))
	cdf := GaussianCDF(s.positions, pos, s.sigma)
	if i, ok := Sample(cdf, rng.Float64()); ok {
		return s.ranked[i]
	}
	return s.ranked[rng.IntN(len(s.ranked))]
}

// exponentialSelector fills a centered band with busyness-10 tiles and the
// rest of the row with busyness-0 tiles. When a pool is empty the whole set
// is used instead.
type exponentialSelector struct {
	busy     []tile.NormalizedTile
	calm     []tile.NormalizedTile
	gridSize int
	sigma    float64
}

func newExponentialSelector(tiles []tile.NormalizedTile, gridSize int, sigma float64) exponentialSelector {
	var busy, calm []tile.NormalizedTile
	for _, t := range tiles {
		switch t.Busyness {
		case tile.MaxBusyness:
			busy = append(busy, t)
		case tile.MinBusyness:
			calm = append(calm, t)
		}
	}
	if len(busy) == 0 {
		busy = tiles
	}
	if len(calm) == 0 {
		calm = tiles
	}
	return exponentialSelector{busy: busy, calm: calm, gridSize: gridSize, sigma: sigma}
}

func (s exponentialSelector) pick(row, col int, rng Rand) tile.NormalizedTile {
	start, count := Band(row, s.gridSize, s.sigma)
	if col >= start && col < start+count {
		return s.busy[rng.IntN(len(s.busy))]
	}
	return s.calm[rng.IntN(len(s.calm))]
}

// Band returns the first column and the width of the busy band in row for the
// exponential shape. The width grows as G·pos^e with pos = row/(G-1) and
// e = (1-σ)·4 + 1, so smaller sigmas give a sharper, later-opening funnel.
func Band(row, gridSize int, sigma float64) (start, count int) {
	pos := float64(row) / float64(max(1, gridSize-1))
	exp := (1-sigma)*4 + 1
	count = int(math.Round(float64(gridSize) * math.Pow(pos, exp)))
	count = min(max(count, 0), gridSize)
	start = (gridSize - count) / 2
	return start, count
}
