package placement

import "github.com/matzehuels/truchet/pkg/tile"

// Cell is one placed tile.
type Cell struct {
	Row   int                 `json:"row"`
	Col   int                 `json:"col"`
	Tile  tile.NormalizedTile `json:"tile"`
	Angle int                 `json:"angle"`
}

// X returns the left edge of the cell in composite coordinates.
func (c Cell) X(tileSize int) int { return c.Col * tileSize }

// Y returns the top edge of the cell in composite coordinates.
func (c Cell) Y(tileSize int) int { return c.Row * tileSize }

// Plan is a complete placement: GridSize² cells in row-major order, or no
// cells at all when there were no tiles to place.
type Plan struct {
	GridSize int    `json:"grid_size"`
	TileSize int    `json:"tile_size"`
	Cells    []Cell `json:"cells"`
}

// Extent returns the composite width and height.
func (p Plan) Extent() int { return p.GridSize * p.TileSize }

// Empty reports whether the plan has no cells.
func (p Plan) Empty() bool { return len(p.Cells) == 0 }

// Place assigns a tile and an angle to every cell of the grid described by
// params. Tiles are consumed in row-major order, one selection and then one
// rotation draw per cell. The tiles slice is never modified.
//
// Place does not validate params; call [Params.Validate] first. An empty
// tile set yields a plan with no cells.
func Place(tiles []tile.NormalizedTile, params Params, rng Rand) Plan {
	plan := Plan{GridSize: params.GridSize, TileSize: params.TileSize}
	if len(tiles) == 0 || params.GridSize <= 0 {
		return plan
	}

	sel := newSelector(params.Shape, tiles, params.GridSize, params.Sigma)
	plan.Cells = make([]Cell, 0, params.GridSize*params.GridSize)
	for row := range params.GridSize {
		for col := range params.GridSize {
			t := sel.pick(row, col, rng)
			plan.Cells = append(plan.Cells, Cell{
				Row:   row,
				Col:   col,
				Tile:  t,
				Angle: Angle(params.Rotation, row, col, params.GridSize, rng),
			})
		}
	}
	return plan
}

// Counts returns how many cells each tile file occupies.
func (p Plan) Counts() map[string]int {
	counts := make(map[string]int)
	for _, c := range p.Cells {
		counts[c.Tile.FileName]++
	}
	return counts
}
